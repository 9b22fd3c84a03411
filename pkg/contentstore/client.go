// Package contentstore talks to the GitHub Contents API, which serves as
// the single shared document store for the storefront: one JSON file,
// addressed by owner/repo/path/branch, updated with hash-conditional writes.
package contentstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the GitHub REST API root.
const DefaultBaseURL = "https://api.github.com"

var (
	// ErrNotFound is returned when the document does not exist yet.
	ErrNotFound = errors.New("content not found")
	// ErrConflict is returned when a conditional write is rejected because
	// the document changed since it was read.
	ErrConflict = errors.New("content hash conflict")
	// ErrNotConfigured is returned when token, owner or repo is missing.
	ErrNotConfigured = errors.New("content store not configured")
)

// Client performs get-by-path-with-hash and conditional-put-by-hash
// operations against a single repository.
type Client struct {
	BaseURL    string
	Token      string
	Owner      string
	Repo       string
	Branch     string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewClient creates a content store client. Branch defaults to "main".
func NewClient(token, owner, repo, branch string, logger *zap.Logger) *Client {
	if strings.TrimSpace(branch) == "" {
		branch = "main"
	}
	return &Client{
		BaseURL:    DefaultBaseURL,
		Token:      strings.TrimSpace(token),
		Owner:      strings.TrimSpace(owner),
		Repo:       strings.TrimSpace(repo),
		Branch:     strings.TrimSpace(branch),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Logger:     logger,
	}
}

// Configured reports whether the client has everything it needs to talk to
// the content store.
func (c *Client) Configured() bool {
	return c.Token != "" && c.Owner != "" && c.Repo != ""
}

type fileResponse struct {
	Content  string `json:"content"`
	SHA      string `json:"sha"`
	Encoding string `json:"encoding"`
}

func (c *Client) contentURL(path string) string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		c.BaseURL, url.PathEscape(c.Owner), url.PathEscape(c.Repo), url.PathEscape(path))
}

// GetFile fetches the document at path on the configured branch and returns
// its decoded content and content hash.
func (c *Client) GetFile(ctx context.Context, path string) ([]byte, string, error) {
	if !c.Configured() {
		return nil, "", ErrNotConfigured
	}

	reqURL := c.contentURL(path) + "?ref=" + url.QueryEscape(c.Branch)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, "", ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("content store GET failed: %d %s", resp.StatusCode, string(body))
	}

	var file fileResponse
	if err := json.Unmarshal(body, &file); err != nil {
		return nil, "", fmt.Errorf("content store GET: invalid response: %w", err)
	}

	// The API base64-encodes content with embedded newlines.
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(file.Content, "\n", ""))
	if err != nil {
		return nil, "", fmt.Errorf("content store GET: invalid base64 content: %w", err)
	}
	return decoded, file.SHA, nil
}

type putRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha,omitempty"`
}

// PutFile writes data to path. When sha is non-empty the write is
// conditional: the content store rejects it if the document's current hash
// differs, in which case ErrConflict is returned. An empty sha creates the
// document.
func (c *Client) PutFile(ctx context.Context, path string, data []byte, sha, message string) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	payload, err := json.Marshal(putRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(data),
		Branch:  c.Branch,
		SHA:     sha,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.contentURL(path), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	// 409 is the documented hash-mismatch status; 422 shows up when the sha
	// is stale or missing for an existing file.
	if resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnprocessableEntity {
		return fmt.Errorf("%w: %d %s", ErrConflict, resp.StatusCode, string(body))
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("content store PUT failed: %d %s", resp.StatusCode, string(body))
	}
	return nil
}

// UpdateJSON performs a read-modify-write of the document at path: read the
// current content and hash, apply mutate, write back conditionally on the
// hash. On a hash conflict the whole cycle is retried, up to attempts total
// tries. A missing document is passed to mutate as nil and created on write.
func (c *Client) UpdateJSON(ctx context.Context, path string, attempts int, message string, mutate func(current []byte) ([]byte, error)) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for try := 1; try <= attempts; try++ {
		current, sha, err := c.GetFile(ctx, path)
		if errors.Is(err, ErrNotFound) {
			current, sha = nil, ""
		} else if err != nil {
			return err
		}

		next, err := mutate(current)
		if err != nil {
			return err
		}

		err = c.PutFile(ctx, path, next, sha, message)
		if err == nil {
			return nil
		}
		lastErr = err
		if !errors.Is(err, ErrConflict) {
			return err
		}
		if c.Logger != nil {
			c.Logger.Warn("Conditional write rejected, re-reading",
				zap.String("path", path),
				zap.Int("try", try),
				zap.Int("attempts", attempts))
		}
	}
	return lastErr
}
