// Package syncer reconciles the local store against the remote JSON
// document. The pull path fetches the published snapshot and merges it in;
// the push path writes the local snapshot back through a hash-conditional
// update. Pull failures are silent so the storefront keeps serving the data
// it has; push failures surface to the admin who triggered them.
package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"storefront-service/internal/model"
	"storefront-service/internal/store"
	"storefront-service/pkg/contentstore"
	"storefront-service/prometheus"

	"go.uber.org/zap"
)

// ErrNotConfigured is returned by Push when content-store credentials are
// missing.
var ErrNotConfigured = contentstore.ErrNotConfigured

// Engine runs the pull schedule and serves push requests.
type Engine struct {
	store    *store.Store
	content  *contentstore.Client
	dataURL  string
	dataPath string
	interval time.Duration
	attempts int
	client   *http.Client
	log      *zap.Logger

	ready     chan struct{}
	readyOnce sync.Once
	refresh   chan struct{}
}

// New creates a sync engine. dataURL is the published snapshot URL the pull
// path fetches; empty disables pulling (the readiness signal still fires).
func New(st *store.Store, content *contentstore.Client, dataURL, dataPath string, interval time.Duration, pushAttempts int, log *zap.Logger) *Engine {
	if interval <= 0 {
		interval = 45 * time.Second
	}
	if pushAttempts < 1 {
		pushAttempts = 1
	}
	return &Engine{
		store:    st,
		content:  content,
		dataURL:  dataURL,
		dataPath: dataPath,
		interval: interval,
		attempts: pushAttempts,
		client:   &http.Client{Timeout: 30 * time.Second},
		log:      log,
		ready:    make(chan struct{}),
		refresh:  make(chan struct{}, 1),
	}
}

// Ready returns a channel closed once the initial pull has been attempted,
// successfully or not. Catalog-dependent consumers wait on it before first
// render so they never show stale defaults when fresher data is one fetch
// away.
func (e *Engine) Ready() <-chan struct{} {
	return e.ready
}

// RefreshNow nudges the engine to pull immediately instead of waiting for
// the next interval tick. Safe to call from any goroutine; redundant nudges
// coalesce.
func (e *Engine) RefreshNow() {
	select {
	case e.refresh <- struct{}{}:
	default:
	}
}

// Start launches the sync loop: one initial pull, then an interval pull for
// the lifetime of ctx, plus immediate pulls on RefreshNow nudges.
func (e *Engine) Start(ctx context.Context) {
	go e.run(ctx)
}

func (e *Engine) run(ctx context.Context) {
	e.Pull(ctx)
	e.readyOnce.Do(func() { close(e.ready) })

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.Pull(ctx)
		case <-e.refresh:
			e.Pull(ctx)
		}
	}
}

// Pull fetches the remote snapshot and applies it to the store. Any
// network, HTTP or decode failure resolves to "no change": existing local
// data is kept and no error reaches the caller. Returns whether a snapshot
// was applied.
func (e *Engine) Pull(ctx context.Context) bool {
	if e.dataURL == "" {
		return false
	}

	snap, err := e.fetchSnapshot(ctx)
	if err != nil {
		prometheus.RecordSyncPull("error")
		e.log.Warn("Remote pull failed, keeping local data", zap.Error(err))
		return false
	}

	e.store.ApplyRemote(snap)
	prometheus.RecordSyncPull("ok")
	e.updateInventoryGauges()
	e.log.Debug("Remote snapshot applied")
	return true
}

func (e *Engine) fetchSnapshot(ctx context.Context) (*model.Snapshot, error) {
	// Cache-busting query param; intermediaries love stale JSON.
	sep := "?"
	if strings.Contains(e.dataURL, "?") {
		sep = "&"
	}
	url := e.dataURL + sep + "t=" + strconv.FormatInt(time.Now().UnixMilli(), 10)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("snapshot fetch returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var snap model.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("snapshot decode: %w", err)
	}
	return &snap, nil
}

// Push writes the full local snapshot to the remote document through a
// hash-conditional update with bounded retry. On success a refresh nudge is
// queued so consumers converge on the document that was just written. The
// caller surfaces failures; local data is never rolled back.
func (e *Engine) Push(ctx context.Context) error {
	if !e.content.Configured() {
		return ErrNotConfigured
	}

	body, err := json.MarshalIndent(e.store.SyncPayload(), "", "  ")
	if err != nil {
		return err
	}

	err = e.content.UpdateJSON(ctx, e.dataPath, e.attempts, "Update store data from admin",
		func([]byte) ([]byte, error) {
			// Full-document replacement; the local store is the admin's truth.
			return body, nil
		})
	if err != nil {
		if errors.Is(err, contentstore.ErrConflict) {
			prometheus.RecordSyncConflict()
		}
		prometheus.RecordSyncPush("error")
		e.log.Error("Remote push failed", zap.Error(err))
		return err
	}

	prometheus.RecordSyncPush("ok")
	e.log.Info("Remote push complete", zap.String("path", e.dataPath))
	e.RefreshNow()
	return nil
}

func (e *Engine) updateInventoryGauges() {
	for _, p := range e.store.Products() {
		prometheus.UpdateProductInventory(p.ID, p.Name, p.Category, float64(p.TotalStock()))
	}
}
