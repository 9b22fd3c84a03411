package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"storefront-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(t.TempDir(), zap.NewNop())
}

func TestDefaultsSeededOnFirstRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := New(dir, zap.NewNop())

	assert.Len(t, s.Products(), 3)
	assert.Empty(t, s.Orders())
	assert.Len(t, s.Sizes(), 7)
	assert.NotEmpty(t, s.Admin().PasswordHash)

	// Documents land on disk as <key>.json
	_, err := os.Stat(filepath.Join(dir, "products.json"))
	assert.NoError(t, err)
}

func TestMalformedDocumentFallsBackToDefault(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "products.json"), []byte("{not json"), 0o644))

	s := New(dir, zap.NewNop())
	products := s.Products()
	assert.Len(t, products, 3)
	assert.Equal(t, "classic-fit", products[0].ID)
}

func TestContentRejectsNonObject(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "content.json"), []byte(`[1,2,3]`), 0o644))

	s := New(dir, zap.NewNop())
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(s.Content(), &doc))
	assert.Contains(t, doc, "home")
}

func TestVisibleProducts(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	s.SetProducts([]model.Product{
		{ID: "a", Name: "A", Category: "T-Shirts", Visible: true},
		{ID: "b", Name: "B", Category: "Hoodies", Visible: true},
		{ID: "c", Name: "C", Category: "T-Shirts", Visible: true},
		{ID: "hidden", Name: "H", Visible: false},
	})

	t.Run("hidden products excluded", func(t *testing.T) {
		ids := productIDs(s.VisibleProducts(""))
		assert.Equal(t, []string{"a", "b", "c"}, ids)
	})

	t.Run("product order placement", func(t *testing.T) {
		design := s.Design()
		design.ProductOrder = []string{"b", "a"}
		s.SetDesign(design)

		ids := productIDs(s.VisibleProducts(""))
		assert.Equal(t, []string{"b", "a", "c"}, ids)

		design.ProductOrder = nil
		s.SetDesign(design)
	})

	t.Run("category filter", func(t *testing.T) {
		ids := productIDs(s.VisibleProducts("T-Shirts"))
		assert.Equal(t, []string{"a", "c"}, ids)

		assert.Len(t, s.VisibleProducts("All"), 3)
		assert.Empty(t, s.VisibleProducts("Socks"))
	})
}

func productIDs(products []model.Product) []string {
	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return ids
}

func TestAddOrder(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }

	id := s.AddOrder(model.Order{FullName: "Yassine", Phone: "0612345678"})
	assert.Equal(t, "ord-1700000000000", id)

	orders := s.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, model.OrderStatusPending, orders[0].Status)

	s.now = func() time.Time { return time.UnixMilli(1700000001000) }
	s.AddOrder(model.Order{FullName: "Imane", Phone: "0698765432"})

	orders = s.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, "Imane", orders[0].FullName, "newest order first")
}

// stubClock hands out a distinct timestamp per call so concurrently added
// orders get unique IDs.
func stubClock(s *Store) {
	var seq atomic.Int64
	base := time.UnixMilli(1700000000000)
	s.now = func() time.Time {
		return base.Add(time.Duration(seq.Add(1)) * time.Millisecond)
	}
}

func TestAddOrderConcurrent(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	stubClock(s)

	const workers, perWorker = 8, 100
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				s.AddOrder(model.Order{
					FullName: fmt.Sprintf("Customer %d-%d", w, i),
					Phone:    "0612345678",
				})
			}
		}(w)
	}
	wg.Wait()

	orders := s.Orders()
	require.Len(t, orders, workers*perWorker, "every concurrently added order must survive")

	ids := make(map[string]bool, len(orders))
	for _, o := range orders {
		ids[o.ID] = true
	}
	assert.Len(t, ids, workers*perWorker, "order IDs are unique")
}

func TestApplyRemoteRacingAddOrder(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	stubClock(s)

	remote := []model.Order{
		{ID: "ord-remote-1", Date: "2025-01-01T00:00:00Z"},
		{ID: "ord-remote-2", Date: "2025-01-02T00:00:00Z"},
	}

	const adds = 100
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < adds; i++ {
			s.AddOrder(model.Order{FullName: fmt.Sprintf("Local %d", i), Phone: "0600000000"})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			s.ApplyRemote(&model.Snapshot{Orders: &remote})
		}
	}()
	wg.Wait()

	orders := s.Orders()
	require.Len(t, orders, adds+len(remote), "a pull merging orders must not drop a racing checkout")
}

func TestSetOrderStatus(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	id := s.AddOrder(model.Order{FullName: "Yassine", Phone: "0612345678"})

	assert.True(t, s.SetOrderStatus(id, "confirmed"))
	assert.Equal(t, "confirmed", s.Orders()[0].Status)

	assert.False(t, s.SetOrderStatus("ord-missing", "confirmed"))
}

func TestWhatsappNumber(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	// Falls back to the admin document's number
	assert.Equal(t, "212679460301", s.WhatsappNumber())

	s.SetWhatsappNumber("+212 600-112233")
	assert.Equal(t, "212600112233", s.WhatsappNumber())
}

func TestAddSize(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }

	size, ok := s.AddSize("Extra Large")
	require.True(t, ok)
	assert.Equal(t, "extra-large", size.ID)
	assert.Equal(t, "Extra Large", size.Name)

	t.Run("collision gets timestamp suffix", func(t *testing.T) {
		dup, ok := s.AddSize("Extra  large")
		require.True(t, ok)
		assert.Equal(t, "extra-large-1700000000000", dup.ID)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		_, ok := s.AddSize("   ")
		assert.False(t, ok)
	})

	t.Run("non-latin name gets generated slug", func(t *testing.T) {
		size, ok := s.AddSize("كبير")
		require.True(t, ok)
		assert.Equal(t, "size-1700000000000", size.ID)
	})
}

func TestMergeOrders(t *testing.T) {
	t.Parallel()

	t.Run("empty remote keeps local", func(t *testing.T) {
		t.Parallel()

		local := []model.Order{{ID: "ord-1", FullName: "Local"}}
		merged := MergeOrders(nil, local)
		require.Len(t, merged, 1)
		assert.Equal(t, "Local", merged[0].FullName)
	})

	t.Run("remote wins for shared ids", func(t *testing.T) {
		t.Parallel()

		remote := []model.Order{{ID: "ord-1", Status: "confirmed"}}
		local := []model.Order{{ID: "ord-1", Status: "pending"}}
		merged := MergeOrders(remote, local)
		require.Len(t, merged, 1)
		assert.Equal(t, "confirmed", merged[0].Status)
	})

	t.Run("sorted most recent first, unparseable oldest", func(t *testing.T) {
		t.Parallel()

		merged := MergeOrders(
			[]model.Order{
				{ID: "old", Date: "2025-01-01T00:00:00Z"},
				{ID: "broken", Date: "not-a-date"},
			},
			[]model.Order{
				{ID: "new", Date: "2025-06-01T00:00:00Z"},
			},
		)
		require.Len(t, merged, 3)
		assert.Equal(t, "new", merged[0].ID)
		assert.Equal(t, "old", merged[1].ID)
		assert.Equal(t, "broken", merged[2].ID)
	})

	t.Run("orders without ids dropped", func(t *testing.T) {
		t.Parallel()

		merged := MergeOrders([]model.Order{{FullName: "anon"}}, nil)
		assert.Empty(t, merged)
	})
}

func TestApplyRemote(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	originalAdmin := s.Admin()

	products := []model.Product{{ID: "remote-tee", Name: "Remote", Visible: true}}
	remoteOrders := []model.Order{{ID: "ord-remote", Date: "2025-03-01T00:00:00Z"}}
	s.AddOrder(model.Order{FullName: "Local customer", Phone: "0600000000"})

	s.ApplyRemote(&model.Snapshot{
		Products:       &products,
		Orders:         &remoteOrders,
		WhatsappNumber: "+212 777 888 999",
	})

	assert.Equal(t, "remote-tee", s.Products()[0].ID)
	assert.Len(t, s.Orders(), 2, "local-only order survives the pull")
	assert.Equal(t, "212777888999", s.WhatsappNumber())
	assert.Equal(t, originalAdmin, s.Admin(), "admin document never touched by remote")
}

func TestApplyRemoteSkipsAbsentFields(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	before := s.Products()

	s.ApplyRemote(&model.Snapshot{})
	assert.Equal(t, before, s.Products())

	s.ApplyRemote(nil)
	assert.Equal(t, before, s.Products())
}

func TestSyncPayloadExcludesAdmin(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	payload, err := json.Marshal(s.SyncPayload())
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(payload, &doc))
	assert.Contains(t, doc, "products")
	assert.Contains(t, doc, "design")
	assert.NotContains(t, doc, "admin")
}

func TestSetSurvivesUnwritableDirectory(t *testing.T) {
	t.Parallel()

	// A file where the data directory should be makes every write fail.
	s := &Store{dir: filepath.Join(t.TempDir(), "blocked"), log: zap.NewNop(), now: time.Now, cache: map[string][]byte{}}
	require.NoError(t, os.WriteFile(s.dir, []byte("file, not dir"), 0o644))

	ok := s.SetOrdersAPIURL("https://api.example.com")
	assert.False(t, ok, "disk write fails")
	assert.Equal(t, "https://api.example.com", s.OrdersAPIURL(), "cache still serves the value")
}
