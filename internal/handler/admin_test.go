package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront-service/internal/handler"
	"storefront-service/internal/model"
	"storefront-service/internal/store"
	"storefront-service/internal/syncer"
	"storefront-service/pkg/contentstore"
	"storefront-service/pkg/jwtutil"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAdmin(t *testing.T) (*handler.AdminHandler, *store.Store) {
	t.Helper()
	st := store.New(t.TempDir(), zap.NewNop())
	jwtUtil := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})
	// Unconfigured content store: saves succeed locally, pushes report
	// "not configured".
	content := contentstore.NewClient("", "", "", "", zap.NewNop())
	engine := syncer.New(st, content, "", "data/store-data.json", time.Minute, 3, zap.NewNop())
	return handler.NewAdminHandler(st, jwtUtil, engine), st
}

func adminRequest(h func(echo.Context) error, method, path, body string, params ...string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for i := 0; i+1 < len(params); i += 2 {
		c.SetParamNames(params[i])
		c.SetParamValues(params[i+1])
	}
	h(c)
	return rec
}

func TestAdminLogin(t *testing.T) {
	t.Parallel()

	h, _ := newAdmin(t)

	t.Run("wrong password", func(t *testing.T) {
		rec := adminRequest(h.Login, http.MethodPost, "/api/admin/login", `{"password":"nope"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Incorrect password")
	})

	t.Run("default password issues token", func(t *testing.T) {
		rec := adminRequest(h.Login, http.MethodPost, "/api/admin/login", `{"password":"admin123"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
	})
}

func TestAdminPasswordChange(t *testing.T) {
	t.Parallel()

	h, _ := newAdmin(t)

	rec := adminRequest(h.SaveSettings, http.MethodPut, "/api/admin/settings", `{"password":"s3cret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"synced":false`, "push fails without content store credentials")

	rec = adminRequest(h.Login, http.MethodPost, "/api/admin/login", `{"password":"admin123"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = adminRequest(h.Login, http.MethodPost, "/api/admin/login", `{"password":"s3cret"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminSaveProducts(t *testing.T) {
	t.Parallel()

	h, st := newAdmin(t)

	rec := adminRequest(h.SaveProducts, http.MethodPut, "/api/admin/products",
		`[{"id":"new-tee","name":"New Tee","regularPrice":250,"visible":true}]`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)

	products := st.Products()
	require.Len(t, products, 1)
	assert.Equal(t, "new-tee", products[0].ID)
}

func TestAdminSaveContentValidatesMapFields(t *testing.T) {
	t.Parallel()

	h, st := newAdmin(t)

	t.Run("valid coordinates accepted", func(t *testing.T) {
		rec := adminRequest(h.SaveContent, http.MethodPut, "/api/admin/content",
			`{"home":{},"about":{"mapLat":30.9198,"mapLng":-6.8926,"mapZoom":14}}`)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("out of range rejected", func(t *testing.T) {
		rec := adminRequest(h.SaveContent, http.MethodPut, "/api/admin/content",
			`{"about":{"mapLat":95,"mapLng":-6.8926,"mapZoom":14}}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid coordinates or zoom.")
	})

	t.Run("unknown fields survive the save", func(t *testing.T) {
		rec := adminRequest(h.SaveContent, http.MethodPut, "/api/admin/content",
			`{"home":{},"futureSection":{"x":1}}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var doc map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(st.Content(), &doc))
		assert.Contains(t, doc, "futureSection")
	})

	t.Run("array body rejected", func(t *testing.T) {
		rec := adminRequest(h.SaveContent, http.MethodPut, "/api/admin/content", `[1,2]`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAdminAddSize(t *testing.T) {
	t.Parallel()

	h, st := newAdmin(t)

	rec := adminRequest(h.AddSize, http.MethodPost, "/api/admin/sizes", `{"name":"Extra Large"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"extra-large"`)
	assert.Equal(t, "Extra Large", st.SizeName("extra-large"))

	rec = adminRequest(h.AddSize, http.MethodPost, "/api/admin/sizes", `{"name":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminSettings(t *testing.T) {
	t.Parallel()

	h, st := newAdmin(t)

	rec := adminRequest(h.SaveSettings, http.MethodPut, "/api/admin/settings",
		`{"ordersApiUrl":"https://shop.example.com","whatsappNumber":"+212 600 112 233"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "https://shop.example.com", st.OrdersAPIURL())
	assert.Equal(t, "212600112233", st.WhatsappNumber())
}

func TestAdminUpdateOrderStatus(t *testing.T) {
	t.Parallel()

	h, st := newAdmin(t)
	id := st.AddOrder(model.Order{FullName: "Yassine", Phone: "0612345678"})

	rec := adminRequest(h.UpdateOrderStatus, http.MethodPut, "/api/admin/orders/"+id+"/status",
		`{"status":"confirmed"}`, "id", id)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "confirmed", st.Orders()[0].Status)

	t.Run("unknown order", func(t *testing.T) {
		rec := adminRequest(h.UpdateOrderStatus, http.MethodPut, "/api/admin/orders/ord-x/status",
			`{"status":"confirmed"}`, "id", "ord-x")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("empty status", func(t *testing.T) {
		rec := adminRequest(h.UpdateOrderStatus, http.MethodPut, "/api/admin/orders/"+id+"/status",
			`{"status":""}`, "id", id)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAdminSyncNotConfigured(t *testing.T) {
	t.Parallel()

	h, _ := newAdmin(t)
	rec := adminRequest(h.Sync, http.MethodPost, "/api/admin/sync", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestAdminParseMap(t *testing.T) {
	t.Parallel()

	h, _ := newAdmin(t)

	t.Run("share link", func(t *testing.T) {
		rec := adminRequest(h.ParseMap, http.MethodPost, "/api/admin/map/parse",
			`{"url":"https://www.google.com/maps/@30.9198,-6.8926,14z"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"zoom":14`)
	})

	t.Run("bad link", func(t *testing.T) {
		rec := adminRequest(h.ParseMap, http.MethodPost, "/api/admin/map/parse",
			`{"url":"https://example.com/nothing"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid coordinates or zoom.")
	})

	t.Run("manual fields", func(t *testing.T) {
		rec := adminRequest(h.ParseMap, http.MethodPost, "/api/admin/map/parse",
			`{"lat":"30.9198","lng":"-6.8926","zoom":"14"}`)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = adminRequest(h.ParseMap, http.MethodPost, "/api/admin/map/parse",
			`{"lat":"95","lng":"0","zoom":"14"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAdminInventory(t *testing.T) {
	t.Parallel()

	h, st := newAdmin(t)
	st.SetProducts([]model.Product{{
		ID:   "tee",
		Name: "Tee",
		Inventory: model.Inventory{
			"Black|s": 0,
			"Black|m": 3,
			"White":   40,
		},
		Visible: true,
	}})

	rec := adminRequest(h.Inventory, http.MethodGet, "/api/admin/inventory", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Threshold int `json:"threshold"`
		Rows      []struct {
			Key      string `json:"key"`
			Color    string `json:"color"`
			Size     string `json:"size"`
			Quantity int    `json:"quantity"`
			Status   string `json:"status"`
		} `json:"rows"`
		Alerts []struct {
			Type string `json:"type"`
		} `json:"alerts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, store.LowStockThreshold, resp.Threshold)
	require.Len(t, resp.Rows, 3)
	require.Len(t, resp.Alerts, 2)

	statusByKey := map[string]string{}
	for _, row := range resp.Rows {
		statusByKey[row.Key] = row.Status
	}
	assert.Equal(t, "out-of-stock", statusByKey["Black|s"])
	assert.Equal(t, "low-stock", statusByKey["Black|m"])
	assert.Equal(t, "in-stock", statusByKey["White"])
}
