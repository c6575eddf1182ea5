package routers

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"ecommerce-backend/cache"
	"ecommerce-backend/jwt"
	"ecommerce-backend/models"
	"ecommerce-backend/store/storetest"
	"encoding/json"
	"fmt"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func do(t *testing.T, router http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func createTag(t *testing.T, router http.Handler, name string, headers ...string) models.Tag {
	t.Helper()

	w := do(t, router, http.MethodPost, "/api/tags", gin.H{"tag_name": name}, headers...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[models.Tag](t, w)
}

func tagIDsOf(p models.Product) []uint {
	ids := make([]uint, 0, len(p.Tags))
	for _, tag := range p.Tags {
		ids = append(ids, tag.ID)
	}
	return ids
}

func TestCreateThenGetProduct(t *testing.T) {
	router := SetupRouters(storetest.New(t), nil, nil)

	first := createTag(t, router, "sports")
	second := createTag(t, router, "outdoor")
	require.Equal(t, uint(1), first.ID)
	require.Equal(t, uint(2), second.ID)

	w := do(t, router, http.MethodPost, "/api/products", gin.H{
		"product_name": "Basketball",
		"price":        200.00,
		"stock":        3,
		"tagIds":       []uint{1, 2},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decode[models.Product](t, w)
	assert.Equal(t, []uint{1, 2}, tagIDsOf(created))

	w = do(t, router, http.MethodGet, fmt.Sprintf("/api/products/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	fetched := decode[models.Product](t, w)
	assert.Equal(t, "Basketball", fetched.ProductName)
	assert.True(t, decimal.NewFromInt(200).Equal(fetched.Price))
	assert.Equal(t, 3, fetched.Stock)
	assert.Equal(t, []models.Tag{{ID: 1, TagName: "sports"}, {ID: 2, TagName: "outdoor"}}, fetched.Tags)

	w = do(t, router, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]models.Product](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, []uint{1, 2}, tagIDsOf(list[0]))
}

func TestProductJSONShape(t *testing.T) {
	router := SetupRouters(storetest.New(t), nil, nil)

	w := do(t, router, http.MethodPost, "/api/categories", gin.H{"category_name": "Shirts"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	createTag(t, router, "blue")

	w = do(t, router, http.MethodPost, "/api/products", gin.H{
		"product_name": "Plain T-Shirt",
		"price":        14.99,
		"stock":        14,
		"category_id":  1,
		"tagIds":       []uint{1},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, router, http.MethodGet, "/api/products/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"id": 1,
		"product_name": "Plain T-Shirt",
		"price": 14.99,
		"stock": 14,
		"category_id": 1,
		"category": {"id": 1, "category_name": "Shirts"},
		"tags": [{"id": 1, "tag_name": "blue"}]
	}`, w.Body.String())
}

func TestCreateProductWithoutTags(t *testing.T) {
	router := SetupRouters(storetest.New(t), nil, nil)

	w := do(t, router, http.MethodPost, "/api/products", gin.H{
		"product_name": "Cargo Shorts",
		"price":        "29.99",
		"tagIds":       []uint{},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	created := decode[models.Product](t, w)
	assert.Empty(t, created.Tags)
	assert.Equal(t, 10, created.Stock, "stock defaults to 10")

	w = do(t, router, http.MethodGet, "/api/products/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"id": 1,
		"product_name": "Cargo Shorts",
		"price": 29.99,
		"stock": 10,
		"category_id": null,
		"category": null,
		"tags": []
	}`, w.Body.String())

	w = do(t, router, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]map[string]json.RawMessage](t, w)
	require.Len(t, list, 1)
	assert.JSONEq(t, `[]`, string(list[0]["tags"]))
	assert.JSONEq(t, `null`, string(list[0]["category"]))
}

func TestCreateProductValidation(t *testing.T) {
	router := SetupRouters(storetest.New(t), nil, nil)

	tests := []struct {
		name        string
		body        any
		wantMessage string
	}{
		{"missing name", gin.H{"price": 1}, "product_name is required"},
		{"missing price", gin.H{"product_name": "Hat"}, "price is required"},
		{"negative stock", gin.H{"product_name": "Hat", "price": 1, "stock": -1}, "stock must be at least 0"},
		{"negative price", gin.H{"product_name": "Hat", "price": -5}, "price must not be negative"},
		{"too many decimals", gin.H{"product_name": "Hat", "price": "1.999"}, "price must have at most 2 decimal places"},
		{"oversized price", gin.H{"product_name": "Hat", "price": "123456789012.345"}, "price must have at most 2 decimal places"},
		{"price too large", gin.H{"product_name": "Hat", "price": "100000000"}, "price must be less than 100000000"},
		{"unknown tag", gin.H{"product_name": "Hat", "price": 1, "tagIds": []uint{9}}, "tag 9 does not exist"},
		{"unknown category", gin.H{"product_name": "Hat", "price": 1, "category_id": 4}, "category 4 does not exist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, http.MethodPost, "/api/products", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

			body := decode[map[string]string](t, w)
			assert.Equal(t, "invalid", body["error"])
			assert.Equal(t, tt.wantMessage, body["message"])
		})
	}

	w := do(t, router, http.MethodGet, "/api/products", nil)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestUpdateProductReconcilesTags(t *testing.T) {
	router := SetupRouters(storetest.New(t), nil, nil)

	tagA := createTag(t, router, "a")
	tagB := createTag(t, router, "b")
	tagC := createTag(t, router, "c")

	w := do(t, router, http.MethodPost, "/api/products", gin.H{
		"product_name": "Lamp",
		"price":        30,
		"tagIds":       []uint{tagA.ID, tagB.ID},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	product := decode[models.Product](t, w)
	path := fmt.Sprintf("/api/products/%d", product.ID)

	w = do(t, router, http.MethodPut, path, gin.H{
		"product_name": "Desk Lamp",
		"tagIds":       []uint{tagB.ID, tagC.ID, tagC.ID},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	parts := decode[[]json.RawMessage](t, w)
	require.Len(t, parts, 2)
	var deleted int64
	require.NoError(t, json.Unmarshal(parts[0], &deleted))
	var inserted []models.ProductTag
	require.NoError(t, json.Unmarshal(parts[1], &inserted))
	assert.Equal(t, int64(1), deleted)
	require.Len(t, inserted, 1)
	assert.Equal(t, tagC.ID, inserted[0].TagID)
	assert.Equal(t, product.ID, inserted[0].ProductID)

	w = do(t, router, http.MethodGet, path, nil)
	fetched := decode[models.Product](t, w)
	assert.Equal(t, "Desk Lamp", fetched.ProductName)
	assert.ElementsMatch(t, []uint{tagB.ID, tagC.ID}, tagIDsOf(fetched))

	w = do(t, router, http.MethodPut, path, gin.H{"tagIds": []uint{tagB.ID, tagC.ID}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[0, []]`, w.Body.String())

	w = do(t, router, http.MethodPut, path, gin.H{"stock": 7})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[0, []]`, w.Body.String())
}

func TestUpdateProductErrors(t *testing.T) {
	router := SetupRouters(storetest.New(t), nil, nil)

	w := do(t, router, http.MethodPut, "/api/products/12", gin.H{"tagIds": []uint{}})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error": "not_found", "message": "product 12 not found"}`, w.Body.String())

	w = do(t, router, http.MethodPut, "/api/products/abc", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPut, "/api/products/1", gin.H{"product_name": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPost, "/api/products", gin.H{"product_name": "Hat", "price": 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = do(t, router, http.MethodPut, "/api/products/1", gin.H{"price": "99999999.999"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error": "invalid", "message": "price must have at most 2 decimal places"}`, w.Body.String())
	w = do(t, router, http.MethodPut, "/api/products/1", gin.H{"price": "99999999.99"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestUpdateProductCategory(t *testing.T) {
	router := SetupRouters(storetest.New(t), nil, nil)

	w := do(t, router, http.MethodPost, "/api/categories", gin.H{"category_name": "Hats"})
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, router, http.MethodPost, "/api/products", gin.H{"product_name": "Cap", "price": 5, "category_id": 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, router, http.MethodPut, "/api/products/1", gin.H{"stock": 3})
	require.Equal(t, http.StatusOK, w.Code)
	fetched := decode[models.Product](t, do(t, router, http.MethodGet, "/api/products/1", nil))
	require.NotNil(t, fetched.CategoryID, "an omitted category_id leaves the category alone")

	w = do(t, router, http.MethodPut, "/api/products/1", gin.H{"category_id": nil})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = do(t, router, http.MethodGet, "/api/products/1", nil)
	body := decode[map[string]json.RawMessage](t, w)
	assert.JSONEq(t, `null`, string(body["category_id"]))
	assert.JSONEq(t, `null`, string(body["category"]))

	w = do(t, router, http.MethodPut, "/api/products/1", gin.H{"category_id": 1})
	require.Equal(t, http.StatusOK, w.Code)
	fetched = decode[models.Product](t, do(t, router, http.MethodGet, "/api/products/1", nil))
	require.NotNil(t, fetched.Category)
	assert.Equal(t, "Hats", fetched.Category.CategoryName)

	w = do(t, router, http.MethodPut, "/api/products/1", gin.H{"category_id": "one"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAndDeleteMissingProduct(t *testing.T) {
	router := SetupRouters(storetest.New(t), nil, nil)

	w := do(t, router, http.MethodGet, "/api/products/99", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())

	w = do(t, router, http.MethodDelete, "/api/products/99", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Body.String())

	w = do(t, router, http.MethodGet, "/api/products/x1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteProduct(t *testing.T) {
	router := SetupRouters(storetest.New(t), nil, nil)
	tag := createTag(t, router, "red")

	w := do(t, router, http.MethodPost, "/api/products", gin.H{"product_name": "Hat", "price": 1, "tagIds": []uint{tag.ID}})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodDelete, "/api/products/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Body.String())

	w = do(t, router, http.MethodGet, fmt.Sprintf("/api/tags/%d", tag.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id": 1, "tag_name": "red", "products": []}`, w.Body.String())
}

func TestCategoryAndTagRoutes(t *testing.T) {
	router := SetupRouters(storetest.New(t), nil, nil)

	w := do(t, router, http.MethodPost, "/api/categories", gin.H{"category_name": "Music"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id": 1, "category_name": "Music"}`, w.Body.String())

	w = do(t, router, http.MethodPost, "/api/categories", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPost, "/api/products", gin.H{"product_name": "Vinyl", "price": 12.99, "stock": 50, "category_id": 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, router, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{
		"id": 1,
		"category_name": "Music",
		"products": [{"id": 1, "product_name": "Vinyl", "price": 12.99, "stock": 50, "category_id": 1}]
	}]`, w.Body.String())

	w = do(t, router, http.MethodPut, "/api/categories/1", gin.H{"category_name": "Records"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Body.String())

	w = do(t, router, http.MethodGet, "/api/categories/2", nil)
	assert.Equal(t, "null", w.Body.String())

	w = do(t, router, http.MethodDelete, "/api/categories/1", nil)
	assert.Equal(t, "1", w.Body.String())

	w = do(t, router, http.MethodGet, "/api/products/1", nil)
	fetched := decode[models.Product](t, w)
	assert.Nil(t, fetched.CategoryID)

	createTag(t, router, "pop music")
	w = do(t, router, http.MethodPut, "/api/tags/1", gin.H{"tag_name": "rock music"})
	assert.Equal(t, "1", w.Body.String())
	w = do(t, router, http.MethodGet, "/api/tags", nil)
	assert.JSONEq(t, `[{"id": 1, "tag_name": "rock music", "products": []}]`, w.Body.String())
	w = do(t, router, http.MethodDelete, "/api/tags/1", nil)
	assert.Equal(t, "1", w.Body.String())
	w = do(t, router, http.MethodDelete, "/api/tags/1", nil)
	assert.Equal(t, "0", w.Body.String())
}

func TestMiscRoutes(t *testing.T) {
	router := SetupRouters(storetest.New(t), nil, nil)

	w := do(t, router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())

	w = do(t, router, http.MethodGet, "/api/nothing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error": "not_found", "message": "wrong route"}`, w.Body.String())

	w = do(t, router, http.MethodOptions, "/api/products", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestProductCacheIsUsedAndInvalidated(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	router := SetupRouters(storetest.New(t), cache.NewProductCache(rdb, time.Minute), nil)

	w := do(t, router, http.MethodPost, "/api/products", gin.H{"product_name": "Hat", "price": 1})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, mr.Exists("products"))

	w = do(t, router, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, mr.Exists("products"), "list read fills the cache")
	members, err := mr.ZMembers("products")
	require.NoError(t, err)
	assert.Len(t, members, 1)

	w = do(t, router, http.MethodGet, "/api/products/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hat", decode[models.Product](t, w).ProductName)

	w = do(t, router, http.MethodPut, "/api/products/1", gin.H{"product_name": "Cap"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, mr.Exists("products"), "writes drop the cache")

	w = do(t, router, http.MethodGet, "/api/products/1", nil)
	assert.Equal(t, "Cap", decode[models.Product](t, w).ProductName)
}

func TestWriteRoutesRequireAdminToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	signer := jwt.NewSigner(key)
	router := SetupRouters(storetest.New(t), nil, jwt.NewVerifier(&key.PublicKey))

	exp := time.Now().Add(time.Hour).Unix()
	adminToken, err := signer.GenerateToken("alice", jwt.AdminRole, exp)
	require.NoError(t, err)
	staffToken, err := signer.GenerateToken("bob", "staff", exp)
	require.NoError(t, err)

	body := gin.H{"tag_name": "red"}

	w := do(t, router, http.MethodPost, "/api/tags", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, router, http.MethodPost, "/api/tags", body, "Authorization", "Bearer "+staffToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, router, http.MethodPost, "/api/tags", body, "Authorization", "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodDelete, "/api/tags/1", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, router, http.MethodGet, "/api/tags", nil)
	assert.Equal(t, http.StatusOK, w.Code, "reads stay public")
	assert.JSONEq(t, `[{"id": 1, "tag_name": "red", "products": []}]`, w.Body.String())
}
