package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"cart-store/controllers"
	"cart-store/middleware"
	"cart-store/models"
	"cart-store/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- Mock CartService ---

type mockCartService struct {
	addFn      func(ctx context.Context, userID string, req *models.AddItemRequest) (*models.CartLine, *services.ServiceError)
	getFn      func(ctx context.Context, userID string) ([]models.CartLine, *services.ServiceError)
	updateFn   func(ctx context.Context, userID, productID string, patch *models.CartPatch) (*models.CartLine, *services.ServiceError)
	setQtyFn   func(ctx context.Context, userID, productID string, quantity int) (*models.CartLine, *services.ServiceError)
	removeFn   func(ctx context.Context, userID, productID string) *services.ServiceError
	removeAllF func(ctx context.Context, userID string, productIDs []string) (int64, *services.ServiceError)
	clearFn    func(ctx context.Context, userID string) (int64, *services.ServiceError)
}

func (m *mockCartService) AddItem(ctx context.Context, userID string, req *models.AddItemRequest) (*models.CartLine, *services.ServiceError) {
	return m.addFn(ctx, userID, req)
}
func (m *mockCartService) GetCart(ctx context.Context, userID string) ([]models.CartLine, *services.ServiceError) {
	return m.getFn(ctx, userID)
}
func (m *mockCartService) UpdateItem(ctx context.Context, userID, productID string, patch *models.CartPatch) (*models.CartLine, *services.ServiceError) {
	return m.updateFn(ctx, userID, productID, patch)
}
func (m *mockCartService) SetQuantity(ctx context.Context, userID, productID string, quantity int) (*models.CartLine, *services.ServiceError) {
	return m.setQtyFn(ctx, userID, productID, quantity)
}
func (m *mockCartService) RemoveItem(ctx context.Context, userID, productID string) *services.ServiceError {
	return m.removeFn(ctx, userID, productID)
}
func (m *mockCartService) RemoveItems(ctx context.Context, userID string, productIDs []string) (int64, *services.ServiceError) {
	return m.removeAllF(ctx, userID, productIDs)
}
func (m *mockCartService) ClearCart(ctx context.Context, userID string) (int64, *services.ServiceError) {
	return m.clearFn(ctx, userID)
}

// --- Helpers ---

func setupRouter(svc services.CartService) *gin.Engine {
	r := gin.New()
	cc := controllers.NewCartController(svc)

	cart := r.Group("/cart")
	cart.Use(middleware.AuthMiddleware())
	cart.GET("", cc.GetCart)
	cart.POST("/items", cc.AddItem)
	cart.PATCH("/items/:product_id", cc.UpdateItem)
	cart.PUT("/items/:product_id/quantity", cc.SetQuantity)
	cart.DELETE("/items/:product_id", cc.RemoveItem)
	cart.POST("/items/remove", cc.RemoveItems)
	cart.DELETE("", cc.ClearCart)
	return r
}

func doJSON(r *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewBuffer(b)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req, _ := http.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "u1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// --- Tests ---

func TestController_GetCart_Success(t *testing.T) {
	svc := &mockCartService{
		getFn: func(_ context.Context, userID string) ([]models.CartLine, *services.ServiceError) {
			return []models.CartLine{{ID: 1, UserID: userID, ProductID: "shoe42", Quantity: 3}}, nil
		},
	}
	r := setupRouter(svc)

	w := doJSON(r, http.MethodGet, "/cart", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "u1", resp["user_id"])
	assert.NotNil(t, resp["items"])
}

func TestController_GetCart_Unauthorized(t *testing.T) {
	svc := &mockCartService{}
	r := setupRouter(svc)

	req, _ := http.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestController_AddItem_Success(t *testing.T) {
	svc := &mockCartService{
		addFn: func(_ context.Context, userID string, req *models.AddItemRequest) (*models.CartLine, *services.ServiceError) {
			return &models.CartLine{
				ID:        1,
				UserID:    userID,
				ProductID: req.ProductID,
				Quantity:  req.Quantity,
				Size:      req.Size,
				Color:     req.Color,
			}, nil
		},
	}
	r := setupRouter(svc)

	w := doJSON(r, http.MethodPost, "/cart/items", models.AddItemRequest{
		ProductID: "shoe42",
		Quantity:  2,
		Size:      "9",
		Color:     "Black",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NotNil(t, resp["item"])
}

func TestController_AddItem_MissingProductID(t *testing.T) {
	svc := &mockCartService{}
	r := setupRouter(svc)

	w := doJSON(r, http.MethodPost, "/cart/items", map[string]interface{}{"quantity": 1})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestController_UpdateItem_PatchPassedThrough(t *testing.T) {
	var gotPatch *models.CartPatch
	svc := &mockCartService{
		updateFn: func(_ context.Context, _, productID string, patch *models.CartPatch) (*models.CartLine, *services.ServiceError) {
			gotPatch = patch
			return &models.CartLine{ID: 1, ProductID: productID, Quantity: 3, Color: *patch.Color}, nil
		},
	}
	r := setupRouter(svc)

	w := doJSON(r, http.MethodPatch, "/cart/items/shoe42", map[string]interface{}{"color": "White"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, gotPatch.Color)
	assert.Equal(t, "White", *gotPatch.Color)
	assert.Nil(t, gotPatch.Size, "untouched fields must stay nil")
	assert.Nil(t, gotPatch.Quantity, "untouched fields must stay nil")
}

func TestController_UpdateItem_NotFound(t *testing.T) {
	svc := &mockCartService{
		updateFn: func(_ context.Context, _, _ string, _ *models.CartPatch) (*models.CartLine, *services.ServiceError) {
			return nil, &services.ServiceError{StatusCode: 404, Message: "cart line not found"}
		},
	}
	r := setupRouter(svc)

	w := doJSON(r, http.MethodPatch, "/cart/items/ghost", map[string]interface{}{"color": "White"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestController_SetQuantity_Success(t *testing.T) {
	svc := &mockCartService{
		setQtyFn: func(_ context.Context, _, productID string, quantity int) (*models.CartLine, *services.ServiceError) {
			return &models.CartLine{ID: 1, ProductID: productID, Quantity: quantity}, nil
		},
	}
	r := setupRouter(svc)

	w := doJSON(r, http.MethodPut, "/cart/items/shoe42/quantity", models.SetQuantityRequest{Quantity: 7})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestController_SetQuantity_RejectsZero(t *testing.T) {
	svc := &mockCartService{}
	r := setupRouter(svc)

	w := doJSON(r, http.MethodPut, "/cart/items/shoe42/quantity", map[string]interface{}{"quantity": 0})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestController_RemoveItem_Success(t *testing.T) {
	svc := &mockCartService{
		removeFn: func(_ context.Context, _, _ string) *services.ServiceError {
			return nil
		},
	}
	r := setupRouter(svc)

	w := doJSON(r, http.MethodDelete, "/cart/items/shoe42", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestController_RemoveItems_Bulk(t *testing.T) {
	svc := &mockCartService{
		removeAllF: func(_ context.Context, _ string, productIDs []string) (int64, *services.ServiceError) {
			return int64(len(productIDs)), nil
		},
	}
	r := setupRouter(svc)

	w := doJSON(r, http.MethodPost, "/cart/items/remove", models.RemoveManyRequest{ProductIDs: []string{"a", "b"}})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, float64(2), resp["removed"])
}

func TestController_ClearCart_Success(t *testing.T) {
	svc := &mockCartService{
		clearFn: func(_ context.Context, _ string) (int64, *services.ServiceError) {
			return 2, nil
		},
	}
	r := setupRouter(svc)

	w := doJSON(r, http.MethodDelete, "/cart", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}
