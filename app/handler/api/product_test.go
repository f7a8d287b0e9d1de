package handler

import (
	"context"
	"encoding/json"
	"inventory-service/app/domain"
	"inventory-service/app/middleware"
	"inventory-service/config"
	"inventory-service/pkg"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fakeProductService struct {
	companyID int64
	created   *domain.ProductCreateRequest
	updated   *domain.ProductUpdateRequest
	deleted   int64
	err       error
}

func (f *fakeProductService) Create(ctx context.Context, companyID int64, req domain.ProductCreateRequest) (domain.Product, error) {
	f.companyID = companyID
	f.created = &req
	if f.err != nil {
		return domain.Product{}, f.err
	}
	return domain.Product{ID: 1, CompanyID: companyID, Name: req.Name, Price: *req.Price, Qty: *req.Qty, QtyMin: *req.QtyMin}, nil
}

func (f *fakeProductService) GetByID(ctx context.Context, companyID, id int64) (domain.ProductDetail, error) {
	f.companyID = companyID
	if f.err != nil {
		return domain.ProductDetail{}, f.err
	}
	return domain.ProductDetail{Cache: true, Data: domain.Product{ID: id, CompanyID: companyID, Name: "Widget"}}, nil
}

func (f *fakeProductService) GetList(ctx context.Context, companyID int64) (domain.ProductList, error) {
	f.companyID = companyID
	return domain.ProductList{Data: []domain.Product{{ID: 1, CompanyID: companyID, Name: "Widget"}}}, f.err
}

func (f *fakeProductService) Update(ctx context.Context, companyID, id int64, req domain.ProductUpdateRequest) (domain.Product, error) {
	f.companyID = companyID
	f.updated = &req
	if f.err != nil {
		return domain.Product{}, f.err
	}
	return domain.Product{ID: id, CompanyID: companyID, Qty: *req.Qty, QtyMin: *req.QtyMin}, nil
}

func (f *fakeProductService) Delete(ctx context.Context, companyID, id int64) error {
	f.companyID = companyID
	f.deleted = id
	return f.err
}

func newTestApp(svc domain.ProductService) *fiber.App {
	app := fiber.New()
	app.Use(middleware.RequestIDMiddleware())
	cfg := &config.Config{Jwt: config.JwtConfig{SecretKey: testSecret, Expire: 60}}
	SetupRouter(app, NewProductHandler(svc, validator.New()), cfg)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string, companyID int64) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if companyID != 0 {
		token, err := pkg.GenerateJwtToken(1, companyID, testSecret, 60)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func TestPing(t *testing.T) {
	resp, body := do(t, newTestApp(&fakeProductService{}), http.MethodGet, "/inventory-service/ping", "", 0)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", body["message"])
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
}

func TestProducts_RequireAuth(t *testing.T) {
	resp, body := do(t, newTestApp(&fakeProductService{}), http.MethodGet, "/inventory-service/products", "", 0)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestProducts_Create(t *testing.T) {
	svc := &fakeProductService{}
	app := newTestApp(svc)

	resp, body := do(t, app, http.MethodPost, "/inventory-service/products",
		`{"name":"Widget","price":9.5,"qty":2,"qty_min":5}`, 7)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, int64(7), svc.companyID)
	require.NotNil(t, svc.created)
	assert.Equal(t, "9.5", svc.created.Price.String())

	data := body["data"].(map[string]any)
	assert.Equal(t, "Widget", data["name"])
}

func TestProducts_CreateValidation(t *testing.T) {
	svc := &fakeProductService{}
	app := newTestApp(svc)

	resp, _ := do(t, app, http.MethodPost, "/inventory-service/products", `{"name":"Widget","price":1}`, 7)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Nil(t, svc.created)

	resp, _ = do(t, app, http.MethodPost, "/inventory-service/products", `{not json`, 7)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProducts_GetByID(t *testing.T) {
	svc := &fakeProductService{}
	resp, body := do(t, newTestApp(svc), http.MethodGet, "/inventory-service/products/3", "", 7)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["cache"])
	assert.Equal(t, int64(7), svc.companyID)

	resp, _ = do(t, newTestApp(svc), http.MethodGet, "/inventory-service/products/abc", "", 7)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProducts_GetByIDNotFound(t *testing.T) {
	resp, _ := do(t, newTestApp(&fakeProductService{err: domain.ErrNotFound}), http.MethodGet, "/inventory-service/products/3", "", 7)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProducts_GetList(t *testing.T) {
	resp, body := do(t, newTestApp(&fakeProductService{}), http.MethodGet, "/inventory-service/products", "", 7)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["cache"])
	assert.Len(t, body["data"], 1)
}

func TestProducts_Update(t *testing.T) {
	svc := &fakeProductService{}
	app := newTestApp(svc)

	resp, _ := do(t, app, http.MethodPut, "/inventory-service/products/3", `{"qty":1,"qty_min":5}`, 7)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, svc.updated)
	assert.Nil(t, svc.updated.Name)

	resp, _ = do(t, app, http.MethodPut, "/inventory-service/products/3", `{"name":"Widget"}`, 7)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestProducts_Delete(t *testing.T) {
	svc := &fakeProductService{}
	resp, _ := do(t, newTestApp(svc), http.MethodDelete, "/inventory-service/products/3", "", 7)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, int64(3), svc.deleted)
}

func TestProducts_InternalErrorIsMasked(t *testing.T) {
	resp, body := do(t, newTestApp(&fakeProductService{err: assert.AnError}), http.MethodDelete, "/inventory-service/products/3", "", 7)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, domain.ErrInternal.Error(), body["error"])
}
