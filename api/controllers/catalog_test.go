package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mvasquezdev/dealerhub-backend/api/middleware"
	catalogsvc "github.com/mvasquezdev/dealerhub-backend/internal/catalog"
	"github.com/mvasquezdev/dealerhub-backend/pkg/db/models"
	pkgerrors "github.com/mvasquezdev/dealerhub-backend/pkg/errors"
)

type stubCatalogService struct {
	list      *catalogsvc.ProductList
	product   *catalogsvc.ProductResponse
	err       error
	lastList  catalogsvc.ListInput
	lastGet   catalogsvc.GetInput
}

func (s *stubCatalogService) List(_ context.Context, input catalogsvc.ListInput) (*catalogsvc.ProductList, error) {
	s.lastList = input
	if s.err != nil {
		return nil, s.err
	}
	return s.list, nil
}

func (s *stubCatalogService) Get(_ context.Context, input catalogsvc.GetInput) (*catalogsvc.ProductResponse, error) {
	s.lastGet = input
	if s.err != nil {
		return nil, s.err
	}
	return s.product, nil
}

func (s *stubCatalogService) SyncProducts(context.Context, []models.Product) error {
	return s.err
}

func (s *stubCatalogService) SyncCollections(context.Context, []models.Collection) error {
	return s.err
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx, ok := req.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || routeCtx == nil {
		routeCtx = chi.NewRouteContext()
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	}
	routeCtx.URLParams.Add(key, value)
	return req
}

func TestCatalogListPassesFiltersAndDealer(t *testing.T) {
	dealerID := uuid.New()
	svc := &stubCatalogService{list: &catalogsvc.ProductList{Products: []catalogsvc.ProductResponse{{ID: "p-1"}}}}
	handler := CatalogList(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog?limit=10&vendor=Acme&q=helmet&quantity=12&collection_id=c-1", nil)
	req = req.WithContext(middleware.WithDealerID(req.Context(), dealerID.String()))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.lastList.DealerID == nil || *svc.lastList.DealerID != dealerID {
		t.Fatalf("dealer id not forwarded: %v", svc.lastList.DealerID)
	}
	if svc.lastList.Vendor != "Acme" || svc.lastList.Query != "helmet" || svc.lastList.CollectionID != "c-1" {
		t.Fatalf("filters not forwarded: %+v", svc.lastList)
	}
	if svc.lastList.Quantity != 12 {
		t.Fatalf("expected quantity 12, got %d", svc.lastList.Quantity)
	}
	if svc.lastList.Pagination.Limit != 10 {
		t.Fatalf("expected limit 10, got %d", svc.lastList.Pagination.Limit)
	}

	var envelope struct {
		Data catalogsvc.ProductList `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Products) != 1 || envelope.Data.Products[0].ID != "p-1" {
		t.Fatalf("unexpected payload: %+v", envelope.Data)
	}
}

func TestCatalogListAdminHasNoDealerContext(t *testing.T) {
	svc := &stubCatalogService{list: &catalogsvc.ProductList{}}
	handler := CatalogList(svc, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.lastList.DealerID != nil {
		t.Fatalf("expected nil dealer id, got %v", svc.lastList.DealerID)
	}
	if svc.lastList.Quantity != 1 {
		t.Fatalf("expected default quantity 1, got %d", svc.lastList.Quantity)
	}
}

func TestCatalogListRejectsBadLimit(t *testing.T) {
	handler := CatalogList(&stubCatalogService{}, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog?limit=9999", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestCatalogGetNotFound(t *testing.T) {
	svc := &stubCatalogService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	handler := CatalogGet(svc, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/catalog/p-404", nil), "productId", "p-404")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestCatalogGetForwardsQuantity(t *testing.T) {
	svc := &stubCatalogService{product: &catalogsvc.ProductResponse{ID: "p-1"}}
	handler := CatalogGet(svc, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/catalog/p-1?quantity=25", nil), "productId", "p-1")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.lastGet.ProductID != "p-1" || svc.lastGet.Quantity != 25 {
		t.Fatalf("input not forwarded: %+v", svc.lastGet)
	}
}
