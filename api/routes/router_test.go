package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	authsvc "github.com/mvasquezdev/dealerhub-backend/internal/auth"
	catalogsvc "github.com/mvasquezdev/dealerhub-backend/internal/catalog"
	dealersvc "github.com/mvasquezdev/dealerhub-backend/internal/dealers"
	discountsvc "github.com/mvasquezdev/dealerhub-backend/internal/discounts"
	ordersvc "github.com/mvasquezdev/dealerhub-backend/internal/orders"
	"github.com/mvasquezdev/dealerhub-backend/internal/pricing"
	settingssvc "github.com/mvasquezdev/dealerhub-backend/internal/settings"
	pkgAuth "github.com/mvasquezdev/dealerhub-backend/pkg/auth"
	"github.com/mvasquezdev/dealerhub-backend/pkg/config"
	"github.com/mvasquezdev/dealerhub-backend/pkg/db/models"
	"github.com/mvasquezdev/dealerhub-backend/pkg/enums"
	"github.com/mvasquezdev/dealerhub-backend/pkg/logger"
	"github.com/mvasquezdev/dealerhub-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionManager struct{}

func (stubSessionManager) HasSession(context.Context, string) (bool, error) {
	return true, nil
}

func (stubSessionManager) Rotate(context.Context, string, string) (string, string, error) {
	return "", "", nil
}

func (stubSessionManager) Revoke(context.Context, string) error {
	return nil
}

type stubAuthService struct{}

func (stubAuthService) Login(context.Context, authsvc.LoginRequest) (*authsvc.LoginResponse, error) {
	return &authsvc.LoginResponse{}, nil
}

func (stubAuthService) RegisterUser(context.Context, authsvc.RegisterUserRequest) (*authsvc.RegisterUserResponse, error) {
	return &authsvc.RegisterUserResponse{}, nil
}

type stubCatalogService struct{}

func (stubCatalogService) List(context.Context, catalogsvc.ListInput) (*catalogsvc.ProductList, error) {
	return &catalogsvc.ProductList{}, nil
}

func (stubCatalogService) Get(context.Context, catalogsvc.GetInput) (*catalogsvc.ProductResponse, error) {
	return &catalogsvc.ProductResponse{}, nil
}

func (stubCatalogService) SyncProducts(context.Context, []models.Product) error {
	return nil
}

func (stubCatalogService) SyncCollections(context.Context, []models.Collection) error {
	return nil
}

type stubOrderService struct{}

func (stubOrderService) Create(context.Context, ordersvc.Actor, ordersvc.CreateInput) (*ordersvc.OrderResponse, error) {
	return &ordersvc.OrderResponse{}, nil
}

func (stubOrderService) Get(context.Context, ordersvc.Actor, uuid.UUID) (*ordersvc.OrderResponse, error) {
	return &ordersvc.OrderResponse{}, nil
}

func (stubOrderService) List(context.Context, ordersvc.Actor, pagination.Params) (*ordersvc.OrderList, error) {
	return &ordersvc.OrderList{}, nil
}

func (stubOrderService) UpdateStatus(context.Context, uuid.UUID, enums.OrderStatus) (*ordersvc.OrderResponse, error) {
	return &ordersvc.OrderResponse{}, nil
}

type stubDealerService struct{}

func (stubDealerService) Create(context.Context, dealersvc.CreateInput) (*dealersvc.DealerResponse, error) {
	return &dealersvc.DealerResponse{}, nil
}

func (stubDealerService) Get(context.Context, uuid.UUID) (*dealersvc.DealerResponse, error) {
	return &dealersvc.DealerResponse{}, nil
}

func (stubDealerService) List(context.Context, pagination.Params) (*dealersvc.DealerList, error) {
	return &dealersvc.DealerList{}, nil
}

func (stubDealerService) Update(context.Context, uuid.UUID, dealersvc.UpdateInput) (*dealersvc.DealerResponse, error) {
	return &dealersvc.DealerResponse{}, nil
}

func (stubDealerService) PricingContext(context.Context, uuid.UUID) (*pricing.DealerContext, *models.Dealer, error) {
	return nil, nil, nil
}

type stubDiscountService struct{}

func (stubDiscountService) UpsertProductDiscount(context.Context, string, float64) (*discountsvc.RuleResponse, error) {
	return &discountsvc.RuleResponse{}, nil
}

func (stubDiscountService) ListProductDiscounts(context.Context) ([]discountsvc.RuleResponse, error) {
	return nil, nil
}

func (stubDiscountService) DeleteProductDiscount(context.Context, string) error {
	return nil
}

func (stubDiscountService) UpsertCategoryDiscount(context.Context, string, float64) (*discountsvc.RuleResponse, error) {
	return &discountsvc.RuleResponse{}, nil
}

func (stubDiscountService) ListCategoryDiscounts(context.Context) ([]discountsvc.RuleResponse, error) {
	return nil, nil
}

func (stubDiscountService) DeleteCategoryDiscount(context.Context, string) error {
	return nil
}

func (stubDiscountService) UpsertDealerProductDiscount(context.Context, uuid.UUID, string, float64) (*discountsvc.RuleResponse, error) {
	return &discountsvc.RuleResponse{}, nil
}

func (stubDiscountService) ListDealerDiscounts(context.Context, uuid.UUID) (*discountsvc.DealerRuleList, error) {
	return &discountsvc.DealerRuleList{}, nil
}

func (stubDiscountService) DeleteDealerProductDiscount(context.Context, uuid.UUID, string) error {
	return nil
}

func (stubDiscountService) UpsertDealerCategoryDiscount(context.Context, uuid.UUID, string, float64) (*discountsvc.RuleResponse, error) {
	return &discountsvc.RuleResponse{}, nil
}

func (stubDiscountService) DeleteDealerCategoryDiscount(context.Context, uuid.UUID, string) error {
	return nil
}

func (stubDiscountService) UpsertTier(context.Context, discountsvc.TierInput) (*discountsvc.TierResponse, error) {
	return &discountsvc.TierResponse{}, nil
}

func (stubDiscountService) ListTiers(context.Context, enums.DiscountScope, string) ([]discountsvc.TierResponse, error) {
	return nil, nil
}

func (stubDiscountService) DeleteTier(context.Context, enums.DiscountScope, string, int) error {
	return nil
}

type stubSettingsService struct{}

func (stubSettingsService) Get(context.Context) (*settingssvc.SettingsResponse, error) {
	return &settingssvc.SettingsResponse{}, nil
}

func (stubSettingsService) Update(context.Context, settingssvc.UpdateInput) (*settingssvc.SettingsResponse, error) {
	return &settingssvc.SettingsResponse{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "router-test-secret",
			Issuer:                 "dealerhub-test",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:          cfg,
		Logger:          logg,
		DB:              stubPinger{},
		SessionManager:  stubSessionManager{},
		AuthService:     stubAuthService{},
		CatalogService:  stubCatalogService{},
		OrderService:    stubOrderService{},
		DealerService:   stubDealerService{},
		DiscountService: stubDiscountService{},
		SettingsService: stubSettingsService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	payload := pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    uuid.NewString(),
	}
	if role == enums.UserRoleDealer {
		dealerID := uuid.New()
		payload.DealerID = &dealerID
	}
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now().UTC(), payload)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestCatalogRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestCatalogAcceptsDealerJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleDealer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with dealer token got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	asDealer := httptest.NewRequest(http.MethodGet, "/api/admin/v1/settings", nil)
	asDealer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleDealer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, asDealer)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for dealer got %d", resp.Code)
	}

	asAdmin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/settings", nil)
	asAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, asAdmin)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestOrderListRequiresJWT(t *testing.T) {
	router := newTestRouter(testConfig())

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}
