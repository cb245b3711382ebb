package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mvasquezdev/dealerhub-backend/internal/catalog"
	"github.com/mvasquezdev/dealerhub-backend/internal/dealers"
	"github.com/mvasquezdev/dealerhub-backend/internal/pricing"
	"github.com/mvasquezdev/dealerhub-backend/internal/settings"
	"github.com/mvasquezdev/dealerhub-backend/pkg/db/models"
	"github.com/mvasquezdev/dealerhub-backend/pkg/enums"
	pkgerrors "github.com/mvasquezdev/dealerhub-backend/pkg/errors"
	"github.com/mvasquezdev/dealerhub-backend/pkg/pagination"
)

type fakeDealerService struct {
	byID map[uuid.UUID]*models.Dealer
}

func (f *fakeDealerService) Create(context.Context, dealers.CreateInput) (*dealers.DealerResponse, error) {
	return nil, nil
}

func (f *fakeDealerService) Get(context.Context, uuid.UUID) (*dealers.DealerResponse, error) {
	return nil, nil
}

func (f *fakeDealerService) List(context.Context, pagination.Params) (*dealers.DealerList, error) {
	return nil, nil
}

func (f *fakeDealerService) Update(context.Context, uuid.UUID, dealers.UpdateInput) (*dealers.DealerResponse, error) {
	return nil, nil
}

func (f *fakeDealerService) PricingContext(_ context.Context, dealerID uuid.UUID) (*pricing.DealerContext, *models.Dealer, error) {
	dealer, ok := f.byID[dealerID]
	if !ok {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "dealer not found")
	}
	if !dealer.IsActive {
		return nil, dealer, nil
	}
	return &pricing.DealerContext{
		DealerID:       dealer.ID,
		BlanketPercent: dealer.DiscountPercent,
	}, dealer, nil
}

type testEnv struct {
	db      *gorm.DB
	svc     Service
	dealers *fakeDealerService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.Product{},
		&models.ProductVariant{},
		&models.Collection{},
		&models.ProductDiscount{},
		&models.CategoryDiscount{},
		&models.DealerProductDiscount{},
		&models.DealerCategoryDiscount{},
		&models.DiscountTier{},
		&models.Settings{},
		&models.Order{},
		&models.OrderLineItem{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	resolver, err := pricing.NewResolver(pricing.NewRepository(db), nil)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	settingsSvc, err := settings.NewService(settings.NewRepository(db))
	if err != nil {
		t.Fatalf("settings.NewService: %v", err)
	}
	fake := &fakeDealerService{byID: map[uuid.UUID]*models.Dealer{}}
	svc, err := NewService(NewRepository(db), catalog.NewRepository(db), fake, settingsSvc, resolver)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &testEnv{db: db, svc: svc, dealers: fake}
}

func (env *testEnv) seedVariant(t *testing.T, productID, variantID, retail string, inventory int) {
	t.Helper()
	var existing models.Product
	err := env.db.First(&existing, "id = ?", productID).Error
	if err == gorm.ErrRecordNotFound {
		product := models.Product{ID: productID, Title: "Product " + productID, IsActive: true}
		if err := env.db.Create(&product).Error; err != nil {
			t.Fatalf("seed product %s: %v", productID, err)
		}
	} else if err != nil {
		t.Fatalf("lookup product %s: %v", productID, err)
	}
	variant := models.ProductVariant{
		ID:           variantID,
		ProductID:    productID,
		Title:        "Default",
		RetailPrice:  decimal.RequireFromString(retail),
		InventoryQty: inventory,
	}
	if err := env.db.Create(&variant).Error; err != nil {
		t.Fatalf("seed variant %s: %v", variantID, err)
	}
}

func (env *testEnv) seedSettings(t *testing.T, percent float64, dueDays int) {
	t.Helper()
	row := models.Settings{ID: models.SettingsRowID, DiscountPercent: percent, DefaultDueDays: dueDays}
	if err := env.db.Create(&row).Error; err != nil {
		t.Fatalf("seed settings: %v", err)
	}
}

func (env *testEnv) addDealer(dealer *models.Dealer) *uuid.UUID {
	env.dealers.byID[dealer.ID] = dealer
	return &dealer.ID
}

func dealerActor(dealerID *uuid.UUID) Actor {
	return Actor{UserID: uuid.New(), Role: enums.UserRoleDealer, DealerID: dealerID}
}

func adminActor() Actor {
	return Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func decimalPtr(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}

func TestCreateRepricesLinesServerSide(t *testing.T) {
	env := newTestEnv(t)
	env.seedSettings(t, 20, 30)
	env.seedVariant(t, "p1", "p1-v1", "100.00", 50)
	env.seedVariant(t, "p2", "p2-v1", "50.00", 50)
	dealerID := env.addDealer(&models.Dealer{
		ID:              uuid.New(),
		CompanyName:     "North Rides",
		DiscountPercent: floatPtr(15),
		DueDays:         intPtr(45),
		IsActive:        true,
	})

	got, err := env.svc.Create(context.Background(), dealerActor(dealerID), CreateInput{
		Lines: []LineInput{
			{ProductID: "p1", VariantID: "p1-v1", Quantity: 2},
			{ProductID: "p2", VariantID: "p2-v1", Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if got.Status != enums.OrderStatusPending {
		t.Fatalf("status = %s, want pending", got.Status)
	}
	if len(got.LineItems) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(got.LineItems))
	}
	first := got.LineItems[0]
	if !first.WholesalePrice.Equal(decimal.RequireFromString("85.00")) ||
		!first.LineTotal.Equal(decimal.RequireFromString("170.00")) ||
		first.DiscountSource != enums.DiscountSourceDealer {
		t.Fatalf("unexpected first line: %+v", first)
	}
	if want := decimal.RequireFromString("212.50"); !got.TotalAmount.Equal(want) {
		t.Fatalf("total = %s, want %s", got.TotalAmount, want)
	}
	if got.DiscountPercent != 15 {
		t.Fatalf("order percent = %v, want 15", got.DiscountPercent)
	}
	if got.DueDate == nil {
		t.Fatal("expected due date from dealer due days")
	}
	days := time.Until(*got.DueDate).Hours() / 24
	if days < 44 || days > 46 {
		t.Fatalf("due date %v not ~45 days out", got.DueDate)
	}
}

func TestCreateAppliesTierAtLineQuantity(t *testing.T) {
	env := newTestEnv(t)
	env.seedSettings(t, 10, 30)
	env.seedVariant(t, "p1", "p1-v1", "100.00", 500)
	dealerID := env.addDealer(&models.Dealer{
		ID:          uuid.New(),
		CompanyName: "North Rides",
		IsActive:    true,
	})
	tier := models.DiscountTier{
		ID:          uuid.New(),
		Scope:       enums.DiscountScopeGlobal,
		ReferenceID: enums.GlobalTierReferenceID,
		MinQuantity: 10,
		Percent:     25,
	}
	if err := env.db.Create(&tier).Error; err != nil {
		t.Fatalf("seed tier: %v", err)
	}

	got, err := env.svc.Create(context.Background(), dealerActor(dealerID), CreateInput{
		Lines: []LineInput{{ProductID: "p1", VariantID: "p1-v1", Quantity: 10}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	line := got.LineItems[0]
	if line.DiscountPercent != 25 || !line.WholesalePrice.Equal(decimal.RequireFromString("75.00")) {
		t.Fatalf("unexpected tier pricing: %+v", line)
	}
}

func TestCreateAdminCustomPriceBypassesResolutionAndStock(t *testing.T) {
	env := newTestEnv(t)
	env.seedSettings(t, 20, 30)
	env.seedVariant(t, "p1", "p1-v1", "100.00", 1)
	dealerID := env.addDealer(&models.Dealer{
		ID:          uuid.New(),
		CompanyName: "North Rides",
		IsActive:    true,
	})

	got, err := env.svc.Create(context.Background(), adminActor(), CreateInput{
		DealerID: dealerID,
		Lines: []LineInput{{
			ProductID:   "p1",
			VariantID:   "p1-v1",
			Quantity:    10,
			CustomPrice: decimalPtr("70.00"),
		}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	line := got.LineItems[0]
	if line.DiscountSource != enums.DiscountSourceCustom {
		t.Fatalf("source = %s, want custom", line.DiscountSource)
	}
	if line.DiscountPercent != 30 {
		t.Fatalf("back-computed percent = %v, want 30", line.DiscountPercent)
	}
	if want := decimal.RequireFromString("700.00"); !line.LineTotal.Equal(want) {
		t.Fatalf("line total = %s, want %s", line.LineTotal, want)
	}
}

func TestCreateRejectsInsufficientStockForDealers(t *testing.T) {
	env := newTestEnv(t)
	env.seedSettings(t, 20, 30)
	env.seedVariant(t, "p1", "p1-v1", "100.00", 3)
	dealerID := env.addDealer(&models.Dealer{
		ID:          uuid.New(),
		CompanyName: "North Rides",
		IsActive:    true,
	})

	_, err := env.svc.Create(context.Background(), dealerActor(dealerID), CreateInput{
		Lines: []LineInput{{ProductID: "p1", VariantID: "p1-v1", Quantity: 5}},
	})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestCreateRejectsDealerCustomPrice(t *testing.T) {
	env := newTestEnv(t)
	env.seedSettings(t, 20, 30)
	env.seedVariant(t, "p1", "p1-v1", "100.00", 10)
	dealerID := env.addDealer(&models.Dealer{
		ID:          uuid.New(),
		CompanyName: "North Rides",
		IsActive:    true,
	})

	_, err := env.svc.Create(context.Background(), dealerActor(dealerID), CreateInput{
		Lines: []LineInput{{
			ProductID:   "p1",
			VariantID:   "p1-v1",
			Quantity:    1,
			CustomPrice: decimalPtr("1.00"),
		}},
	})
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestCreateUnknownVariantIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.seedSettings(t, 20, 30)
	env.seedVariant(t, "p1", "p1-v1", "100.00", 10)
	dealerID := env.addDealer(&models.Dealer{
		ID:          uuid.New(),
		CompanyName: "North Rides",
		IsActive:    true,
	})

	_, err := env.svc.Create(context.Background(), dealerActor(dealerID), CreateInput{
		Lines: []LineInput{{ProductID: "p1", VariantID: "missing", Quantity: 1}},
	})
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateOrderPercentIsUnweightedMean(t *testing.T) {
	env := newTestEnv(t)
	env.seedSettings(t, 20, 30)
	env.seedVariant(t, "p1", "p1-v1", "100.00", 500)
	env.seedVariant(t, "p2", "p2-v1", "100.00", 500)
	dealerID := env.addDealer(&models.Dealer{
		ID:          uuid.New(),
		CompanyName: "North Rides",
		IsActive:    true,
	})
	rules := []models.ProductDiscount{
		{ID: uuid.New(), ProductID: "p1", Percent: 10},
		{ID: uuid.New(), ProductID: "p2", Percent: 30},
	}
	if err := env.db.Create(&rules).Error; err != nil {
		t.Fatalf("seed rules: %v", err)
	}

	got, err := env.svc.Create(context.Background(), dealerActor(dealerID), CreateInput{
		Lines: []LineInput{
			{ProductID: "p1", VariantID: "p1-v1", Quantity: 100},
			{ProductID: "p2", VariantID: "p2-v1", Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.DiscountPercent != 20 {
		t.Fatalf("order percent = %v, want unweighted mean 20", got.DiscountPercent)
	}
}

func TestCreateRejectsInactiveDealer(t *testing.T) {
	env := newTestEnv(t)
	env.seedSettings(t, 20, 30)
	env.seedVariant(t, "p1", "p1-v1", "100.00", 10)
	dealerID := env.addDealer(&models.Dealer{
		ID:          uuid.New(),
		CompanyName: "North Rides",
		IsActive:    false,
	})

	_, err := env.svc.Create(context.Background(), dealerActor(dealerID), CreateInput{
		Lines: []LineInput{{ProductID: "p1", VariantID: "p1-v1", Quantity: 1}},
	})
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict for inactive dealer, got %v", err)
	}
}

func TestGetHidesCrossDealerOrders(t *testing.T) {
	env := newTestEnv(t)
	env.seedSettings(t, 20, 30)
	env.seedVariant(t, "p1", "p1-v1", "100.00", 10)
	ownerID := env.addDealer(&models.Dealer{
		ID:          uuid.New(),
		CompanyName: "North Rides",
		IsActive:    true,
	})
	otherID := env.addDealer(&models.Dealer{
		ID:          uuid.New(),
		CompanyName: "South Rides",
		IsActive:    true,
	})

	created, err := env.svc.Create(context.Background(), dealerActor(ownerID), CreateInput{
		Lines: []LineInput{{ProductID: "p1", VariantID: "p1-v1", Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = env.svc.Get(context.Background(), dealerActor(otherID), created.ID)
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for cross-dealer read, got %v", err)
	}

	if _, err := env.svc.Get(context.Background(), dealerActor(ownerID), created.ID); err != nil {
		t.Fatalf("owner read: %v", err)
	}
	if _, err := env.svc.Get(context.Background(), adminActor(), created.ID); err != nil {
		t.Fatalf("admin read: %v", err)
	}
}

func TestListScopesToDealer(t *testing.T) {
	env := newTestEnv(t)
	env.seedSettings(t, 20, 30)
	env.seedVariant(t, "p1", "p1-v1", "100.00", 100)
	firstID := env.addDealer(&models.Dealer{
		ID:          uuid.New(),
		CompanyName: "North Rides",
		IsActive:    true,
	})
	secondID := env.addDealer(&models.Dealer{
		ID:          uuid.New(),
		CompanyName: "South Rides",
		IsActive:    true,
	})
	for _, id := range []*uuid.UUID{firstID, firstID, secondID} {
		_, err := env.svc.Create(context.Background(), dealerActor(id), CreateInput{
			Lines: []LineInput{{ProductID: "p1", VariantID: "p1-v1", Quantity: 1}},
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	mine, err := env.svc.List(context.Background(), dealerActor(firstID), pagination.Params{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(mine.Orders) != 2 {
		t.Fatalf("dealer list = %d orders, want 2", len(mine.Orders))
	}
	for _, order := range mine.Orders {
		if order.DealerID != *firstID {
			t.Fatalf("leaked order for dealer %s", order.DealerID)
		}
	}

	all, err := env.svc.List(context.Background(), adminActor(), pagination.Params{})
	if err != nil {
		t.Fatalf("admin List: %v", err)
	}
	if len(all.Orders) != 3 {
		t.Fatalf("admin list = %d orders, want 3", len(all.Orders))
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	env := newTestEnv(t)
	env.seedSettings(t, 20, 30)
	env.seedVariant(t, "p1", "p1-v1", "100.00", 10)
	dealerID := env.addDealer(&models.Dealer{
		ID:          uuid.New(),
		CompanyName: "North Rides",
		IsActive:    true,
	})
	created, err := env.svc.Create(context.Background(), dealerActor(dealerID), CreateInput{
		Lines: []LineInput{{ProductID: "p1", VariantID: "p1-v1", Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	ctx := context.Background()

	_, err = env.svc.UpdateStatus(ctx, created.ID, enums.OrderStatusShipped)
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected conflict skipping confirmation, got %v", err)
	}

	for _, status := range []enums.OrderStatus{
		enums.OrderStatusConfirmed,
		enums.OrderStatusShipped,
		enums.OrderStatusCompleted,
	} {
		got, err := env.svc.UpdateStatus(ctx, created.ID, status)
		if err != nil {
			t.Fatalf("transition to %s: %v", status, err)
		}
		if got.Status != status {
			t.Fatalf("status = %s, want %s", got.Status, status)
		}
	}

	_, err = env.svc.UpdateStatus(ctx, created.ID, enums.OrderStatusCancelled)
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected terminal status to be immutable, got %v", err)
	}
}
