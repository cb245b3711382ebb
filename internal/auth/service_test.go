package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/mvasquezdev/dealerhub-backend/pkg/auth"
	"github.com/mvasquezdev/dealerhub-backend/pkg/config"
	"github.com/mvasquezdev/dealerhub-backend/pkg/db/models"
	"github.com/mvasquezdev/dealerhub-backend/pkg/enums"
	pkgerrors "github.com/mvasquezdev/dealerhub-backend/pkg/errors"
	"github.com/mvasquezdev/dealerhub-backend/pkg/security"
)

type fakeUserRepo struct {
	byEmail map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{byEmail: map[string]*models.User{}}
	for _, user := range users {
		repo.byEmail[user.Email] = user
	}
	return repo
}

func (f *fakeUserRepo) WithTx(*gorm.DB) Repository { return f }

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if _, exists := f.byEmail[user.Email]; exists {
		return gorm.ErrDuplicatedKey
	}
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	for _, user := range f.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeSessionManager struct {
	generated []string
}

func (f *fakeSessionManager) Generate(_ context.Context, accessID string) (string, error) {
	f.generated = append(f.generated, accessID)
	return "refresh-" + accessID, nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "dealerhub",
		ExpirationMinutes: 30,
	}
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func buildTestService(t *testing.T, users ...*models.User) (Service, *fakeSessionManager) {
	t.Helper()
	sessions := &fakeSessionManager{}
	svc, err := NewService(ServiceParams{
		UserRepo:       newFakeUserRepo(users...),
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: config.PasswordConfig{
			ArgonMemoryKB:    8 * 1024,
			ArgonTime:        1,
			ArgonParallelism: 1,
			ArgonSaltLen:     16,
			ArgonKeyLen:      32,
		},
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, sessions
}

func TestLoginIssuesTokenWithDealerClaim(t *testing.T) {
	password := "dealer-secret"
	dealerID := uuid.New()
	user := &models.User{
		ID:           uuid.New(),
		Email:        "dealer@example.com",
		PasswordHash: mustHashPassword(t, password),
		Role:         enums.UserRoleDealer,
		DealerID:     &dealerID,
		IsActive:     true,
	}
	svc, sessions := buildTestService(t, user)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Dealer@Example.com",
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != enums.UserRoleDealer {
		t.Fatalf("role claim = %s, want dealer", claims.Role)
	}
	if claims.DealerID == nil || *claims.DealerID != dealerID {
		t.Fatalf("dealer claim = %v, want %s", claims.DealerID, dealerID)
	}
	if resp.RefreshToken == "" {
		t.Fatal("expected refresh token")
	}
	if len(sessions.generated) != 1 || sessions.generated[0] != claims.ID {
		t.Fatalf("session not keyed by jti: %v vs %s", sessions.generated, claims.ID)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "dealer@example.com",
		PasswordHash: mustHashPassword(t, "right"),
		Role:         enums.UserRoleDealer,
		IsActive:     true,
	}
	svc, _ := buildTestService(t, user)

	_, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "wrong"})
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	password := "secret"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "gone@example.com",
		PasswordHash: mustHashPassword(t, password),
		Role:         enums.UserRoleDealer,
		IsActive:     false,
	}
	svc, _ := buildTestService(t, user)

	_, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: password})
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownEmailMatchesWrongPasswordError(t *testing.T) {
	svc, _ := buildTestService(t)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "x"})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if coded.Message() != invalidCredentialsMessage {
		t.Fatalf("message leaks account existence: %q", coded.Message())
	}
}

func TestRegisterUserGeneratesTempPassword(t *testing.T) {
	svc, _ := buildTestService(t)
	dealerID := uuid.New()

	resp, err := svc.RegisterUser(context.Background(), RegisterUserRequest{
		Email:    "New.Dealer@Example.com",
		Role:     "dealer",
		DealerID: &dealerID,
	})
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if resp.TempPassword == "" {
		t.Fatal("expected generated temp password")
	}
	if resp.User.Email != "new.dealer@example.com" {
		t.Fatalf("email not normalized: %q", resp.User.Email)
	}

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    resp.User.Email,
		Password: resp.TempPassword,
	})
	if err != nil {
		t.Fatalf("login with temp password: %v", err)
	}
	if login.User.ID != resp.User.ID {
		t.Fatalf("logged in as %s, want %s", login.User.ID, resp.User.ID)
	}
}

func TestRegisterUserValidatesRoleDealerPairing(t *testing.T) {
	svc, _ := buildTestService(t)
	dealerID := uuid.New()

	cases := []struct {
		name string
		req  RegisterUserRequest
	}{
		{"dealer without dealer id", RegisterUserRequest{Email: "a@example.com", Role: "dealer"}},
		{"admin with dealer id", RegisterUserRequest{Email: "b@example.com", Role: "admin", DealerID: &dealerID}},
		{"unknown role", RegisterUserRequest{Email: "c@example.com", Role: "owner"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.RegisterUser(context.Background(), tc.req)
			if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
