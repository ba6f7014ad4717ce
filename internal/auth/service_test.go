package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/emekaobi/naijamart-backend/pkg/auth"
	"github.com/emekaobi/naijamart-backend/pkg/config"
	"github.com/emekaobi/naijamart-backend/pkg/db/models"
	"github.com/emekaobi/naijamart-backend/pkg/enums"
	pkgerrors "github.com/emekaobi/naijamart-backend/pkg/errors"
	"github.com/emekaobi/naijamart-backend/pkg/security"
)

type fakeUserRepo struct {
	byEmail map[string]*models.User
	byID    map[uuid.UUID]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{byEmail: map[string]*models.User{}, byID: map[uuid.UUID]*models.User{}}
	for _, u := range users {
		repo.byEmail[u.Email] = u
		repo.byID[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	user.ID = uuid.New()
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *models.User) (*models.User, error) {
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeSessions struct {
	generated []string
	revoked   []string
}

func (f *fakeSessions) Generate(_ context.Context, accessID string) (string, error) {
	f.generated = append(f.generated, accessID)
	return "refresh-" + accessID, nil
}

func (f *fakeSessions) Rotate(_ context.Context, oldAccessID, _ string) (string, string, error) {
	newID := "rotated-" + oldAccessID
	return newID, "refresh-" + newID, nil
}

func (f *fakeSessions) Revoke(_ context.Context, accessID string) error {
	f.revoked = append(f.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-test-secret-test-secret",
		Issuer:            "naijamart-test",
		ExpirationMinutes: 15,
	}
}

func newTestUser(t *testing.T, email, password string, role enums.UserRole) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FullName:     "Test User",
		Role:         role,
		IsActive:     true,
	}
}

func newTestService(t *testing.T, users ...*models.User) (Service, *fakeSessions) {
	t.Helper()
	sessions := &fakeSessions{}
	svc, err := NewService(ServiceParams{
		UserRepo:       newFakeUserRepo(users...),
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, sessions
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	ctx := context.Background()
	user := newTestUser(t, "ada@example.com", "correct-horse", enums.UserRoleCustomer)
	svc, _ := newTestService(t, user)

	resp, err := svc.Login(ctx, LoginRequest{Email: "Ada@Example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parsing minted token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("token user = %s, want %s", claims.UserID, user.ID)
	}
	if claims.Role != enums.UserRoleCustomer {
		t.Fatalf("token role = %s, want customer", claims.Role)
	}
	if resp.RefreshToken == "" {
		t.Fatal("expected refresh token")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	user := newTestUser(t, "ada@example.com", "correct-horse", enums.UserRoleCustomer)
	svc, _ := newTestService(t, user)

	tests := []struct {
		name string
		req  LoginRequest
	}{
		{"wrong password", LoginRequest{Email: "ada@example.com", Password: "wrong"}},
		{"unknown email", LoginRequest{Email: "nobody@example.com", Password: "correct-horse"}},
		{"empty password", LoginRequest{Email: "ada@example.com"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tc.req)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
				t.Fatalf("expected unauthorized, got %v", err)
			}
		})
	}
}

func TestAdminLoginRejectsCustomers(t *testing.T) {
	ctx := context.Background()
	customer := newTestUser(t, "ada@example.com", "correct-horse", enums.UserRoleCustomer)
	admin := newTestUser(t, "boss@example.com", "super-secret-1", enums.UserRoleAdmin)
	svc, _ := newTestService(t, customer, admin)

	if _, err := svc.AdminLogin(ctx, LoginRequest{Email: "boss@example.com", Password: "super-secret-1"}); err != nil {
		t.Fatalf("admin login: %v", err)
	}
	_, err := svc.AdminLogin(ctx, LoginRequest{Email: "ada@example.com", Password: "correct-horse"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for customer on admin login, got %v", err)
	}
}

func TestRegisterThenMe(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	resp, err := svc.Register(ctx, RegisterRequest{
		FullName: "Ada Obi",
		Email:    "ada@example.com",
		Password: "long-enough-pw",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.User.Role != enums.UserRoleCustomer {
		t.Fatalf("registered role = %s, want customer", resp.User.Role)
	}

	identity, err := svc.Me(ctx, resp.User.ID)
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if identity.Email != "ada@example.com" {
		t.Fatalf("identity email = %s", identity.Email)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Register(context.Background(), RegisterRequest{
		FullName: "Ada Obi",
		Email:    "ada@example.com",
		Password: "short",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	ctx := context.Background()
	user := newTestUser(t, "ada@example.com", "correct-horse", enums.UserRoleCustomer)
	svc, sessions := newTestService(t, user)

	if _, err := svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "correct-horse"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if len(sessions.generated) != 1 {
		t.Fatalf("expected one session, got %d", len(sessions.generated))
	}
	if err := svc.Logout(ctx, sessions.generated[0]); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != sessions.generated[0] {
		t.Fatalf("revoked = %v, want %v", sessions.revoked, sessions.generated)
	}
}
