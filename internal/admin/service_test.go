package admin

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"coachadmin/internal/auth"
	"coachadmin/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init()

	code := m.Run()
	os.Exit(code)
}

const testSecret = "test-secret-do-not-use"

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, admin *Admin) (*Admin, error) {
	args := m.Called(ctx, admin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Admin), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int) (*Admin, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Admin), args.Error(1)
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Admin), args.Error(1)
}

func (m *MockRepository) EmailTaken(ctx context.Context, email string, excludeID int) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]Admin, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Admin), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, admin *Admin) (*Admin, error) {
	args := m.Called(ctx, admin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Admin), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) TouchLastLogin(ctx context.Context, id int, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func TestRegisterDefaultsToAdminRole(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, testSecret)

	repo.On("EmailTaken", mock.Anything, "ops@example.com", 0).Return(false, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(a *Admin) bool {
		return a.Role == auth.RoleAdmin && a.PasswordHash != "secret-password"
	})).Return(&Admin{ID: 1, Role: auth.RoleAdmin}, nil)

	admin, err := svc.Register(context.Background(), CreateParams{
		Name:     "Ops",
		Email:    "ops@example.com",
		Password: "secret-password",
	})

	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, admin.Role)
	repo.AssertExpectations(t)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, testSecret)

	_, err := svc.Register(context.Background(), CreateParams{
		Name:     "Ops",
		Email:    "ops@example.com",
		Password: "secret-password",
		Role:     "superuser",
	})

	assert.ErrorIs(t, err, ErrInvalidRole)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, testSecret)

	repo.On("EmailTaken", mock.Anything, "ops@example.com", 0).Return(true, nil)

	_, err := svc.Register(context.Background(), CreateParams{
		Name:     "Ops",
		Email:    "ops@example.com",
		Password: "secret-password",
	})

	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestLoginIssuesUsableTokens(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, testSecret)

	hash, err := auth.HashPassword("secret-password")
	require.NoError(t, err)

	repo.On("GetByEmail", mock.Anything, "ops@example.com").Return(&Admin{
		ID: 1, Email: "ops@example.com", PasswordHash: hash, Role: auth.RoleFinance,
	}, nil)
	repo.On("TouchLastLogin", mock.Anything, 1, mock.Anything).Return(nil)

	admin, accessToken, refreshToken, err := svc.Login(context.Background(), "ops@example.com", "secret-password")

	require.NoError(t, err)
	assert.NotNil(t, admin.LastLogin)
	assert.NotEmpty(t, refreshToken)

	claims, err := auth.ValidateToken(accessToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, 1, claims.AdminID)
	assert.Equal(t, auth.RoleFinance, claims.Role)
	repo.AssertExpectations(t)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, testSecret)

	hash, err := auth.HashPassword("secret-password")
	require.NoError(t, err)

	repo.On("GetByEmail", mock.Anything, "ops@example.com").Return(&Admin{
		ID: 1, PasswordHash: hash,
	}, nil)

	_, _, _, err = svc.Login(context.Background(), "ops@example.com", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	repo.AssertNotCalled(t, "TouchLastLogin", mock.Anything, mock.Anything, mock.Anything)
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, testSecret)

	repo.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, ErrNotFound)

	_, _, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever")

	// Unknown email and wrong password are indistinguishable to the caller.
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRoundTrip(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, testSecret)

	_, refreshToken, err := auth.GenerateTokens(1, "ops@example.com", auth.RoleAdmin, testSecret)
	require.NoError(t, err)

	accessToken, err := svc.Refresh(context.Background(), refreshToken)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(accessToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, 1, claims.AdminID)
}

func TestDeleteOwnAccountRefused(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, testSecret)

	err := svc.Delete(context.Background(), 1, 1)

	assert.ErrorIs(t, err, ErrSelfDelete)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteOtherAccount(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, testSecret)

	repo.On("Delete", mock.Anything, 2).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), 2, 1))
	repo.AssertExpectations(t)
}

func TestUpdateRoleValidation(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, testSecret)

	repo.On("GetByID", mock.Anything, 1).Return(&Admin{ID: 1, Role: auth.RoleAdmin}, nil)

	bad := "root"
	_, err := svc.Update(context.Background(), 1, UpdatePatch{Role: &bad})

	assert.ErrorIs(t, err, ErrInvalidRole)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
