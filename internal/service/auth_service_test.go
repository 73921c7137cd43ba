package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/portfolio-backend/internal/models"
	"github.com/ignatzorin/portfolio-backend/internal/repository"
)

type mockAuthRepo struct {
	mock.Mock
}

func (m *mockAuthRepo) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockAuthRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockAuthRepo) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockAuthRepo) CreateSession(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockAuthRepo) DeleteSession(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func (m *mockAuthRepo) ListSessions(ctx context.Context, userID uuid.UUID) ([]models.Session, error) {
	args := m.Called(ctx, userID)
	if s := args.Get(0); s != nil {
		return s.([]models.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthRepo) DeleteSessionByID(ctx context.Context, sessionID uuid.UUID, userID uuid.UUID) error {
	args := m.Called(ctx, sessionID, userID)
	return args.Error(0)
}

func newTestTokenManager() *TokenManager {
	return NewTokenManager("test-access-secret", "test-refresh-secret", 15*time.Minute, 720*time.Hour)
}

func TestAuthService_BootstrapAdmin_SkipsWhenUsersExist(t *testing.T) {
	repo := new(mockAuthRepo)
	repo.On("Count", mock.Anything).Return(1, nil)

	svc := NewAuthService(repo, newTestTokenManager())

	err := svc.BootstrapAdmin(context.Background(), "admin@example.com", "password123")
	require.NoError(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_BootstrapAdmin_CreatesOnEmptyDB(t *testing.T) {
	repo := new(mockAuthRepo)
	repo.On("Count", mock.Anything).Return(0, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "admin@example.com" && u.IsAdmin && u.PasswordHash != "password123"
	})).Return(nil)

	svc := NewAuthService(repo, newTestTokenManager())

	err := svc.BootstrapAdmin(context.Background(), "admin@example.com", "password123")
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestAuthService_BootstrapAdmin_RequiresCredentials(t *testing.T) {
	repo := new(mockAuthRepo)
	repo.On("Count", mock.Anything).Return(0, nil)

	svc := NewAuthService(repo, newTestTokenManager())

	err := svc.BootstrapAdmin(context.Background(), "", "")
	assert.Error(t, err)
}

func testUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:           uuid.New(),
		Email:        "admin@example.com",
		PasswordHash: string(hash),
		IsAdmin:      true,
		IsActive:     true,
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	user := testUser(t, "password123")

	repo := new(mockAuthRepo)
	repo.On("GetByEmail", mock.Anything, "admin@example.com").Return(user, nil)
	repo.On("UpdateLastLoginAt", mock.Anything, user.ID).Return(nil)
	repo.On("CreateSession", mock.Anything, mock.MatchedBy(func(s *models.Session) bool {
		return s.UserID == user.ID && s.RefreshToken != ""
	})).Return(nil)

	svc := NewAuthService(repo, newTestTokenManager())

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "admin@example.com",
		Password: "password123",
	}, map[string]string{"ip": "127.0.0.1"})

	require.NoError(t, err)
	assert.NotEmpty(t, result.TokenPair.AccessToken)
	assert.NotEmpty(t, result.TokenPair.RefreshToken)
	repo.AssertExpectations(t)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	user := testUser(t, "password123")

	repo := new(mockAuthRepo)
	repo.On("GetByEmail", mock.Anything, "admin@example.com").Return(user, nil)

	svc := NewAuthService(repo, newTestTokenManager())

	_, err := svc.Login(context.Background(), LoginInput{
		Email:    "admin@example.com",
		Password: "wrong",
	}, nil)

	assert.Error(t, err)
	repo.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	repo := new(mockAuthRepo)
	repo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrUserNotFound)

	svc := NewAuthService(repo, newTestTokenManager())

	_, err := svc.Login(context.Background(), LoginInput{
		Email:    "ghost@example.com",
		Password: "password123",
	}, nil)

	assert.Error(t, err)
}

func TestAuthService_Login_InactiveAccount(t *testing.T) {
	user := testUser(t, "password123")
	user.IsActive = false

	repo := new(mockAuthRepo)
	repo.On("GetByEmail", mock.Anything, "admin@example.com").Return(user, nil)

	svc := NewAuthService(repo, newTestTokenManager())

	_, err := svc.Login(context.Background(), LoginInput{
		Email:    "admin@example.com",
		Password: "password123",
	}, nil)

	assert.Error(t, err)
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, newTestTokenManager())

	_, err := svc.Refresh(context.Background(), "not-a-jwt", nil)
	assert.Error(t, err)
}

func TestTokenManager_AccessRoundTrip(t *testing.T) {
	tm := newTestTokenManager()
	user := &models.User{ID: uuid.New(), IsAdmin: true}

	pair, _, err := tm.GeneratePair(user)
	require.NoError(t, err)

	principal, err := tm.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.ID)
	assert.True(t, principal.IsAdmin)

	// Refresh токен не проходит как access.
	_, err = tm.ParseAccess(pair.RefreshToken)
	assert.Error(t, err)
}
