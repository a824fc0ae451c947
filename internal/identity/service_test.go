package identity

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/shopgrove/marketplace/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// mockRepository implements Repository for testing.
type mockRepository struct {
	users         map[string]*domain.User
	createUserErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *mockRepository) CreateUser(_ context.Context, user *domain.User) error {
	if m.createUserErr != nil {
		return m.createUserErr
	}
	if _, ok := m.users[user.Email]; ok {
		return ErrEmailExists
	}
	user.ID = "user-" + user.Email
	m.users[user.Email] = user
	return nil
}

func (m *mockRepository) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *mockRepository) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (m *mockRepository) ListUsers(_ context.Context) ([]domain.User, error) {
	var users []domain.User
	for _, u := range m.users {
		users = append(users, *u)
	}
	return users, nil
}

func (m *mockRepository) IncrementLoginCounter(_ context.Context, email string) (*domain.User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	u.Counter++
	return u, nil
}

// mockAuthenticator implements Authenticator for testing.
type mockAuthenticator struct {
	generateErr error
}

func (m *mockAuthenticator) GenerateToken(_ context.Context, _ *domain.User) (string, error) {
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return "test-token", nil
}

func (m *mockAuthenticator) ValidateToken(_ context.Context, _ string) (string, domain.Role, error) {
	return "", "", nil
}

// mockRecorder implements audit.Recorder for testing.
type mockRecorder struct {
	events []domain.AuditEvent
}

func (m *mockRecorder) Record(_ context.Context, event domain.AuditEvent) {
	m.events = append(m.events, event)
}

func newTestService() (*Service, *mockRepository, *mockRecorder) {
	repo := newMockRepository()
	recorder := &mockRecorder{}
	return NewService(repo, &mockAuthenticator{}, recorder), repo, recorder
}

func TestQuickLogin_RegistersUnknownEmail(t *testing.T) {
	service, _, recorder := newTestService()

	result, err := service.QuickLogin(context.Background(), QuickLoginInput{
		Email: "visitor@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, result.Status)
	assert.Equal(t, "user registered successfully", result.Message)
	assert.Equal(t, domain.RoleCustomer, result.Role)
	assert.Equal(t, 0, result.Counter)
	assert.NotEmpty(t, result.UserID)

	require.Len(t, recorder.events, 1)
	assert.Equal(t, domain.AuditEventLogin, recorder.events[0].Kind)
}

func TestQuickLogin_CountsCompletedLogins(t *testing.T) {
	service, _, _ := newTestService()

	first, err := service.QuickLogin(context.Background(), QuickLoginInput{Email: "repeat@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 0, first.Counter)

	// The counter reports logins completed before the current one, so the
	// second request still reads zero.
	second, err := service.QuickLogin(context.Background(), QuickLoginInput{Email: "repeat@example.com"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, second.Status)
	assert.Equal(t, "login successful", second.Message)
	assert.Equal(t, 0, second.Counter)
	assert.Equal(t, first.UserID, second.UserID)

	third, err := service.QuickLogin(context.Background(), QuickLoginInput{Email: "repeat@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 1, third.Counter)
}

func TestQuickLogin_EmptyEmail(t *testing.T) {
	service, _, recorder := newTestService()

	_, err := service.QuickLogin(context.Background(), QuickLoginInput{})

	assert.ErrorIs(t, err, ErrEmailRequired)
	assert.Empty(t, recorder.events)
}

func TestQuickLogin_RequestedRole(t *testing.T) {
	service, _, _ := newTestService()

	result, err := service.QuickLogin(context.Background(), QuickLoginInput{
		Email: "seller@example.com",
		Role:  "seller",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleSeller, result.Role)
}

func TestQuickLogin_InvalidRoleFallsBackToCustomer(t *testing.T) {
	service, _, _ := newTestService()

	result, err := service.QuickLogin(context.Background(), QuickLoginInput{
		Email: "odd@example.com",
		Role:  "superuser",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, result.Role)
}

func TestQuickLogin_ExistingRoleUnchanged(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.QuickLogin(context.Background(), QuickLoginInput{
		Email: "stable@example.com",
		Role:  "seller",
	})
	require.NoError(t, err)

	// A later request with a different role keeps the stored role
	result, err := service.QuickLogin(context.Background(), QuickLoginInput{
		Email: "stable@example.com",
		Role:  "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSeller, result.Role)
}

func TestQuickLogin_NilRecorder(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo, &mockAuthenticator{}, nil)

	result, err := service.QuickLogin(context.Background(), QuickLoginInput{Email: "quiet@example.com"})

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, result.Status)
}

func TestRegister_HashesPassword(t *testing.T) {
	service, repo, _ := newTestService()

	user, err := service.Register(context.Background(), RegisterInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
		Role:     "customer",
	})

	require.NoError(t, err)
	assert.NotEqual(t, "password123", user.Password)

	stored := repo.users["test@example.com"]
	require.NotNil(t, stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("password123")))
}

func TestRegister_InvalidRole(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.Register(context.Background(), RegisterInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
		Role:     "root",
	})

	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.Register(context.Background(), RegisterInput{
		Name:     "First",
		Email:    "dup@example.com",
		Password: "password123",
		Role:     "customer",
	})
	require.NoError(t, err)

	_, err = service.Register(context.Background(), RegisterInput{
		Name:     "Second",
		Email:    "dup@example.com",
		Password: "password456",
		Role:     "seller",
	})

	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestLogin_Success(t *testing.T) {
	service, _, recorder := newTestService()

	_, err := service.Register(context.Background(), RegisterInput{
		Name:     "Test User",
		Email:    "login@example.com",
		Password: "password123",
		Role:     "seller",
	})
	require.NoError(t, err)

	result, err := service.Login(context.Background(), LoginInput{
		Email:    "login@example.com",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.Equal(t, "test-token", result.Token)
	assert.Equal(t, domain.RoleSeller, result.User.Role)

	require.Len(t, recorder.events, 1)
	assert.Equal(t, domain.AuditEventLogin, recorder.events[0].Kind)
}

func TestLogin_WrongPassword(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.Register(context.Background(), RegisterInput{
		Name:     "Test User",
		Email:    "login@example.com",
		Password: "password123",
		Role:     "customer",
	})
	require.NoError(t, err)

	_, err = service.Login(context.Background(), LoginInput{
		Email:    "login@example.com",
		Password: "wrong",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.Login(context.Background(), LoginInput{
		Email:    "nobody@example.com",
		Password: "password123",
	})

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLogin_VisitorAccountHasNoPassword(t *testing.T) {
	service, _, _ := newTestService()

	// Created via the visitor flow, no password hash stored
	_, err := service.QuickLogin(context.Background(), QuickLoginInput{Email: "visitor@example.com"})
	require.NoError(t, err)

	_, err = service.Login(context.Background(), LoginInput{
		Email:    "visitor@example.com",
		Password: "anything",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_TokenGenerationFailure(t *testing.T) {
	repo := newMockRepository()
	auth := &mockAuthenticator{generateErr: errors.New("boom")}
	service := NewService(repo, auth, nil)

	_, err := service.Register(context.Background(), RegisterInput{
		Name:     "Test User",
		Email:    "login@example.com",
		Password: "password123",
		Role:     "customer",
	})
	require.NoError(t, err)

	_, err = service.Login(context.Background(), LoginInput{
		Email:    "login@example.com",
		Password: "password123",
	})

	assert.Error(t, err)
}
