package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/shopgrove/marketplace/internal/audit"
	"github.com/shopgrove/marketplace/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// Authenticator issues and validates session tokens.
type Authenticator interface {
	GenerateToken(ctx context.Context, user *domain.User) (string, error)
	ValidateToken(ctx context.Context, token string) (userID string, role domain.Role, err error)
}

// Service implements identity business logic.
type Service struct {
	repo     Repository
	auth     Authenticator
	recorder audit.Recorder
}

// NewService creates a new identity service. recorder may be nil, in which
// case no audit events are emitted.
func NewService(repo Repository, auth Authenticator, recorder audit.Recorder) *Service {
	return &Service{
		repo:     repo,
		auth:     auth,
		recorder: recorder,
	}
}

// QuickLoginInput holds data for the visitor login flow.
type QuickLoginInput struct {
	Email string
	Role  string
}

// QuickLoginResult is the outcome of a visitor login.
type QuickLoginResult struct {
	Status  int
	Message string
	UserID  string
	Role    domain.Role
	Counter int
}

// QuickLogin resolves a user by email, registering one on first contact.
// A known email gets its login counter incremented atomically in the store;
// the returned counter is the pre-increment value, i.e. the number of
// completed logins before this one. An unknown email creates a user with the
// requested role (invalid or absent roles fall back to customer) and a
// counter of zero.
func (s *Service) QuickLogin(ctx context.Context, input QuickLoginInput) (*QuickLoginResult, error) {
	if input.Email == "" {
		return nil, ErrEmailRequired
	}

	user, err := s.repo.IncrementLoginCounter(ctx, input.Email)
	switch {
	case err == nil:
		result := &QuickLoginResult{
			Status:  http.StatusOK,
			Message: "login successful",
			UserID:  user.ID,
			Role:    user.Role,
			Counter: user.Counter - 1,
		}
		s.recordLogin(ctx, result, input)
		return result, nil

	case errors.Is(err, ErrUserNotFound):
		role := domain.Role(input.Role)
		if !role.IsValid() {
			role = domain.RoleCustomer
		}

		user := &domain.User{
			Email: input.Email,
			Role:  role,
		}
		if err := s.repo.CreateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}

		result := &QuickLoginResult{
			Status:  http.StatusCreated,
			Message: "user registered successfully",
			UserID:  user.ID,
			Role:    user.Role,
			Counter: user.Counter,
		}
		s.recordLogin(ctx, result, input)
		return result, nil

	default:
		return nil, fmt.Errorf("increment login counter: %w", err)
	}
}

// RegisterInput holds data for credentialed registration.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Register creates a user with a bcrypt-hashed password. The role must be one
// of the enumerated marketplace roles.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	role := domain.Role(input.Role)
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}

	if _, err := s.repo.GetUserByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hash),
		Role:     role,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// LoginInput holds data for credentialed login.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is the outcome of a credentialed login.
type LoginResult struct {
	Token string
	User  *domain.User
}

// Login verifies the password against the stored hash and issues a session
// token carrying the user id and role.
func (s *Service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.repo.GetUserByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	// Users created by the visitor flow have no password and cannot use
	// the credentialed flow.
	if user.Password == "" {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.auth.GenerateToken(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.recordLogin(ctx, &QuickLoginResult{
		Status:  http.StatusOK,
		Message: "login successful",
		UserID:  user.ID,
		Role:    user.Role,
		Counter: user.Counter,
	}, QuickLoginInput{Email: input.Email})

	return &LoginResult{Token: token, User: user}, nil
}

// GetUserByID returns a user by primary key.
func (s *Service) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.repo.ListUsers(ctx)
}

// ValidateToken implements httputil.TokenValidator.
func (s *Service) ValidateToken(ctx context.Context, token string) (string, domain.Role, error) {
	return s.auth.ValidateToken(ctx, token)
}

// recordLogin emits a login audit event. Emission is fire-and-forget: it
// cannot change the outcome already returned to the caller.
func (s *Service) recordLogin(ctx context.Context, result *QuickLoginResult, input QuickLoginInput) {
	if s.recorder == nil {
		return
	}

	form := map[string]interface{}{"email": input.Email}
	if input.Role != "" {
		form["role"] = input.Role
	}

	s.recorder.Record(ctx, audit.LoginEvent(
		result.UserID,
		result.Status,
		result.Message,
		input.Email,
		result.Role,
		result.Counter,
		form,
	))
}
