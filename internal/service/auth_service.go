package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"parking-service/internal/models"
	"parking-service/internal/redisclient"
	"parking-service/internal/store"
	"parking-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login and session-token resolution.
// Tokens are opaque UUIDs stored in Redis with a TTL; no claims are encoded
// in the token itself.
type AuthService struct {
	store    *store.Store
	tokens   *redisclient.Client
	tokenTTL time.Duration
	logger   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(store *store.Store, tokens *redisclient.Client, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		store:    store,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		logger:   util.GetLogger(),
	}
}

// RegisterRequest represents a new account. Role is optional and defaults
// to USER.
type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Name      string `json:"name"`
	Email     string `json:"email" binding:"required"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	BirthYear int    `json:"birth_year"`
}

// Register validates and creates a new user account
func (as *AuthService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.Register")
	defer span.End()

	if !ValidUsername(req.Username) {
		return nil, &ValidationError{Field: "username", Reason: "must be 8-10 characters starting with a letter or underscore"}
	}
	if !ValidPassword(req.Password) {
		return nil, &ValidationError{Field: "password", Reason: "must be 12-30 characters with lower, upper, digit and special"}
	}
	if !ValidEmail(req.Email) {
		return nil, &ValidationError{Field: "email", Reason: "must be a valid email address"}
	}
	if !ValidPhone(req.Phone) {
		return nil, &ValidationError{Field: "phone", Reason: "must be 7-15 digits"}
	}

	role := models.RoleUser
	if req.Role != "" {
		if !ValidRole(req.Role) {
			return nil, &ValidationError{Field: "role", Reason: "must be USER or ADMIN"}
		}
		role = strings.ToUpper(req.Role)
	}

	if _, err := as.store.GetUserByUsername(ctx, req.Username); err == nil {
		return nil, &ConflictError{Reason: "username already taken"}
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:  req.Username,
		Password:  string(hashed),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      role,
		BirthYear: req.BirthYear,
		Active:    true,
	}

	if err := as.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, &ConflictError{Reason: "username or email already taken"}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	util.UsersRegisteredTotal.Inc()
	as.logger.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username))

	return user, nil
}

// Login verifies credentials and issues a fresh session token. Accounts
// resolve by email when one is given, otherwise by username; a username
// containing an @ is tried as an email first.
func (as *AuthService) Login(ctx context.Context, username, email, password string) (string, *models.User, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.Login")
	defer span.End()

	if password == "" {
		return "", nil, &ValidationError{Field: "password", Reason: "required"}
	}
	if username == "" && email == "" {
		return "", nil, &ValidationError{Field: "username", Reason: "username or email is required"}
	}

	user, err := as.resolveAccount(ctx, username, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.LoginsFailedTotal.Inc()
			return "", nil, &AuthorizationError{Reason: "invalid credentials"}
		}
		return "", nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		util.LoginsFailedTotal.Inc()
		return "", nil, &AuthorizationError{Reason: "invalid credentials"}
	}

	if !user.Active {
		return "", nil, &AuthorizationError{Reason: "account disabled"}
	}

	token := uuid.New().String()
	identity := models.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Name:     user.Name,
		Role:     user.Role,
	}

	if err := as.tokens.SaveToken(ctx, token, identity, as.tokenTTL); err != nil {
		return "", nil, fmt.Errorf("failed to save session token: %w", err)
	}

	util.LoginsTotal.Inc()
	as.logger.Info("User logged in", zap.Int64("user_id", user.ID))

	return token, user, nil
}

func (as *AuthService) resolveAccount(ctx context.Context, username, email string) (*models.User, error) {
	if email != "" {
		return as.store.GetUserByEmail(ctx, email)
	}
	if strings.Contains(username, "@") {
		user, err := as.store.GetUserByEmail(ctx, username)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}
	return as.store.GetUserByUsername(ctx, username)
}

// Authenticate resolves a session token to the identity it was issued for
func (as *AuthService) Authenticate(ctx context.Context, token string) (*models.Identity, error) {
	identity, err := as.tokens.GetToken(ctx, token)
	if err != nil {
		if errors.Is(err, redisclient.ErrTokenNotFound) {
			return nil, &AuthorizationError{Reason: "invalid or expired session token"}
		}
		return nil, fmt.Errorf("failed to resolve session token: %w", err)
	}
	return identity, nil
}

// Logout invalidates a session token
func (as *AuthService) Logout(ctx context.Context, token string) error {
	return as.tokens.DeleteToken(ctx, token)
}

// GetProfile returns the full account row for the authenticated user
func (as *AuthService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := as.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Resource: "user"}
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfileRequest carries the mutable profile fields. A non-empty
// password replaces the stored hash after revalidation. Role is validated
// for everyone but applied only when the caller is already an admin.
type UpdateProfileRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	BirthYear int    `json:"birth_year"`
	Password  string `json:"password"`
}

// UpdateProfile updates the caller's profile
func (as *AuthService) UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) (*models.User, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.UpdateProfile")
	defer span.End()

	user, err := as.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Resource: "user"}
		}
		return nil, err
	}

	if req.Email != "" {
		if !ValidEmail(req.Email) {
			return nil, &ValidationError{Field: "email", Reason: "must be a valid email address"}
		}
		user.Email = req.Email
	}
	if req.Phone != "" {
		if !ValidPhone(req.Phone) {
			return nil, &ValidationError{Field: "phone", Reason: "must be 7-15 digits"}
		}
		user.Phone = req.Phone
	}
	if req.Role != "" {
		if !ValidRole(req.Role) {
			return nil, &ValidationError{Field: "role", Reason: "must be USER or ADMIN"}
		}
		// Only admins may change roles; for everyone else the field is
		// validated and then dropped
		if user.Role == models.RoleAdmin {
			user.Role = strings.ToUpper(req.Role)
		}
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.BirthYear != 0 {
		user.BirthYear = req.BirthYear
	}

	if err := as.store.UpdateUserProfile(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, &ConflictError{Reason: "email already registered"}
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if req.Password != "" {
		if !ValidPassword(req.Password) {
			return nil, &ValidationError{Field: "password", Reason: "must be 12-30 characters with lower, upper, digit and special"}
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		if err := as.store.UpdateUserPassword(ctx, userID, string(hashed)); err != nil {
			return nil, fmt.Errorf("failed to update password: %w", err)
		}
	}

	as.logger.Info("Profile updated", zap.Int64("user_id", userID))
	return user, nil
}
