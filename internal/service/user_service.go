package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"debt-service/internal/models"
	"debt-service/internal/repository"
	"debt-service/pkg/crypto"
)

// UserSvc is an implementation of the service.UserService interface
type UserSvc struct {
	repos     *repository.Repository
	logger    *logrus.Logger
	hasher    *crypto.PasswordHasher
	jwtSecret string
	jwtTTL    time.Duration
	now       func() time.Time
}

// NewUserService creates a new UserSvc
func NewUserService(deps Dependencies) *UserSvc {
	hasher := deps.Hasher
	if hasher == nil {
		hasher = crypto.NewPasswordHasher()
	}

	return &UserSvc{
		repos:     deps.Repos,
		logger:    deps.Logger,
		hasher:    hasher,
		jwtSecret: deps.Config.JWT.Secret,
		jwtTTL:    time.Duration(deps.Config.JWT.TTL) * time.Hour,
		now:       deps.clock(),
	}
}

// Register registers a new user
func (s *UserSvc) Register(ctx context.Context, userReg *models.UserRegistration) (int, error) {
	if err := userReg.Validate(); err != nil {
		return 0, err
	}

	if _, err := s.repos.User.GetByUsername(ctx, userReg.Username); err == nil {
		return 0, fmt.Errorf("username %s: %w", userReg.Username, models.ErrUserExists)
	} else if !errors.Is(err, models.ErrUserNotFound) {
		return 0, fmt.Errorf("failed to check username: %w", err)
	}

	if _, err := s.repos.User.GetByEmail(ctx, userReg.Email); err == nil {
		return 0, fmt.Errorf("email %s: %w", userReg.Email, models.ErrUserExists)
	} else if !errors.Is(err, models.ErrUserNotFound) {
		return 0, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := s.hasher.HashPassword(userReg.Password)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	user := userReg.ToUser(hashedPassword)
	user.CreatedAt = s.now()
	user.UpdatedAt = user.CreatedAt

	id, err := s.repos.User.Create(ctx, user)
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Infof("User registered: %d", id)

	return id, nil
}

// Login logs in a user and returns a JWT token
func (s *UserSvc) Login(ctx context.Context, login *models.UserLogin) (*models.TokenResponse, error) {
	user, err := s.repos.User.GetByUsername(ctx, login.Username)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.hasher.CheckPasswordHash(login.Password, user.PassHash) {
		return nil, models.ErrInvalidCredentials
	}

	expirationTime := s.now().Add(s.jwtTTL)

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"exp":     expirationTime.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Infof("User logged in: %d", user.ID)

	return &models.TokenResponse{
		Token:     tokenString,
		ExpiresAt: expirationTime.Unix(),
	}, nil
}

// GetByID gets a user by ID
func (s *UserSvc) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.repos.User.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// Don't expose the password hash
	user.PassHash = ""

	return user, nil
}
