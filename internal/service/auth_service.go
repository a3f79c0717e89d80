package service

import (
	"context"
	"errors"
	"time"

	"filipiknow_backend/internal/config"
	"filipiknow_backend/internal/middleware"
	"filipiknow_backend/internal/model"
	"filipiknow_backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	SignIn(ctx context.Context, req *model.SignInRequest) (*model.SignInResponse, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error)
}

type authService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	cfg      *config.Config
}

func NewAuthService(db *gorm.DB, userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{
		db:       db,
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// Register creates a new account with a bcrypt-hashed password.
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	logger := middleware.GetLogger(ctx)
	var newUser *model.User

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := s.userRepo.FindByEmail(ctx, tx, req.Email)
		if err == nil {
			logger.Warn("Email already exists", "email", req.Email)
			return model.NewAppError("DUPLICATE_EMAIL", "This email address is already in use.", "email", model.ErrConflict)
		}
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Failed to check email existence", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			logger.Error("Failed to hash password", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to process the password.", "", err)
		}

		user := &model.User{
			UserID:       uuid.New(),
			Email:        req.Email,
			PasswordHash: string(hashedPassword),
			Name:         req.Name,
			Role:         req.Role,
		}

		if err := s.userRepo.Create(ctx, tx, user); err != nil {
			// Race between the check above and the insert.
			if errors.Is(err, model.ErrConflict) {
				logger.Warn("Conflict during user creation", "error", err)
				return model.NewAppError("DUPLICATE_EMAIL", "This email address is already in use.", "email", model.ErrConflict)
			}
			logger.Error("Failed to create user in DB", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to create the account.", "", err)
		}
		newUser = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("User registered", "user_id", newUser.UserID, "role", string(newUser.Role))
	return newUser, nil
}

// SignIn authenticates the user and returns a signed JWT.
func (s *authService) SignIn(ctx context.Context, req *model.SignInRequest) (*model.SignInResponse, error) {
	logger := middleware.GetLogger(ctx).With("email", req.Email)

	user, err := s.userRepo.FindByEmail(ctx, s.db, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Sign-in failed: user not found")
			return nil, model.NewAppError("AUTHENTICATION_FAILED", "Email or password is incorrect.", "", model.ErrInvalidInput)
		}
		logger.Error("Sign-in failed: db error on FindByEmail", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logger.Warn("Sign-in failed: password mismatch", "user_id", user.UserID)
		return nil, model.NewAppError("AUTHENTICATION_FAILED", "Email or password is incorrect.", "", model.ErrInvalidInput)
	}

	claims := &jwt.RegisteredClaims{
		Issuer:    s.cfg.App.Name,
		Subject:   user.UserID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.cfg.JWT.AccessTokenTTL)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		logger.Error("Failed to sign JWT", "error", err, "user_id", user.UserID)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to issue the token.", "", err)
	}

	logger.Info("Sign-in successful", "user_id", user.UserID)
	return &model.SignInResponse{AccessToken: signedToken}, nil
}

func (s *authService) GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	logger := middleware.GetLogger(ctx)
	user, err := s.userRepo.FindByID(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("User not found", "user_id", userID.String())
			return nil, model.NewAppError("USER_NOT_FOUND", "The user was not found.", "", model.ErrNotFound)
		}
		logger.Error("Error finding user by ID", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
	}
	return user, nil
}
