package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/apperr"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/config"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/dto"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/models"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrEmailDomain        = errors.New("email outside the allowed domain")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserSuspended      = errors.New("account suspended")
)

type AuthService struct {
	ledger *repository.Ledger
	cfg    *config.Config
}

func NewAuthService(ledger *repository.Ledger, cfg *config.Config) *AuthService {
	return &AuthService{ledger: ledger, cfg: cfg}
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || len(req.Password) < 8 {
		return nil, apperr.New(apperr.InvalidArgument, "email required and password must be at least 8 characters")
	}
	if !strings.HasSuffix(email, "@"+s.cfg.AllowedEmailDomain) {
		return nil, apperr.Wrap(apperr.InvalidArgument, "Use your @"+s.cfg.AllowedEmailDomain+" email", ErrEmailDomain)
	}

	if _, err := s.ledger.FindUserByEmail(ctx, email); err == nil {
		return nil, apperr.Wrap(apperr.Conflict, "Email already registered", ErrEmailTaken)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Wrap(apperr.Internal, "lookup user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		UID:                uuid.NewString(),
		Email:              email,
		Password:           string(hash),
		Hostel:             strings.TrimSpace(req.Hostel),
		Phone:              strings.TrimSpace(req.Phone),
		EmailNotifications: req.EmailNotifications,
		Role:               models.RoleUser,
		Status:             models.UserStatusActive,
	}
	if err := s.ledger.CreateUser(ctx, &user); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "create user", err)
	}

	slog.Info("user registered", "action", "auth.register", "user_id", user.UID)
	return s.generateTokenPair(ctx, &user)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.ledger.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, apperr.Wrap(apperr.Unauthenticated, "Invalid email or password", ErrInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperr.Wrap(apperr.Unauthenticated, "Invalid email or password", ErrInvalidCredentials)
	}
	if user.IsSuspended() {
		return nil, apperr.Wrap(apperr.PermissionDenied, "Account suspended", ErrUserSuspended)
	}
	return s.generateTokenPair(ctx, user)
}

// Refresh rotates a refresh token. A token can be exchanged once.
func (s *AuthService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	tokenHash := hashToken(req.RefreshToken)

	stored, err := s.ledger.FindActiveRefreshToken(ctx, tokenHash)
	if err != nil {
		return nil, apperr.Wrap(apperr.Unauthenticated, "Invalid or expired refresh token", ErrInvalidToken)
	}

	revoked, err := s.ledger.RevokeRefreshToken(ctx, tokenHash)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "revoke refresh token", err)
	}
	if !revoked || time.Now().After(stored.ExpiresAt) {
		return nil, apperr.Wrap(apperr.Unauthenticated, "Invalid or expired refresh token", ErrInvalidToken)
	}

	user, err := s.ledger.FindUserByUID(ctx, stored.UserUID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Unauthenticated, "User not found", ErrUserNotFound)
	}
	if user.IsSuspended() {
		return nil, apperr.Wrap(apperr.PermissionDenied, "Account suspended", ErrUserSuspended)
	}
	return s.generateTokenPair(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, req *dto.LogoutRequest) error {
	_, err := s.ledger.RevokeRefreshToken(ctx, hashToken(req.RefreshToken))
	return err
}

func (s *AuthService) Profile(ctx context.Context, uid string) (*dto.UserResponse, error) {
	user, err := s.ledger.FindUserByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Wrap(apperr.NotFound, "User not found", ErrUserNotFound)
		}
		return nil, apperr.Wrap(apperr.Internal, "load user", err)
	}
	resp := userResponse(user)
	return &resp, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, uid string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.ledger.FindUserByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Wrap(apperr.NotFound, "User not found", ErrUserNotFound)
		}
		return nil, apperr.Wrap(apperr.Internal, "load user", err)
	}

	if req.Hostel != nil {
		user.Hostel = strings.TrimSpace(*req.Hostel)
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.EmailNotifications != nil {
		user.EmailNotifications = *req.EmailNotifications
	}
	if err := s.ledger.UpdateUserProfile(ctx, user); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "update profile", err)
	}

	resp := userResponse(user)
	return &resp, nil
}

func (s *AuthService) generateTokenPair(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         userResponse(user),
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.UID,
		"email": user.Email,
		"role":  user.Role,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)
	record := models.RefreshToken{
		UserUID:   user.UID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}
	if err := s.ledger.CreateRefreshToken(ctx, &record); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func userResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		UID:                u.UID,
		Email:              u.Email,
		Hostel:             u.Hostel,
		Phone:              u.Phone,
		EmailNotifications: u.EmailNotifications,
		Role:               u.Role,
		Status:             u.Status,
	}
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
