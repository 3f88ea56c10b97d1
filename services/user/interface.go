package user

import (
	"context"
	"time"

	userRepo "salonify/database/repository/user"
	"salonify/models"
	"salonify/utils"
)

type UserService interface {
	// Register creates a client account and signs it in.
	Register(ctx context.Context, req RegisterRequest, info ClientInfo) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest, info ClientInfo) (*AuthResponse, error)
	// Logout revokes the server-side session for token.
	Logout(ctx context.Context, token string) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
}

type RegisterRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	PhoneNumber string `json:"phone_number" binding:"omitempty,max=32"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ClientInfo is stored on the session for auditing.
type ClientInfo struct {
	IP        string
	UserAgent string
}

// AuthResponse contains the issued token and the signed-in user.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo     userRepo.UserRepository
	Sessions utils.SessionStore
	TokenTTL time.Duration
}

func NewUserService(repo userRepo.UserRepository, sessions utils.SessionStore, tokenTTL time.Duration) *DefaultUserService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &DefaultUserService{Repo: repo, Sessions: sessions, TokenTTL: tokenTTL}
}
