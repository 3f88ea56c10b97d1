package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"salonify/database"
	"salonify/models"
	"salonify/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const msgBadCredentials = "These credentials do not match our records."

func (s *DefaultUserService) Register(ctx context.Context, req RegisterRequest, info ClientInfo) (*AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.Internal(fmt.Errorf("failed to hash password: %w", err))
	}

	now := time.Now()
	u := &models.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: string(hash),
		Role:         models.RoleClient,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, utils.ValidationError("", map[string][]string{"email": {"The email has already been taken."}})
		}
		return nil, utils.Internal(err)
	}
	utils.GetLogger().Info("user registered", zap.String("user_id", u.ID))
	return s.issue(ctx, u, info)
}

func (s *DefaultUserService) Login(ctx context.Context, req LoginRequest, info ClientInfo) (*AuthResponse, error) {
	u, err := s.Repo.GetByEmail(ctx, req.Email)
	if errors.Is(err, database.ErrNotFound) {
		return nil, utils.Unauthorized(msgBadCredentials)
	}
	if err != nil {
		return nil, utils.Internal(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, utils.Unauthorized(msgBadCredentials)
	}
	return s.issue(ctx, u, info)
}

// issue signs a token and stores its session under the token hash.
func (s *DefaultUserService) issue(ctx context.Context, u *models.User, info ClientInfo) (*AuthResponse, error) {
	token, err := utils.GenerateToken(u.ID, u.Email, u.Role, s.TokenTTL)
	if err != nil {
		return nil, utils.Internal(fmt.Errorf("failed to sign token: %w", err))
	}
	now := time.Now()
	session := utils.AuthSession{
		UserID:    u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		IP:        info.IP,
		UserAgent: info.UserAgent,
		CreatedAt: now,
		ExpiresAt: now.Add(s.TokenTTL),
	}
	if err := s.Sessions.Save(ctx, utils.HashToken(token), session, s.TokenTTL); err != nil {
		return nil, utils.Internal(err)
	}
	return &AuthResponse{Token: token, ExpiresAt: session.ExpiresAt, User: u}, nil
}

func (s *DefaultUserService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.Sessions.Delete(ctx, utils.HashToken(token)); err != nil {
		return utils.Internal(err)
	}
	return nil
}

func (s *DefaultUserService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, utils.NotFound("User")
	}
	if err != nil {
		return nil, utils.Internal(err)
	}
	return u, nil
}
