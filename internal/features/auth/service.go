package auth

import (
	"context"
	"errors"
	"time"

	common_models "go-custody/internal/common/models"
	"go-custody/internal/features/audit"
	"go-custody/internal/features/user"
	"go-custody/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *common_models.User, error)
}

type AuthServiceImpl struct {
	UserRepo     user.UserRepository
	AuditService audit.AuditService
}

func NewAuthService(userRepo user.UserRepository, auditService audit.AuditService) AuthService {
	return &AuthServiceImpl{
		UserRepo:     userRepo,
		AuditService: auditService,
	}
}

func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, *common_models.User, error) {
	u, err := s.UserRepo.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}
	if u == nil {
		return "", nil, errors.New("invalid credentials")
	}
	if u.Status != "active" {
		return "", nil, errors.New("account is not active")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", nil, errors.New("invalid credentials")
	}

	token, err := utils.GenerateToken(u.ID, u.Username, u.Roles)
	if err != nil {
		return "", nil, err
	}

	now := time.Now()
	_ = s.UserRepo.Update(ctx, u.ID.Hex(), bson.M{"last_login": now})
	u.LastLogin = &now

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionLogin, "user", u.ID.Hex(), nil)

	return token, u, nil
}
