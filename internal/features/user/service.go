package user

import (
	"context"
	"errors"
	"time"

	common_models "go-custody/internal/common/models"
	"go-custody/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	CreateUser(ctx context.Context, user *common_models.User, password string) (*common_models.User, error)
	GetUser(ctx context.Context, id string) (*common_models.User, error)
	ListUsers(ctx context.Context, page, limit int64) ([]common_models.User, error)
	UpdateRoles(ctx context.Context, id string, roles []string) error
	SetStatus(ctx context.Context, id string, status string) error
}

type UserServiceImpl struct {
	Repo         UserRepository
	AuditService audit.AuditService
}

func NewUserService(repo UserRepository, auditService audit.AuditService) UserService {
	return &UserServiceImpl{
		Repo:         repo,
		AuditService: auditService,
	}
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, user *common_models.User, password string) (*common_models.User, error) {
	if user.Username == "" || password == "" {
		return nil, errors.New("username and password are required")
	}

	existing, err := s.Repo.FindByUsername(ctx, user.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("username already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user.ID = primitive.NewObjectID()
	user.Password = string(hashed)
	if user.Status == "" {
		user.Status = "active"
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "user", user.ID.Hex(), map[string]common_models.Change{
		"username": {New: user.Username},
		"roles":    {New: user.Roles},
	})

	return user, nil
}

func (s *UserServiceImpl) GetUser(ctx context.Context, id string) (*common_models.User, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *UserServiceImpl) ListUsers(ctx context.Context, page, limit int64) ([]common_models.User, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return s.Repo.List(ctx, limit, (page-1)*limit)
}

func (s *UserServiceImpl) UpdateRoles(ctx context.Context, id string, roles []string) error {
	existing, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return errors.New("user not found")
	}

	if err := s.Repo.Update(ctx, id, bson.M{"roles": roles}); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "user", id, map[string]common_models.Change{
		"roles": {Old: existing.Roles, New: roles},
	})
	return nil
}

func (s *UserServiceImpl) SetStatus(ctx context.Context, id string, status string) error {
	if status != "active" && status != "inactive" && status != "suspended" {
		return errors.New("invalid status")
	}

	existing, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return errors.New("user not found")
	}

	if err := s.Repo.Update(ctx, id, bson.M{"status": status}); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "user", id, map[string]common_models.Change{
		"status": {Old: existing.Status, New: status},
	})
	return nil
}
