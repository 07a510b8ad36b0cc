package role

import (
	"context"
	"errors"
	"slices"
	"time"

	common_models "go-custody/internal/common/models"
	"go-custody/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RoleService interface {
	CreateRole(ctx context.Context, role *Role) (*Role, error)
	GetRoleByID(ctx context.Context, id string) (*Role, error)
	GetRoleByName(ctx context.Context, name string) (*Role, error)
	ListRoles(ctx context.Context) ([]Role, error)
	UpdateRole(ctx context.Context, id string, role *Role) error
	DeleteRole(ctx context.Context, id string) error

	// GetPermissionsForRoles returns the union of permission codes for role names
	GetPermissionsForRoles(ctx context.Context, roleNames []string) ([]string, error)

	// RolesWithPermission returns the names of roles carrying a permission code
	RolesWithPermission(ctx context.Context, permission string) ([]string, error)
}

type RoleServiceImpl struct {
	RoleRepo     RoleRepository
	AuditService audit.AuditService
}

func NewRoleService(roleRepo RoleRepository, auditService audit.AuditService) RoleService {
	return &RoleServiceImpl{
		RoleRepo:     roleRepo,
		AuditService: auditService,
	}
}

func (s *RoleServiceImpl) CreateRole(ctx context.Context, role *Role) (*Role, error) {
	if role.Name == "" {
		return nil, errors.New("role name is required")
	}
	existing, err := s.RoleRepo.FindByName(ctx, role.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("role already exists")
	}

	role.ID = primitive.NewObjectID()
	role.CreatedAt = time.Now()
	role.UpdatedAt = time.Now()

	if err := s.RoleRepo.Create(ctx, role); err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "role", role.ID.Hex(), map[string]common_models.Change{
		"name": {New: role.Name},
	})

	return role, nil
}

func (s *RoleServiceImpl) GetRoleByID(ctx context.Context, id string) (*Role, error) {
	return s.RoleRepo.FindByID(ctx, id)
}

func (s *RoleServiceImpl) GetRoleByName(ctx context.Context, name string) (*Role, error) {
	return s.RoleRepo.FindByName(ctx, name)
}

func (s *RoleServiceImpl) ListRoles(ctx context.Context) ([]Role, error) {
	return s.RoleRepo.List(ctx)
}

func (s *RoleServiceImpl) UpdateRole(ctx context.Context, id string, role *Role) error {
	existing, err := s.RoleRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return errors.New("role not found")
	}

	if err := s.RoleRepo.Update(ctx, id, role); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "role", id, map[string]common_models.Change{
		"permissions": {Old: existing.Permissions, New: role.Permissions},
	})
	return nil
}

func (s *RoleServiceImpl) DeleteRole(ctx context.Context, id string) error {
	existing, err := s.RoleRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return errors.New("role not found")
	}
	if existing.IsSystem {
		return errors.New("cannot delete a system role")
	}

	if err := s.RoleRepo.Delete(ctx, id); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionDelete, "role", id, map[string]common_models.Change{
		"name": {Old: existing.Name},
	})
	return nil
}

func (s *RoleServiceImpl) GetPermissionsForRoles(ctx context.Context, roleNames []string) ([]string, error) {
	if len(roleNames) == 0 {
		return nil, nil
	}
	roles, err := s.RoleRepo.FindByNames(ctx, roleNames)
	if err != nil {
		return nil, err
	}

	var permissions []string
	for _, r := range roles {
		for _, p := range r.Permissions {
			if !slices.Contains(permissions, p) {
				permissions = append(permissions, p)
			}
		}
	}
	return permissions, nil
}

func (s *RoleServiceImpl) RolesWithPermission(ctx context.Context, permission string) ([]string, error) {
	roles, err := s.RoleRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, r := range roles {
		if slices.Contains(r.Permissions, permission) {
			names = append(names, r.Name)
		}
	}
	return names, nil
}
