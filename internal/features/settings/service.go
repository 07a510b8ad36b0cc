package settings

import (
	"context"
	"errors"
	"fmt"

	common_models "go-custody/internal/common/models"
	"go-custody/internal/features/audit"
	"go-custody/internal/features/role"
	"go-custody/pkg/utils"
)

type SettingsService interface {
	GetApprovalConfig(ctx context.Context) (*ApprovalConfig, error)
	UpdateApprovalConfig(ctx context.Context, cfg *ApprovalConfig) error
	GetGeneralConfig(ctx context.Context) (*GeneralConfig, error)
	UpdateGeneralConfig(ctx context.Context, cfg *GeneralConfig) error

	// DefaultApproverRoles feeds the resolver's fallback policy: the
	// configured default role if set, otherwise every role holding the
	// approval permission.
	DefaultApproverRoles(ctx context.Context) ([]string, error)
}

type SettingsServiceImpl struct {
	SettingsRepo SettingsRepository
	RoleService  role.RoleService
	AuditService audit.AuditService
}

func NewSettingsService(settingsRepo SettingsRepository, roleService role.RoleService, auditService audit.AuditService) SettingsService {
	return &SettingsServiceImpl{
		SettingsRepo: settingsRepo,
		RoleService:  roleService,
		AuditService: auditService,
	}
}

func (s *SettingsServiceImpl) GetApprovalConfig(ctx context.Context) (*ApprovalConfig, error) {
	doc, err := s.SettingsRepo.Get(ctx, TypeApproval)
	if err != nil {
		return nil, err
	}
	if doc == nil || doc.Approval == nil {
		return &ApprovalConfig{PolicyMode: PolicyModeFirstMatch, StalePendingHours: 24}, nil
	}
	return doc.Approval, nil
}

func (s *SettingsServiceImpl) UpdateApprovalConfig(ctx context.Context, cfg *ApprovalConfig) error {
	if cfg.PolicyMode == "" {
		cfg.PolicyMode = PolicyModeFirstMatch
	}
	if cfg.PolicyMode != PolicyModeFirstMatch {
		return fmt.Errorf("unsupported policy mode: %s", cfg.PolicyMode)
	}
	if cfg.StalePendingHours < 0 {
		return errors.New("stale_pending_hours cannot be negative")
	}
	if cfg.DefaultApproverRole != "" {
		r, err := s.RoleService.GetRoleByName(ctx, cfg.DefaultApproverRole)
		if err != nil {
			return err
		}
		if r == nil {
			return fmt.Errorf("unknown role: %s", cfg.DefaultApproverRole)
		}
	}

	if err := s.SettingsRepo.Upsert(ctx, &Document{Type: TypeApproval, Approval: cfg, UpdatedBy: actorID(ctx)}); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionSettings, "settings", TypeApproval, map[string]common_models.Change{
		"default_approver_role": {New: cfg.DefaultApproverRole},
		"policy_mode":           {New: cfg.PolicyMode},
	})
	return nil
}

func (s *SettingsServiceImpl) GetGeneralConfig(ctx context.Context) (*GeneralConfig, error) {
	doc, err := s.SettingsRepo.Get(ctx, TypeGeneral)
	if err != nil {
		return nil, err
	}
	if doc == nil || doc.General == nil {
		return &GeneralConfig{PlatformName: "Custody", BaseCurrency: "USD", SessionTimeoutM: 60}, nil
	}
	return doc.General, nil
}

func (s *SettingsServiceImpl) UpdateGeneralConfig(ctx context.Context, cfg *GeneralConfig) error {
	if err := s.SettingsRepo.Upsert(ctx, &Document{Type: TypeGeneral, General: cfg, UpdatedBy: actorID(ctx)}); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionSettings, "settings", TypeGeneral, map[string]common_models.Change{
		"platform_name": {New: cfg.PlatformName},
	})
	return nil
}

func (s *SettingsServiceImpl) DefaultApproverRoles(ctx context.Context) ([]string, error) {
	cfg, err := s.GetApprovalConfig(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.DefaultApproverRole != "" {
		return []string{cfg.DefaultApproverRole}, nil
	}
	return s.RoleService.RolesWithPermission(ctx, role.PermApprovalsAct)
}

func actorID(ctx context.Context) string {
	if claims, ok := ctx.Value(utils.UserClaimsKey).(*utils.UserClaims); ok && claims != nil {
		return claims.UserID
	}
	return ""
}
