package workflow

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	common_models "go-custody/internal/common/models"
	"go-custody/internal/features/audit"
)

type WorkflowService interface {
	CreateWorkflow(ctx context.Context, w *ApprovalWorkflow) (*ApprovalWorkflow, error)
	GetWorkflow(ctx context.Context, id string) (*ApprovalWorkflow, error)
	ListWorkflows(ctx context.Context) ([]ApprovalWorkflow, error)

	// ListActiveWorkflows returns active workflows in resolution order.
	ListActiveWorkflows(ctx context.Context) ([]ApprovalWorkflow, error)

	UpdateWorkflow(ctx context.Context, id string, w *ApprovalWorkflow) error
	ToggleWorkflow(ctx context.Context, id string, active bool) error
	DeleteWorkflow(ctx context.Context, id string) error
}

type WorkflowServiceImpl struct {
	WorkflowRepo WorkflowRepository
	AuditService audit.AuditService
}

func NewWorkflowService(workflowRepo WorkflowRepository, auditService audit.AuditService) WorkflowService {
	return &WorkflowServiceImpl{
		WorkflowRepo: workflowRepo,
		AuditService: auditService,
	}
}

func (s *WorkflowServiceImpl) CreateWorkflow(ctx context.Context, w *ApprovalWorkflow) (*ApprovalWorkflow, error) {
	if err := ValidateWorkflow(w); err != nil {
		return nil, err
	}

	created, err := s.WorkflowRepo.Create(ctx, w)
	if err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionWorkflow, "workflow", created.ID.Hex(), map[string]common_models.Change{
		"name":  {New: created.Name},
		"rules": {New: len(created.Rules)},
	})
	return created, nil
}

func (s *WorkflowServiceImpl) GetWorkflow(ctx context.Context, id string) (*ApprovalWorkflow, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.WorkflowRepo.FindByID(ctx, objID)
}

func (s *WorkflowServiceImpl) ListWorkflows(ctx context.Context) ([]ApprovalWorkflow, error) {
	return s.WorkflowRepo.List(ctx)
}

func (s *WorkflowServiceImpl) ListActiveWorkflows(ctx context.Context) ([]ApprovalWorkflow, error) {
	return s.WorkflowRepo.ListActive(ctx)
}

func (s *WorkflowServiceImpl) UpdateWorkflow(ctx context.Context, id string, w *ApprovalWorkflow) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	if err := ValidateWorkflow(w); err != nil {
		return err
	}

	existing, err := s.WorkflowRepo.FindByID(ctx, objID)
	if err != nil {
		return err
	}

	if err := s.WorkflowRepo.Update(ctx, objID, w); err != nil {
		return err
	}

	// Already-resolved transactions keep their frozen snapshot; this
	// only affects resolution of transactions created from now on.
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionWorkflow, "workflow", id, map[string]common_models.Change{
		"name":  {Old: existing.Name, New: w.Name},
		"rules": {Old: len(existing.Rules), New: len(w.Rules)},
	})
	return nil
}

func (s *WorkflowServiceImpl) ToggleWorkflow(ctx context.Context, id string, active bool) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	existing, err := s.WorkflowRepo.FindByID(ctx, objID)
	if err != nil {
		return err
	}
	if existing.Active == active {
		return nil
	}

	// Re-validate on activation so a workflow whose rules were written
	// before a grammar change can never become resolvable while broken.
	if active {
		if err := ValidateWorkflow(existing); err != nil {
			return err
		}
	}

	if err := s.WorkflowRepo.SetActive(ctx, objID, active); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionWorkflow, "workflow", id, map[string]common_models.Change{
		"active": {Old: existing.Active, New: active},
	})
	return nil
}

func (s *WorkflowServiceImpl) DeleteWorkflow(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	existing, err := s.WorkflowRepo.FindByID(ctx, objID)
	if err != nil {
		return err
	}
	if existing.Active {
		return errors.New("deactivate the workflow before deleting it")
	}

	if err := s.WorkflowRepo.Delete(ctx, objID); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionDelete, "workflow", id, map[string]common_models.Change{
		"name": {Old: existing.Name},
	})
	return nil
}
