package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	common_models "go-custody/internal/common/models"
	"go-custody/internal/features/audit"
	"go-custody/internal/features/notification"
	"go-custody/internal/features/wallet"
	"go-custody/pkg/condition"
	"go-custody/pkg/utils"
)

// ApprovalResolver selects the governing rule for a new transaction.
// Implemented by the approval feature; wired as an adapter in cmd/api.
type ApprovalResolver interface {
	Resolve(ctx context.Context, in condition.Input) (common_models.RuleSnapshot, error)
}

type CreateInput struct {
	WalletID    string   `json:"wallet_id"`
	Amount      float64  `json:"amount"`
	UsdValue    float64  `json:"usd_value"`
	Priority    Priority `json:"priority"`
	Description string   `json:"description"`
	Destination string   `json:"destination"`
}

type TransactionService interface {
	CreateTransaction(ctx context.Context, input CreateInput) (*Transaction, error)
	GetTransaction(ctx context.Context, id string) (*Transaction, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]Transaction, error)

	// CompleteTransaction settles an approved transaction, debiting the wallet.
	CompleteTransaction(ctx context.Context, id string) error

	// FailTransaction marks an approved transaction as failed at settlement.
	FailTransaction(ctx context.Context, id string, reason string) error
}

type TransactionServiceImpl struct {
	TransactionRepo TransactionRepository
	WalletService   wallet.WalletService
	Resolver        ApprovalResolver
	AuditService    audit.AuditService
	Notifications   notification.NotificationService
}

func NewTransactionService(
	transactionRepo TransactionRepository,
	walletService wallet.WalletService,
	resolver ApprovalResolver,
	auditService audit.AuditService,
	notifications notification.NotificationService,
) TransactionService {
	return &TransactionServiceImpl{
		TransactionRepo: transactionRepo,
		WalletService:   walletService,
		Resolver:        resolver,
		AuditService:    auditService,
		Notifications:   notifications,
	}
}

func (s *TransactionServiceImpl) CreateTransaction(ctx context.Context, input CreateInput) (*Transaction, error) {
	if input.Amount <= 0 {
		return nil, errors.New("amount must be positive")
	}
	switch input.Priority {
	case "":
		input.Priority = PriorityMedium
	case PriorityLow, PriorityMedium, PriorityHigh:
	default:
		return nil, fmt.Errorf("invalid priority: %s", input.Priority)
	}

	w, err := s.WalletService.GetWallet(ctx, input.WalletID)
	if err != nil {
		return nil, err
	}
	if w.Balance < input.Amount {
		return nil, wallet.ErrInsufficientBalance
	}

	claims, _ := ctx.Value(utils.UserClaimsKey).(*utils.UserClaims)
	tx := &Transaction{
		WalletID:    input.WalletID,
		Amount:      input.Amount,
		Currency:    w.Asset,
		UsdValue:    input.UsdValue,
		Priority:    input.Priority,
		Status:      StatusPending,
		Description: input.Description,
		Destination: input.Destination,
	}
	if claims != nil {
		tx.CreatedBy = claims.UserID
		tx.CreatedByName = claims.Username
		// The first role in the claim is the creator's primary role;
		// created_by_role conditions evaluate against it alone.
		if len(claims.Roles) > 0 {
			tx.CreatedByRole = claims.Roles[0]
		}
	}

	// The governing rule is resolved once here and frozen for the
	// transaction's lifetime.
	snapshot, err := s.Resolver.Resolve(ctx, condition.Input{
		Amount:        tx.Amount,
		UsdValue:      tx.UsdValue,
		Currency:      tx.Currency,
		Priority:      string(tx.Priority),
		CreatedByRole: tx.CreatedByRole,
	})
	if err != nil {
		return nil, err
	}
	tx.Governing = snapshot

	created, err := s.TransactionRepo.Create(ctx, tx)
	if err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "transaction", created.ID.Hex(), map[string]common_models.Change{
		"amount":   {New: created.Amount},
		"currency": {New: created.Currency},
		"rule":     {New: snapshot.WorkflowName},
	})

	_ = s.Notifications.NotifyRoles(ctx, snapshot.ApproverRoles, notification.Input{
		Kind:     notification.KindApprovalRequested,
		Title:    "Approval required",
		Message:  fmt.Sprintf("%s transfer of %.2f %s awaits approval", created.Priority, created.Amount, created.Currency),
		RecordID: created.ID.Hex(),
	})
	return created, nil
}

func (s *TransactionServiceImpl) GetTransaction(ctx context.Context, id string) (*Transaction, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.TransactionRepo.FindByID(ctx, objID)
}

func (s *TransactionServiceImpl) ListTransactions(ctx context.Context, filter ListFilter) ([]Transaction, error) {
	return s.TransactionRepo.List(ctx, filter)
}

func (s *TransactionServiceImpl) CompleteTransaction(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	tx, err := s.TransactionRepo.FindByID(ctx, objID)
	if err != nil {
		return err
	}
	if tx.Status != StatusApproved {
		return fmt.Errorf("only approved transactions can be completed, status is %s", tx.Status)
	}

	if err := s.WalletService.Reserve(ctx, tx.WalletID, tx.Amount); err != nil {
		return err
	}

	now := time.Now()
	if err := s.TransactionRepo.SetStatus(ctx, objID, StatusCompleted, &now); err != nil {
		// Put the funds back; the transaction stays approved.
		_ = s.WalletService.Release(ctx, tx.WalletID, tx.Amount)
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionSettlement, "transaction", id, map[string]common_models.Change{
		"status": {Old: tx.Status, New: StatusCompleted},
	})
	return nil
}

func (s *TransactionServiceImpl) FailTransaction(ctx context.Context, id string, reason string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	tx, err := s.TransactionRepo.FindByID(ctx, objID)
	if err != nil {
		return err
	}
	if tx.Status != StatusApproved {
		return fmt.Errorf("only approved transactions can be failed, status is %s", tx.Status)
	}

	now := time.Now()
	if err := s.TransactionRepo.SetStatus(ctx, objID, StatusFailed, &now); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionSettlement, "transaction", id, map[string]common_models.Change{
		"status": {Old: tx.Status, New: StatusFailed},
		"reason": {New: reason},
	})
	return nil
}
