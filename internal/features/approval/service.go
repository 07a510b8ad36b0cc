package approval

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	common_models "go-custody/internal/common/models"
	"go-custody/internal/features/audit"
	"go-custody/internal/features/transaction"
	"go-custody/pkg/utils"
)

// DecisionNotifier delivers in-app notifications for approval events.
type DecisionNotifier interface {
	NotifyDecision(ctx context.Context, tx *transaction.Transaction, action common_models.ApprovalAction, newStatus transaction.Status)
}

// EventBroadcaster pushes approval events to connected dashboard clients.
type EventBroadcaster interface {
	Broadcast(payload common_models.WebhookPayload)
}

// AutomationRunner fires automation rules when a transaction goes terminal.
type AutomationRunner interface {
	ExecuteForTransaction(ctx context.Context, tx *transaction.Transaction)
}

// LedgerView is the read model returned to the dashboard.
type LedgerView struct {
	TransactionID     string                         `json:"transaction_id"`
	Status            transaction.Status             `json:"status"`
	CurrentApprovals  int                            `json:"current_approvals"`
	RequiredApprovals int                            `json:"required_approvals"`
	Rule              common_models.RuleSnapshot     `json:"rule"`
	Actions           []common_models.ApprovalAction `json:"actions"`
}

type ApprovalService interface {
	// SubmitApproval records one approver's decision and returns the
	// transaction's new status.
	SubmitApproval(ctx context.Context, txID string, decision common_models.Decision, comment string) (transaction.Status, error)

	GetLedger(ctx context.Context, txID string) (*LedgerView, error)
}

type ApprovalServiceImpl struct {
	TransactionRepo transaction.TransactionRepository
	AuditService    audit.AuditService
	Notifier        DecisionNotifier
	Broadcaster     EventBroadcaster
	Automation      AutomationRunner
	Logger          *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewApprovalService(
	transactionRepo transaction.TransactionRepository,
	auditService audit.AuditService,
	notifier DecisionNotifier,
	broadcaster EventBroadcaster,
	automation AutomationRunner,
	logger *zap.Logger,
) ApprovalService {
	return &ApprovalServiceImpl{
		TransactionRepo: transactionRepo,
		AuditService:    auditService,
		Notifier:        notifier,
		Broadcaster:     broadcaster,
		Automation:      automation,
		Logger:          logger,
		locks:           map[string]*sync.Mutex{},
	}
}

// lockFor serializes submissions per transaction id. Without this, two
// concurrent submissions could both read currentApprovals == required-1
// and both trigger the approved transition.
func (s *ApprovalServiceImpl) lockFor(txID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[txID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[txID] = l
	}
	return l
}

func (s *ApprovalServiceImpl) SubmitApproval(ctx context.Context, txID string, decision common_models.Decision, comment string) (transaction.Status, error) {
	objID, err := primitive.ObjectIDFromHex(txID)
	if err != nil {
		return "", transaction.ErrNotFound
	}

	claims, _ := ctx.Value(utils.UserClaimsKey).(*utils.UserClaims)
	if claims == nil {
		return "", ErrUnauthorizedApprover
	}

	lock := s.lockFor(txID)
	lock.Lock()
	defer lock.Unlock()

	tx, err := s.TransactionRepo.FindByID(ctx, objID)
	if err != nil {
		return "", err
	}

	action := common_models.ApprovalAction{
		ID:        uuid.NewString(),
		UserID:    claims.UserID,
		UserName:  claims.Username,
		Role:      eligibleRole(claims.Roles, tx.Governing.ApproverRoles),
		Decision:  decision,
		Comment:   comment,
		Timestamp: time.Now(),
	}

	ledger := NewLedger(tx.Governing, tx.Approvals, tx.Status.Terminal())
	if err := ledger.Record(action); err != nil {
		return "", err
	}

	newStatus := NextStatus(ledger)
	if err := s.TransactionRepo.AppendAction(ctx, objID, action, newStatus); err != nil {
		return "", err
	}
	tx.Approvals = ledger.Actions
	tx.Status = newStatus

	if newStatus.Terminal() {
		s.mu.Lock()
		delete(s.locks, txID)
		s.mu.Unlock()
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionApproval, "transaction", txID, map[string]common_models.Change{
		"decision": {New: decision},
		"status":   {Old: transaction.StatusPending, New: newStatus},
	})

	s.Logger.Info("approval recorded",
		zap.String("transaction_id", txID),
		zap.String("decision", string(decision)),
		zap.String("status", string(newStatus)),
		zap.String("func", "ApprovalService.SubmitApproval"),
	)

	if s.Notifier != nil {
		s.Notifier.NotifyDecision(ctx, tx, action, newStatus)
	}
	if s.Broadcaster != nil {
		s.Broadcaster.Broadcast(common_models.WebhookPayload{
			Event:     "approval." + string(decision),
			RecordID:  txID,
			Data:      action,
			Timestamp: action.Timestamp,
			Extra:     map[string]any{"status": newStatus},
		})
	}
	if newStatus.Terminal() && s.Automation != nil {
		// Fiber recycles the request context once the handler returns, so
		// the goroutine gets a fresh context carrying only the claims.
		detached := context.WithValue(context.Background(), utils.UserClaimsKey, claims)
		go s.Automation.ExecuteForTransaction(detached, tx)
	}

	return newStatus, nil
}

// eligibleRole returns the first of the user's roles that appears in the
// rule's approver set, or the user's first role when none match so the
// ledger reports UnauthorizedApprover with the role it saw.
func eligibleRole(userRoles, approverRoles []string) string {
	for _, r := range userRoles {
		if slices.Contains(approverRoles, r) {
			return r
		}
	}
	if len(userRoles) > 0 {
		return userRoles[0]
	}
	return ""
}

func (s *ApprovalServiceImpl) GetLedger(ctx context.Context, txID string) (*LedgerView, error) {
	objID, err := primitive.ObjectIDFromHex(txID)
	if err != nil {
		return nil, transaction.ErrNotFound
	}
	tx, err := s.TransactionRepo.FindByID(ctx, objID)
	if err != nil {
		return nil, err
	}

	ledger := NewLedger(tx.Governing, tx.Approvals, tx.Status.Terminal())
	return &LedgerView{
		TransactionID:     txID,
		Status:            tx.Status,
		CurrentApprovals:  ledger.CurrentApprovals(),
		RequiredApprovals: tx.Governing.RequiredApprovals,
		Rule:              tx.Governing,
		Actions:           tx.Approvals,
	}, nil
}
