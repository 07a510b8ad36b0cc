package approval

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	common_models "go-custody/internal/common/models"
	"go-custody/internal/features/transaction"
	"go-custody/pkg/condition"
	"go-custody/pkg/utils"
)

type memTransactionRepo struct {
	mu  sync.Mutex
	txs map[primitive.ObjectID]*transaction.Transaction
}

func newMemTransactionRepo() *memTransactionRepo {
	return &memTransactionRepo{txs: map[primitive.ObjectID]*transaction.Transaction{}}
}

func (r *memTransactionRepo) Create(ctx context.Context, tx *transaction.Transaction) (*transaction.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx.ID = primitive.NewObjectID()
	tx.CreatedAt = time.Now()
	cp := *tx
	r.txs[tx.ID] = &cp
	return tx, nil
}

func (r *memTransactionRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*transaction.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[id]
	if !ok {
		return nil, transaction.ErrNotFound
	}
	cp := *tx
	return &cp, nil
}

func (r *memTransactionRepo) List(ctx context.Context, filter transaction.ListFilter) ([]transaction.Transaction, error) {
	return nil, nil
}

func (r *memTransactionRepo) AppendAction(ctx context.Context, id primitive.ObjectID, action interface{}, status transaction.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[id]
	if !ok {
		return transaction.ErrNotFound
	}
	tx.Approvals = append(tx.Approvals, action.(common_models.ApprovalAction))
	tx.Status = status
	tx.UpdatedAt = time.Now()
	return nil
}

func (r *memTransactionRepo) SetStatus(ctx context.Context, id primitive.ObjectID, status transaction.Status, settledAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[id]
	if !ok {
		return transaction.ErrNotFound
	}
	tx.Status = status
	tx.SettledAt = settledAt
	return nil
}

func (r *memTransactionRepo) MarkExported(ctx context.Context, ids []primitive.ObjectID) error {
	return nil
}

func (r *memTransactionRepo) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]transaction.Transaction, error) {
	return nil, nil
}

func (r *memTransactionRepo) ListUnexportedTerminal(ctx context.Context) ([]transaction.Transaction, error) {
	return nil, nil
}

type nopAudit struct{}

func (nopAudit) LogChange(ctx context.Context, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) error {
	return nil
}

func (nopAudit) ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]common_models.AuditLog, error) {
	return nil, nil
}

type captureAutomation struct {
	mu     sync.Mutex
	claims *utils.UserClaims
	done   chan struct{}
}

func (c *captureAutomation) ExecuteForTransaction(ctx context.Context, tx *transaction.Transaction) {
	claims, _ := ctx.Value(utils.UserClaimsKey).(*utils.UserClaims)
	c.mu.Lock()
	c.claims = claims
	c.mu.Unlock()
	close(c.done)
}

func claimsContext(userID, role string) context.Context {
	return context.WithValue(context.Background(), utils.UserClaimsKey, &utils.UserClaims{
		UserID:   userID,
		Username: userID,
		Roles:    []string{role},
	})
}

func seedTransaction(t *testing.T, repo *memTransactionRepo, rule common_models.RuleSnapshot) primitive.ObjectID {
	t.Helper()
	tx, err := repo.Create(context.Background(), &transaction.Transaction{
		WalletID:  "wallet-1",
		Amount:    15000,
		Currency:  "BTC",
		Status:    transaction.StatusPending,
		Governing: rule,
		Approvals: []common_models.ApprovalAction{},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return tx.ID
}

func TestSubmitApprovalUsesFrozenRule(t *testing.T) {
	workflows := testWorkflows()
	rule, matched, err := resolveFromWorkflows(workflows, condition.Input{Amount: 15000, Currency: "BTC"})
	if err != nil || !matched {
		t.Fatalf("resolveFromWorkflows() = %v, matched %v", err, matched)
	}
	if rule.RequiredApprovals != 2 {
		t.Fatalf("RequiredApprovals = %d, want 2", rule.RequiredApprovals)
	}

	repo := newMemTransactionRepo()
	txID := seedTransaction(t, repo, rule)
	svc := NewApprovalService(repo, nopAudit{}, nil, nil, nil, zap.NewNop())

	// Deactivating and loosening the workflow after resolution must not
	// change what the stored transaction requires.
	workflows[0].Active = false
	workflows[0].Rules[1].RequiredApprovals = 1

	status, err := svc.SubmitApproval(claimsContext("alice", "manager"), txID.Hex(), common_models.DecisionApproved, "")
	if err != nil {
		t.Fatalf("SubmitApproval() error = %v", err)
	}
	if status != transaction.StatusPending {
		t.Fatalf("after one approval status = %s, want pending", status)
	}

	stored, err := repo.FindByID(context.Background(), txID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if stored.Governing.RequiredApprovals != 2 {
		t.Errorf("stored RequiredApprovals = %d, want 2", stored.Governing.RequiredApprovals)
	}

	status, err = svc.SubmitApproval(claimsContext("dana", "admin"), txID.Hex(), common_models.DecisionApproved, "")
	if err != nil {
		t.Fatalf("SubmitApproval() error = %v", err)
	}
	if status != transaction.StatusApproved {
		t.Fatalf("after two approvals status = %s, want approved", status)
	}
}

func TestSubmitApprovalRejectsDuplicateAndClosed(t *testing.T) {
	repo := newMemTransactionRepo()
	txID := seedTransaction(t, repo, twoOfManagerAdmin())
	svc := NewApprovalService(repo, nopAudit{}, nil, nil, nil, zap.NewNop())

	if _, err := svc.SubmitApproval(claimsContext("alice", "manager"), txID.Hex(), common_models.DecisionApproved, ""); err != nil {
		t.Fatalf("SubmitApproval() error = %v", err)
	}
	if _, err := svc.SubmitApproval(claimsContext("alice", "manager"), txID.Hex(), common_models.DecisionApproved, ""); !errors.Is(err, ErrDuplicateApprover) {
		t.Fatalf("second submission error = %v, want ErrDuplicateApprover", err)
	}

	if _, err := svc.SubmitApproval(claimsContext("bob", "admin"), txID.Hex(), common_models.DecisionRejected, "too large"); err != nil {
		t.Fatalf("SubmitApproval() error = %v", err)
	}
	if _, err := svc.SubmitApproval(claimsContext("carol", "admin"), txID.Hex(), common_models.DecisionApproved, ""); !errors.Is(err, ErrTransactionClosed) {
		t.Fatalf("submission after rejection error = %v, want ErrTransactionClosed", err)
	}

	stored, err := repo.FindByID(context.Background(), txID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if stored.Status != transaction.StatusRejected {
		t.Errorf("status = %s, want rejected", stored.Status)
	}
	if len(stored.Approvals) != 2 {
		t.Errorf("stored %d actions, want 2", len(stored.Approvals))
	}
}

func TestSubmitApprovalDetachesAutomationContext(t *testing.T) {
	rule := twoOfManagerAdmin()
	rule.RequiredApprovals = 1

	repo := newMemTransactionRepo()
	txID := seedTransaction(t, repo, rule)
	auto := &captureAutomation{done: make(chan struct{})}
	svc := NewApprovalService(repo, nopAudit{}, nil, nil, auto, zap.NewNop())

	reqCtx, cancel := context.WithCancel(claimsContext("alice", "manager"))
	status, err := svc.SubmitApproval(reqCtx, txID.Hex(), common_models.DecisionApproved, "")
	if err != nil {
		t.Fatalf("SubmitApproval() error = %v", err)
	}
	if status != transaction.StatusApproved {
		t.Fatalf("status = %s, want approved", status)
	}
	cancel()

	select {
	case <-auto.done:
	case <-time.After(2 * time.Second):
		t.Fatal("automation was not invoked")
	}

	auto.mu.Lock()
	defer auto.mu.Unlock()
	if auto.claims == nil || auto.claims.UserID != "alice" {
		t.Fatalf("automation claims = %+v, want alice", auto.claims)
	}
}

func TestSubmitApprovalEvictsLockOnTerminal(t *testing.T) {
	rule := twoOfManagerAdmin()
	rule.RequiredApprovals = 1

	repo := newMemTransactionRepo()
	txID := seedTransaction(t, repo, rule)
	svc := NewApprovalService(repo, nopAudit{}, nil, nil, nil, zap.NewNop()).(*ApprovalServiceImpl)

	if _, err := svc.SubmitApproval(claimsContext("alice", "manager"), txID.Hex(), common_models.DecisionApproved, ""); err != nil {
		t.Fatalf("SubmitApproval() error = %v", err)
	}

	svc.mu.Lock()
	_, held := svc.locks[txID.Hex()]
	svc.mu.Unlock()
	if held {
		t.Error("lock entry still present after terminal decision")
	}
}
