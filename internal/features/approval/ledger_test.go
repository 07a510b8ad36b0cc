package approval

import (
	"errors"
	"fmt"
	"testing"
	"time"

	common_models "go-custody/internal/common/models"
	"go-custody/internal/features/transaction"
)

func twoOfManagerAdmin() common_models.RuleSnapshot {
	return common_models.RuleSnapshot{
		WorkflowName:      "High value",
		Condition:         "amount > 10000",
		RequiredApprovals: 2,
		ApproverRoles:     []string{"manager", "admin"},
	}
}

func action(userID, role string, decision common_models.Decision) common_models.ApprovalAction {
	return common_models.ApprovalAction{
		UserID:    userID,
		UserName:  userID,
		Role:      role,
		Decision:  decision,
		Timestamp: time.Now(),
	}
}

func TestThresholdTransitions(t *testing.T) {
	for _, required := range []int{1, 2, 3, 5} {
		t.Run(fmt.Sprintf("required=%d", required), func(t *testing.T) {
			rule := twoOfManagerAdmin()
			rule.RequiredApprovals = required

			ledger := NewLedger(rule, nil, false)
			for i := 0; i < required-1; i++ {
				if err := ledger.Record(action(fmt.Sprintf("user-%d", i), "manager", common_models.DecisionApproved)); err != nil {
					t.Fatalf("Record() error = %v", err)
				}
			}
			if got := NextStatus(ledger); got != transaction.StatusPending {
				t.Fatalf("after %d of %d approvals status = %s, want pending", required-1, required, got)
			}

			if err := ledger.Record(action("last-user", "admin", common_models.DecisionApproved)); err != nil {
				t.Fatalf("Record() error = %v", err)
			}
			if got := NextStatus(ledger); got != transaction.StatusApproved {
				t.Fatalf("after %d of %d approvals status = %s, want approved", required, required, got)
			}
		})
	}
}

func TestRejectionVetoes(t *testing.T) {
	ledger := NewLedger(twoOfManagerAdmin(), nil, false)

	if err := ledger.Record(action("alice", "manager", common_models.DecisionApproved)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := ledger.Record(action("bob", "admin", common_models.DecisionRejected)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if got := NextStatus(ledger); got != transaction.StatusRejected {
		t.Fatalf("status = %s, want rejected", got)
	}

	// Once terminal, nothing further can be recorded.
	closed := NewLedger(ledger.Rule, ledger.Actions, true)
	err := closed.Record(action("carol", "admin", common_models.DecisionApproved))
	if !errors.Is(err, ErrTransactionClosed) {
		t.Fatalf("Record() on closed ledger error = %v, want ErrTransactionClosed", err)
	}
}

func TestDuplicateApprover(t *testing.T) {
	for _, first := range []common_models.Decision{common_models.DecisionApproved, common_models.DecisionRejected} {
		t.Run(string(first), func(t *testing.T) {
			ledger := NewLedger(twoOfManagerAdmin(), nil, false)
			if err := ledger.Record(action("alice", "manager", first)); err != nil {
				t.Fatalf("Record() error = %v", err)
			}

			err := ledger.Record(action("alice", "manager", common_models.DecisionApproved))
			if !errors.Is(err, ErrDuplicateApprover) {
				t.Fatalf("second Record() error = %v, want ErrDuplicateApprover", err)
			}
			if len(ledger.Actions) != 1 {
				t.Errorf("ledger has %d actions, want 1", len(ledger.Actions))
			}
		})
	}
}

func TestClosedPrecedesDuplicate(t *testing.T) {
	// A rejecting user who resubmits after their own veto closed the
	// transaction gets the closed error, not the duplicate one.
	ledger := NewLedger(twoOfManagerAdmin(), nil, false)
	if err := ledger.Record(action("bob", "admin", common_models.DecisionRejected)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	closed := NewLedger(ledger.Rule, ledger.Actions, true)
	err := closed.Record(action("bob", "admin", common_models.DecisionApproved))
	if !errors.Is(err, ErrTransactionClosed) {
		t.Fatalf("Record() error = %v, want ErrTransactionClosed", err)
	}
	if len(closed.Actions) != 1 {
		t.Errorf("ledger has %d actions, want 1", len(closed.Actions))
	}
}

func TestUnauthorizedApprover(t *testing.T) {
	ledger := NewLedger(twoOfManagerAdmin(), nil, false)

	err := ledger.Record(action("eve", "viewer", common_models.DecisionApproved))
	if !errors.Is(err, ErrUnauthorizedApprover) {
		t.Fatalf("Record() error = %v, want ErrUnauthorizedApprover", err)
	}
	if len(ledger.Actions) != 0 {
		t.Errorf("ledger has %d actions, want 0", len(ledger.Actions))
	}
	if got := NextStatus(ledger); got != transaction.StatusPending {
		t.Errorf("status = %s, want pending", got)
	}
}

func TestCurrentApprovalsIgnoresRejections(t *testing.T) {
	ledger := NewLedger(twoOfManagerAdmin(), []common_models.ApprovalAction{
		action("alice", "manager", common_models.DecisionApproved),
		action("bob", "admin", common_models.DecisionRejected),
	}, false)

	if got := ledger.CurrentApprovals(); got != 1 {
		t.Errorf("CurrentApprovals() = %d, want 1", got)
	}
	if !ledger.HasRejection() {
		t.Error("HasRejection() = false, want true")
	}
}

func TestHighValueScenario(t *testing.T) {
	// $15,000 transaction under `amount > 10000 → 2 of {manager,admin}`:
	// approvals from two distinct eligible roles approve it.
	ledger := NewLedger(twoOfManagerAdmin(), nil, false)

	if err := ledger.Record(action("dana", "admin", common_models.DecisionApproved)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if got := NextStatus(ledger); got != transaction.StatusPending {
		t.Fatalf("after one approval status = %s, want pending", got)
	}

	if err := ledger.Record(action("mike", "manager", common_models.DecisionApproved)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if got := NextStatus(ledger); got != transaction.StatusApproved {
		t.Fatalf("after two approvals status = %s, want approved", got)
	}
}

func TestDefaultPolicyScenario(t *testing.T) {
	// A transaction under the fallback policy needs one approval from
	// any fallback role.
	rule := common_models.RuleSnapshot{
		WorkflowName:      DefaultPolicyName,
		RequiredApprovals: 1,
		ApproverRoles:     []string{"manager", "admin", "operator"},
		Default:           true,
	}
	ledger := NewLedger(rule, nil, false)

	if err := ledger.Record(action("olly", "operator", common_models.DecisionApproved)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if got := NextStatus(ledger); got != transaction.StatusApproved {
		t.Fatalf("status = %s, want approved", got)
	}
}
