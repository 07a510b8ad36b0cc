package approval

import (
	"errors"
	"slices"

	common_models "go-custody/internal/common/models"
)

var (
	ErrDuplicateApprover    = errors.New("user has already acted on this transaction")
	ErrUnauthorizedApprover = errors.New("user role is not eligible to approve this transaction")
	ErrTransactionClosed    = errors.New("transaction is no longer pending")
)

// Ledger is the approval state of one transaction: the frozen governing
// rule plus the ordered list of recorded actions. It is rebuilt from the
// transaction document on every submission; all invariants are enforced
// here, not in the storage layer.
type Ledger struct {
	Rule     common_models.RuleSnapshot
	Actions  []common_models.ApprovalAction
	Terminal bool
}

func NewLedger(rule common_models.RuleSnapshot, actions []common_models.ApprovalAction, terminal bool) *Ledger {
	return &Ledger{Rule: rule, Actions: actions, Terminal: terminal}
}

// Record appends an action after checking the ledger invariants: the
// transaction is still open, the user has not acted before, and the
// user's role is in the governing rule's approver set. The open check
// runs first, so a user resubmitting after the transaction closed gets
// ErrTransactionClosed even if their earlier action would also make
// them a duplicate.
func (l *Ledger) Record(action common_models.ApprovalAction) error {
	if l.Terminal {
		return ErrTransactionClosed
	}
	for _, a := range l.Actions {
		if a.UserID == action.UserID {
			return ErrDuplicateApprover
		}
	}
	if !slices.Contains(l.Rule.ApproverRoles, action.Role) {
		return ErrUnauthorizedApprover
	}
	l.Actions = append(l.Actions, action)
	return nil
}

// CurrentApprovals counts approvals from roles in the governing rule's
// approver set. Record guarantees distinct users.
func (l *Ledger) CurrentApprovals() int {
	count := 0
	for _, a := range l.Actions {
		if a.Decision == common_models.DecisionApproved && slices.Contains(l.Rule.ApproverRoles, a.Role) {
			count++
		}
	}
	return count
}

func (l *Ledger) HasRejection() bool {
	for _, a := range l.Actions {
		if a.Decision == common_models.DecisionRejected {
			return true
		}
	}
	return false
}
