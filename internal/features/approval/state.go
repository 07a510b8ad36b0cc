package approval

import (
	"go-custody/internal/features/transaction"
)

// NextStatus derives a pending transaction's status from its ledger.
// A single rejection vetoes regardless of prior approvals; otherwise the
// transaction approves once the distinct-approver count reaches the
// governing rule's threshold. completed and failed are settlement
// transitions and never produced here.
func NextStatus(l *Ledger) transaction.Status {
	if l.HasRejection() {
		return transaction.StatusRejected
	}
	if l.CurrentApprovals() >= l.Rule.RequiredApprovals {
		return transaction.StatusApproved
	}
	return transaction.StatusPending
}
