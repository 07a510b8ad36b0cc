package transaction

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	common_models "go-custody/internal/common/models"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether no further approval actions may be recorded.
func (s Status) Terminal() bool {
	return s != StatusPending
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Transaction is a transfer request under approval control.
// The governing rule and the approval ledger live on the document so a
// single findOneAndUpdate covers action + status in one write.
type Transaction struct {
	ID            primitive.ObjectID             `bson:"_id,omitempty" json:"id"`
	WalletID      string                         `bson:"wallet_id" json:"wallet_id"`
	Amount        float64                        `bson:"amount" json:"amount"`
	Currency      string                         `bson:"currency" json:"currency"`
	UsdValue      float64                        `bson:"usd_value" json:"usd_value"`
	Priority      Priority                       `bson:"priority" json:"priority"`
	Status        Status                         `bson:"status" json:"status"`
	Description   string                         `bson:"description,omitempty" json:"description,omitempty"`
	Destination   string                         `bson:"destination,omitempty" json:"destination,omitempty"`
	CreatedBy     string                         `bson:"created_by" json:"created_by"`
	CreatedByName string                         `bson:"created_by_name" json:"created_by_name"`
	CreatedByRole string                         `bson:"created_by_role" json:"created_by_role"`
	Governing     common_models.RuleSnapshot     `bson:"governing_rule" json:"governing_rule"`
	Approvals     []common_models.ApprovalAction `bson:"approvals" json:"approvals"`
	SettledAt     *time.Time                     `bson:"settled_at,omitempty" json:"settled_at,omitempty"`
	Exported      bool                           `bson:"exported" json:"exported"`
	CreatedAt     time.Time                      `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time                      `bson:"updated_at" json:"updated_at"`
}
