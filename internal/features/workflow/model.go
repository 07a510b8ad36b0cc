package workflow

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ApprovalRule ties a condition to an approval requirement.
// Rules are evaluated in declared order; the first match governs.
type ApprovalRule struct {
	Condition         string   `bson:"condition" json:"condition"`
	RequiredApprovals int      `bson:"required_approvals" json:"required_approvals"`
	ApproverRoles     []string `bson:"approver_roles" json:"approver_roles"`
}

// ApprovalWorkflow is an ordered, named collection of rules.
type ApprovalWorkflow struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Priority    int                `bson:"priority" json:"priority"` // Lower resolves first
	Active      bool               `bson:"active" json:"active"`
	Rules       []ApprovalRule     `bson:"rules" json:"rules"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
