package role

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Permission codes follow "resource:action", e.g. "workflows:create".
const (
	PermWorkflowsCreate = "workflows:create"
	PermWorkflowsRead   = "workflows:read"
	PermWorkflowsUpdate = "workflows:update"
	PermWorkflowsDelete = "workflows:delete"

	PermTransactionsCreate = "transactions:create"
	PermTransactionsRead   = "transactions:read"
	PermTransactionsSettle = "transactions:settle"

	PermApprovalsAct = "approvals:act"

	PermWalletsManage = "wallets:manage"
	PermWalletsRead   = "wallets:read"

	PermUsersManage    = "users:manage"
	PermAuditRead      = "audit:read"
	PermSettingsManage = "settings:manage"
	PermReportsExport  = "reports:export"
	PermSettlementRun  = "settlement:run"
	PermAutomationEdit = "automation:edit"
)

// Role represents a user role with permission codes
type Role struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Permissions []string           `json:"permissions" bson:"permissions"`
	IsSystem    bool               `json:"is_system" bson:"is_system"` // Prevent deletion of system roles
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}
