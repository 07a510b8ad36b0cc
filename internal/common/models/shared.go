package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditAction string

const (
	AuditActionCreate     AuditAction = "CREATE"
	AuditActionUpdate     AuditAction = "UPDATE"
	AuditActionDelete     AuditAction = "DELETE"
	AuditActionLogin      AuditAction = "LOGIN"
	AuditActionApproval   AuditAction = "APPROVAL"
	AuditActionWorkflow   AuditAction = "WORKFLOW"
	AuditActionSettlement AuditAction = "SETTLEMENT"
	AuditActionAutomation AuditAction = "AUTOMATION"
	AuditActionSettings   AuditAction = "SETTINGS"
	AuditActionReport     AuditAction = "REPORT"
	AuditActionScheduler  AuditAction = "SCHEDULER"
)

type Change struct {
	Old interface{} `bson:"old" json:"old"`
	New interface{} `bson:"new" json:"new"`
}

type AuditLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Action    AuditAction        `bson:"action" json:"action"`
	Module    string             `bson:"module" json:"module"`          // The feature/collection name
	RecordID  string             `bson:"record_id" json:"record_id"`    // The ID of the record being modified
	ActorID   string             `bson:"actor_id" json:"actor_id"`      // User ID who performed the action
	ActorName string             `bson:"-" json:"actor_name,omitempty"` // Populated Name of the actor
	Changes   map[string]Change  `bson:"changes,omitempty" json:"changes,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username  string             `bson:"username" json:"username"`
	Password  string             `bson:"password" json:"-"`
	Email     string             `bson:"email" json:"email"`
	FirstName string             `bson:"first_name,omitempty" json:"first_name,omitempty"`
	LastName  string             `bson:"last_name,omitempty" json:"last_name,omitempty"`
	Status    string             `bson:"status" json:"status"` // active, inactive, suspended
	Roles     []string           `bson:"roles" json:"roles"`   // Role names, e.g. ["manager"]
	LastLogin *time.Time         `bson:"last_login,omitempty" json:"last_login,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// DisplayName returns the best human-readable name for the user.
func (u *User) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}

type Log struct {
	Message      string    `bson:"message" json:"message"`
	Caller       string    `bson:"caller" json:"caller"`
	LogLevelId   int       `bson:"log_level_id" json:"log_level_id"`
	CreatedOnUtc time.Time `bson:"created_on_utc" json:"created_on_utc"`
}

type WebhookPayload struct {
	Event     string         `json:"event"`
	RecordID  string         `json:"record_id,omitempty"`
	Data      interface{}    `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
	Extra     map[string]any `json:"extra,omitempty"`
}

type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

// ApprovalAction is one approver's recorded decision on a transaction.
// Actions are append-only and never edited after the fact.
type ApprovalAction struct {
	ID        string    `bson:"id" json:"id"` // uuid
	UserID    string    `bson:"user_id" json:"user_id"`
	UserName  string    `bson:"user_name" json:"user_name"`
	Role      string    `bson:"role" json:"role"`
	Decision  Decision  `bson:"decision" json:"decision"`
	Comment   string    `bson:"comment,omitempty" json:"comment,omitempty"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// RuleSnapshot is the governing rule frozen on a transaction at creation time.
// Editing or deactivating workflows later never changes a transaction's requirements.
type RuleSnapshot struct {
	WorkflowID        string   `bson:"workflow_id" json:"workflow_id"` // empty when Default is true
	WorkflowName      string   `bson:"workflow_name" json:"workflow_name"`
	RuleIndex         int      `bson:"rule_index" json:"rule_index"`
	Condition         string   `bson:"condition" json:"condition"`
	RequiredApprovals int      `bson:"required_approvals" json:"required_approvals"`
	ApproverRoles     []string `bson:"approver_roles" json:"approver_roles"`
	Default           bool     `bson:"default" json:"default"` // fallback single-approval policy applied
}
