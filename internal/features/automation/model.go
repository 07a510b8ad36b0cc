package automation

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ActionType string

const (
	ActionWebhook   ActionType = "webhook"
	ActionRunScript ActionType = "run_script"
	ActionNotify    ActionType = "notify_roles"
)

// RuleAction is one action fired when a rule triggers. Config keys depend
// on Type: webhook takes url/method/headers, run_script takes
// script_content, notify_roles takes roles/title/message.
type RuleAction struct {
	Type   ActionType             `bson:"type" json:"type"`
	Config map[string]interface{} `bson:"config" json:"config"`
}

// AutomationRule fires its actions when a transaction reaches the trigger
// status. Rules never mutate transaction state.
type AutomationRule struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	TriggerStatus string             `bson:"trigger_status" json:"trigger_status"` // approved, rejected, completed, failed
	Actions       []RuleAction       `bson:"actions" json:"actions"`
	Active        bool               `bson:"active" json:"active"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}
