package settings

import "time"

const (
	TypeApproval = "approval"
	TypeGeneral  = "general"
)

// PolicyModeFirstMatch is the only resolver policy currently implemented;
// stored explicitly so alternatives (union, max) can be added without a
// schema change.
const PolicyModeFirstMatch = "first_match"

// ApprovalConfig controls the fallback behaviour of the workflow resolver.
type ApprovalConfig struct {
	// DefaultApproverRole, when set, is the single role allowed to satisfy
	// the default policy. Empty means any role holding the approval
	// permission.
	DefaultApproverRole string `bson:"default_approver_role" json:"default_approver_role"`
	PolicyMode          string `bson:"policy_mode" json:"policy_mode"`
	StalePendingHours   int    `bson:"stale_pending_hours" json:"stale_pending_hours"`
}

type GeneralConfig struct {
	PlatformName    string `bson:"platform_name" json:"platform_name"`
	BaseCurrency    string `bson:"base_currency" json:"base_currency"`
	SessionTimeoutM int    `bson:"session_timeout_minutes" json:"session_timeout_minutes"`
}

// Document is the stored shape: one document per settings type.
type Document struct {
	Type      string          `bson:"_id" json:"type"`
	Approval  *ApprovalConfig `bson:"approval,omitempty" json:"approval,omitempty"`
	General   *GeneralConfig  `bson:"general,omitempty" json:"general,omitempty"`
	UpdatedAt time.Time       `bson:"updated_at" json:"updated_at"`
	UpdatedBy string          `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
}
