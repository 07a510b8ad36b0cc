package workflow

import (
	"errors"
	"fmt"
	"strings"

	"go-custody/pkg/condition"
)

var (
	ErrInvalidRule     = errors.New("invalid approval rule")
	ErrInvalidWorkflow = errors.New("invalid approval workflow")
)

// ValidateRule checks a rule's shape and compiles its condition.
// A rule that fails here must never be persisted.
func ValidateRule(index int, rule ApprovalRule) error {
	if rule.RequiredApprovals < 1 {
		return fmt.Errorf("%w: rule %d: required_approvals must be at least 1", ErrInvalidRule, index)
	}
	if len(rule.ApproverRoles) == 0 {
		return fmt.Errorf("%w: rule %d: approver_roles must not be empty", ErrInvalidRule, index)
	}
	for _, role := range rule.ApproverRoles {
		if strings.TrimSpace(role) == "" {
			return fmt.Errorf("%w: rule %d: empty approver role", ErrInvalidRule, index)
		}
	}
	if err := condition.Validate(rule.Condition); err != nil {
		return fmt.Errorf("%w: rule %d: %w", ErrInvalidRule, index, err)
	}
	return nil
}

// ValidateWorkflow checks the workflow shape and every rule in it.
func ValidateWorkflow(w *ApprovalWorkflow) error {
	if strings.TrimSpace(w.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidWorkflow)
	}
	if len(w.Rules) == 0 {
		return fmt.Errorf("%w: at least one rule is required", ErrInvalidWorkflow)
	}

	seen := map[string]int{}
	for i, rule := range w.Rules {
		if err := ValidateRule(i, rule); err != nil {
			return err
		}
		key := strings.Join(strings.Fields(rule.Condition), " ")
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("%w: rule %d duplicates the condition of rule %d", ErrInvalidWorkflow, i, prev)
		}
		seen[key] = i
	}
	return nil
}
