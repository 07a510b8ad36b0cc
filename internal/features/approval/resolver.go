package approval

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	common_models "go-custody/internal/common/models"
	"go-custody/internal/features/workflow"
	"go-custody/pkg/condition"
)

// DefaultPolicyName labels the snapshot applied when no rule matches.
const DefaultPolicyName = "default single-approval policy"

// FallbackRolesSource supplies the approver roles for the default policy.
// Implemented by the settings feature; wired in cmd/api.
type FallbackRolesSource interface {
	DefaultApproverRoles(ctx context.Context) ([]string, error)
}

// Resolver selects the governing rule for a transaction: active workflows
// in priority order, rules in declared order, first matching condition
// wins. The result is frozen on the transaction and never re-resolved.
type Resolver struct {
	WorkflowService workflow.WorkflowService
	Fallback        FallbackRolesSource
	Logger          *zap.Logger
}

func NewResolver(workflowService workflow.WorkflowService, fallback FallbackRolesSource, logger *zap.Logger) *Resolver {
	return &Resolver{
		WorkflowService: workflowService,
		Fallback:        fallback,
		Logger:          logger,
	}
}

func (r *Resolver) Resolve(ctx context.Context, in condition.Input) (common_models.RuleSnapshot, error) {
	workflows, err := r.WorkflowService.ListActiveWorkflows(ctx)
	if err != nil {
		return common_models.RuleSnapshot{}, err
	}

	snapshot, matched, err := resolveFromWorkflows(workflows, in)
	if err != nil {
		return common_models.RuleSnapshot{}, err
	}
	if matched {
		r.Logger.Debug("resolved governing rule",
			zap.String("workflow", snapshot.WorkflowName),
			zap.Int("rule_index", snapshot.RuleIndex),
			zap.String("func", "Resolver.Resolve"),
		)
		return snapshot, nil
	}

	roles, err := r.Fallback.DefaultApproverRoles(ctx)
	if err != nil {
		return common_models.RuleSnapshot{}, err
	}
	if len(roles) == 0 {
		return common_models.RuleSnapshot{}, fmt.Errorf("no workflow matched and no fallback approver roles are configured")
	}

	return common_models.RuleSnapshot{
		WorkflowName:      DefaultPolicyName,
		RequiredApprovals: 1,
		ApproverRoles:     roles,
		Default:           true,
	}, nil
}

// resolveFromWorkflows is the pure matching core. Workflows are expected
// in resolution order already (priority asc, created_at asc).
func resolveFromWorkflows(workflows []workflow.ApprovalWorkflow, in condition.Input) (common_models.RuleSnapshot, bool, error) {
	for _, w := range workflows {
		for i, rule := range w.Rules {
			expr, err := condition.Compile(rule.Condition)
			if err != nil {
				// Conditions are validated at save time; a broken one in
				// storage must block resolution, not fall through.
				return common_models.RuleSnapshot{}, false, fmt.Errorf("workflow %q rule %d: %w", w.Name, i, err)
			}
			if expr.Eval(in) {
				return common_models.RuleSnapshot{
					WorkflowID:        w.ID.Hex(),
					WorkflowName:      w.Name,
					RuleIndex:         i,
					Condition:         rule.Condition,
					RequiredApprovals: rule.RequiredApprovals,
					ApproverRoles:     rule.ApproverRoles,
				}, true, nil
			}
		}
	}
	return common_models.RuleSnapshot{}, false, nil
}
