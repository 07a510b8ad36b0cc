package approval

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-custody/internal/features/workflow"
	"go-custody/pkg/condition"
)

func testWorkflows() []workflow.ApprovalWorkflow {
	return []workflow.ApprovalWorkflow{
		{
			ID:       primitive.NewObjectID(),
			Name:     "High value",
			Priority: 1,
			Active:   true,
			Rules: []workflow.ApprovalRule{
				{Condition: "amount > 100000", RequiredApprovals: 3, ApproverRoles: []string{"admin"}},
				{Condition: "amount > 10000", RequiredApprovals: 2, ApproverRoles: []string{"manager", "admin"}},
			},
		},
		{
			ID:       primitive.NewObjectID(),
			Name:     "Exotic assets",
			Priority: 2,
			Active:   true,
			Rules: []workflow.ApprovalRule{
				{Condition: "currency != BTC && currency != ETH", RequiredApprovals: 2, ApproverRoles: []string{"admin"}},
			},
		},
	}
}

func TestResolveFirstMatchingRule(t *testing.T) {
	workflows := testWorkflows()

	tests := []struct {
		name         string
		in           condition.Input
		wantWorkflow string
		wantIndex    int
		wantMatch    bool
	}{
		{
			name:         "very high amount hits first rule",
			in:           condition.Input{Amount: 250000, Currency: "BTC"},
			wantWorkflow: "High value",
			wantIndex:    0,
			wantMatch:    true,
		},
		{
			name:         "fifteen thousand hits second rule",
			in:           condition.Input{Amount: 15000, Currency: "BTC"},
			wantWorkflow: "High value",
			wantIndex:    1,
			wantMatch:    true,
		},
		{
			name:         "small exotic asset falls to second workflow",
			in:           condition.Input{Amount: 500, Currency: "XRP"},
			wantWorkflow: "Exotic assets",
			wantIndex:    0,
			wantMatch:    true,
		},
		{
			name:      "small BTC transfer matches nothing",
			in:        condition.Input{Amount: 5000, Currency: "BTC"},
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot, matched, err := resolveFromWorkflows(workflows, tt.in)
			if err != nil {
				t.Fatalf("resolveFromWorkflows() error = %v", err)
			}
			if matched != tt.wantMatch {
				t.Fatalf("matched = %v, want %v", matched, tt.wantMatch)
			}
			if !matched {
				return
			}
			if snapshot.WorkflowName != tt.wantWorkflow || snapshot.RuleIndex != tt.wantIndex {
				t.Errorf("resolved (%s, %d), want (%s, %d)",
					snapshot.WorkflowName, snapshot.RuleIndex, tt.wantWorkflow, tt.wantIndex)
			}
		})
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	workflows := testWorkflows()
	in := condition.Input{Amount: 15000, Currency: "BTC"}

	first, matched1, err := resolveFromWorkflows(workflows, in)
	if err != nil || !matched1 {
		t.Fatalf("first resolve: matched=%v err=%v", matched1, err)
	}
	second, matched2, err := resolveFromWorkflows(workflows, in)
	if err != nil || !matched2 {
		t.Fatalf("second resolve: matched=%v err=%v", matched2, err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("resolution not deterministic: %+v vs %+v", first, second)
	}
}

func TestResolveSnapshotCarriesRuleFields(t *testing.T) {
	workflows := testWorkflows()
	snapshot, matched, err := resolveFromWorkflows(workflows, condition.Input{Amount: 15000, Currency: "BTC"})
	if err != nil || !matched {
		t.Fatalf("resolve: matched=%v err=%v", matched, err)
	}

	if snapshot.WorkflowID != workflows[0].ID.Hex() {
		t.Errorf("WorkflowID = %s, want %s", snapshot.WorkflowID, workflows[0].ID.Hex())
	}
	if snapshot.Condition != "amount > 10000" {
		t.Errorf("Condition = %q", snapshot.Condition)
	}
	if snapshot.RequiredApprovals != 2 {
		t.Errorf("RequiredApprovals = %d, want 2", snapshot.RequiredApprovals)
	}
	if snapshot.Default {
		t.Error("Default = true for a matched rule")
	}
}

func TestResolveBrokenStoredCondition(t *testing.T) {
	workflows := []workflow.ApprovalWorkflow{{
		Name:   "Broken",
		Active: true,
		Rules:  []workflow.ApprovalRule{{Condition: "amount >", RequiredApprovals: 1, ApproverRoles: []string{"admin"}}},
	}}

	_, _, err := resolveFromWorkflows(workflows, condition.Input{Amount: 1})
	if err == nil {
		t.Fatal("resolveFromWorkflows() error = nil, want parse failure")
	}
}
