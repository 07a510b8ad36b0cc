package workflow

import (
	"errors"
	"testing"
)

func validRule() ApprovalRule {
	return ApprovalRule{
		Condition:         "amount > 10000",
		RequiredApprovals: 2,
		ApproverRoles:     []string{"manager", "admin"},
	}
}

func TestValidateRule(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ApprovalRule)
		wantErr bool
	}{
		{name: "valid", mutate: func(r *ApprovalRule) {}, wantErr: false},
		{name: "zero approvals", mutate: func(r *ApprovalRule) { r.RequiredApprovals = 0 }, wantErr: true},
		{name: "negative approvals", mutate: func(r *ApprovalRule) { r.RequiredApprovals = -1 }, wantErr: true},
		{name: "no approver roles", mutate: func(r *ApprovalRule) { r.ApproverRoles = nil }, wantErr: true},
		{name: "blank approver role", mutate: func(r *ApprovalRule) { r.ApproverRoles = []string{"  "} }, wantErr: true},
		{name: "malformed condition", mutate: func(r *ApprovalRule) { r.Condition = "amount >" }, wantErr: true},
		{name: "unknown attribute", mutate: func(r *ApprovalRule) { r.Condition = "velocity > 3" }, wantErr: true},
		{name: "type mismatch", mutate: func(r *ApprovalRule) { r.Condition = "currency > 5" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := validRule()
			tt.mutate(&rule)
			err := ValidateRule(0, rule)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateRule() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidRule) {
				t.Errorf("error %v is not ErrInvalidRule", err)
			}
		})
	}
}

func TestValidateWorkflow(t *testing.T) {
	tests := []struct {
		name     string
		workflow ApprovalWorkflow
		wantErr  bool
	}{
		{
			name: "valid",
			workflow: ApprovalWorkflow{
				Name: "High value transfers",
				Rules: []ApprovalRule{
					validRule(),
					{Condition: "amount > 100000", RequiredApprovals: 3, ApproverRoles: []string{"admin"}},
				},
			},
			wantErr: false,
		},
		{
			name:     "missing name",
			workflow: ApprovalWorkflow{Name: "  ", Rules: []ApprovalRule{validRule()}},
			wantErr:  true,
		},
		{
			name:     "no rules",
			workflow: ApprovalWorkflow{Name: "Empty"},
			wantErr:  true,
		},
		{
			name: "duplicate condition",
			workflow: ApprovalWorkflow{
				Name: "Dup",
				Rules: []ApprovalRule{
					validRule(),
					{Condition: "amount  >  10000", RequiredApprovals: 1, ApproverRoles: []string{"admin"}},
				},
			},
			wantErr: true,
		},
		{
			name: "bad rule inside workflow",
			workflow: ApprovalWorkflow{
				Name:  "Broken",
				Rules: []ApprovalRule{{Condition: "amount > 10", RequiredApprovals: 0, ApproverRoles: []string{"admin"}}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWorkflow(&tt.workflow)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateWorkflow() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
