package automation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/d5/tengo/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	common_models "go-custody/internal/common/models"
	"go-custody/internal/features/audit"
	"go-custody/internal/features/notification"
	"go-custody/internal/features/transaction"
)

type AutomationService interface {
	CreateRule(ctx context.Context, rule *AutomationRule) (*AutomationRule, error)
	GetRule(ctx context.Context, id string) (*AutomationRule, error)
	ListRules(ctx context.Context) ([]AutomationRule, error)
	UpdateRule(ctx context.Context, id string, rule *AutomationRule) error
	DeleteRule(ctx context.Context, id string) error

	// ExecuteForTransaction fires every active rule whose trigger matches
	// the transaction's status. Action failures are logged and skipped;
	// one broken webhook must not block the rest.
	ExecuteForTransaction(ctx context.Context, tx *transaction.Transaction)
}

type AutomationServiceImpl struct {
	Repo          AutomationRepository
	AuditService  audit.AuditService
	Notifications notification.NotificationService
	HttpClient    *http.Client
	Logger        *zap.Logger
}

func NewAutomationService(
	repo AutomationRepository,
	auditService audit.AuditService,
	notifications notification.NotificationService,
	logger *zap.Logger,
) AutomationService {
	return &AutomationServiceImpl{
		Repo:          repo,
		AuditService:  auditService,
		Notifications: notifications,
		HttpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		Logger: logger,
	}
}

func validTrigger(status string) bool {
	switch transaction.Status(status) {
	case transaction.StatusApproved, transaction.StatusRejected,
		transaction.StatusCompleted, transaction.StatusFailed:
		return true
	}
	return false
}

func validateRule(rule *AutomationRule) error {
	if rule.Name == "" {
		return errors.New("rule name is required")
	}
	if !validTrigger(rule.TriggerStatus) {
		return fmt.Errorf("invalid trigger status: %s", rule.TriggerStatus)
	}
	if len(rule.Actions) == 0 {
		return errors.New("at least one action is required")
	}
	for i, action := range rule.Actions {
		switch action.Type {
		case ActionWebhook:
			if url, _ := action.Config["url"].(string); url == "" {
				return fmt.Errorf("action %d: webhook url is required", i)
			}
		case ActionRunScript:
			script, _ := action.Config["script_content"].(string)
			if script == "" {
				return fmt.Errorf("action %d: script_content is required", i)
			}
			// Compile up front so broken scripts are rejected at save time.
			if _, err := tengo.NewScript([]byte(script)).Compile(); err != nil {
				return fmt.Errorf("action %d: script does not compile: %w", i, err)
			}
		case ActionNotify:
			if _, ok := action.Config["roles"]; !ok {
				return fmt.Errorf("action %d: roles are required", i)
			}
		default:
			return fmt.Errorf("action %d: unknown type %s", i, action.Type)
		}
	}
	return nil
}

func (s *AutomationServiceImpl) CreateRule(ctx context.Context, rule *AutomationRule) (*AutomationRule, error) {
	if err := validateRule(rule); err != nil {
		return nil, err
	}
	created, err := s.Repo.Create(ctx, rule)
	if err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionAutomation, "automation", created.ID.Hex(), map[string]common_models.Change{
		"name":    {New: created.Name},
		"trigger": {New: created.TriggerStatus},
	})
	return created, nil
}

func (s *AutomationServiceImpl) GetRule(ctx context.Context, id string) (*AutomationRule, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.Repo.FindByID(ctx, objID)
}

func (s *AutomationServiceImpl) ListRules(ctx context.Context) ([]AutomationRule, error) {
	return s.Repo.List(ctx)
}

func (s *AutomationServiceImpl) UpdateRule(ctx context.Context, id string, rule *AutomationRule) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	if err := validateRule(rule); err != nil {
		return err
	}
	if err := s.Repo.Update(ctx, objID, rule); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionAutomation, "automation", id, map[string]common_models.Change{
		"name": {New: rule.Name},
	})
	return nil
}

func (s *AutomationServiceImpl) DeleteRule(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	if err := s.Repo.Delete(ctx, objID); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionAutomation, "automation", id, nil)
	return nil
}

func (s *AutomationServiceImpl) ExecuteForTransaction(ctx context.Context, tx *transaction.Transaction) {
	rules, err := s.Repo.ListActiveForStatus(ctx, string(tx.Status))
	if err != nil {
		s.Logger.Error("failed to load automation rules",
			zap.Error(err),
			zap.String("func", "AutomationService.ExecuteForTransaction"),
		)
		return
	}

	for _, rule := range rules {
		for _, action := range rule.Actions {
			if err := s.executeAction(ctx, action, tx); err != nil {
				s.Logger.Warn("automation action failed",
					zap.String("rule", rule.Name),
					zap.String("action", string(action.Type)),
					zap.Error(err),
					zap.String("func", "AutomationService.ExecuteForTransaction"),
				)
				continue
			}
			_ = s.AuditService.LogChange(ctx, common_models.AuditActionAutomation, "transaction", tx.ID.Hex(), map[string]common_models.Change{
				"rule":   {New: rule.Name},
				"action": {New: action.Type},
			})
		}
	}
}

func (s *AutomationServiceImpl) executeAction(ctx context.Context, action RuleAction, tx *transaction.Transaction) error {
	switch action.Type {
	case ActionWebhook:
		return s.fireWebhook(ctx, action, tx)
	case ActionRunScript:
		script, _ := action.Config["script_content"].(string)
		return s.runScript(ctx, script, tx)
	case ActionNotify:
		return s.notifyRoles(ctx, action, tx)
	default:
		return fmt.Errorf("unknown action type %s", action.Type)
	}
}

func (s *AutomationServiceImpl) fireWebhook(ctx context.Context, action RuleAction, tx *transaction.Transaction) error {
	url, _ := action.Config["url"].(string)
	method := http.MethodPost
	if m, ok := action.Config["method"].(string); ok && m != "" {
		method = m
	}

	payload := common_models.WebhookPayload{
		Event:     "transaction." + string(tx.Status),
		RecordID:  tx.ID.Hex(),
		Data:      tx,
		Timestamp: time.Now(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if headers, ok := action.Config["headers"].(map[string]interface{}); ok {
		for k, v := range headers {
			req.Header.Set(k, fmt.Sprintf("%v", v))
		}
	}

	resp, err := s.HttpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook %s returned %d", url, resp.StatusCode)
	}
	return nil
}

// runScript exposes a read-only transaction map plus a log function to the
// script. Scripts cannot touch storage.
func (s *AutomationServiceImpl) runScript(ctx context.Context, content string, tx *transaction.Transaction) error {
	script := tengo.NewScript([]byte(content))

	txMap, err := tengo.FromInterface(map[string]interface{}{
		"id":         tx.ID.Hex(),
		"wallet_id":  tx.WalletID,
		"amount":     tx.Amount,
		"currency":   tx.Currency,
		"usd_value":  tx.UsdValue,
		"priority":   string(tx.Priority),
		"status":     string(tx.Status),
		"created_by": tx.CreatedBy,
	})
	if err != nil {
		return err
	}
	_ = script.Add("transaction", txMap)

	_ = script.Add("log", &tengo.UserFunction{
		Name: "log",
		Value: func(args ...tengo.Object) (tengo.Object, error) {
			parts := make([]interface{}, 0, len(args))
			for _, arg := range args {
				parts = append(parts, tengo.ToInterface(arg))
			}
			s.Logger.Info("automation script log",
				zap.Any("output", parts),
				zap.String("transaction_id", tx.ID.Hex()),
			)
			return tengo.UndefinedValue, nil
		},
	})

	_, err = script.RunContext(ctx)
	return err
}

func (s *AutomationServiceImpl) notifyRoles(ctx context.Context, action RuleAction, tx *transaction.Transaction) error {
	var roles []string
	switch v := action.Config["roles"].(type) {
	case []string:
		roles = v
	case []interface{}:
		for _, r := range v {
			roles = append(roles, fmt.Sprintf("%v", r))
		}
	}

	title, _ := action.Config["title"].(string)
	if title == "" {
		title = "Transaction " + string(tx.Status)
	}
	message, _ := action.Config["message"].(string)
	if message == "" {
		message = fmt.Sprintf("Transfer of %.2f %s is %s", tx.Amount, tx.Currency, tx.Status)
	}

	return s.Notifications.NotifyRoles(ctx, roles, notification.Input{
		Kind:     notification.KindDecisionRecorded,
		Title:    title,
		Message:  message,
		RecordID: tx.ID.Hex(),
	})
}
