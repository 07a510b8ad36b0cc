package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	common_models "go-custody/internal/common/models"
	"go-custody/internal/features/audit"
	"go-custody/internal/features/transaction"
)

type ReportService interface {
	// ExportTransactions produces an XLSX sheet of transactions with their
	// approval progress, one row per transaction.
	ExportTransactions(ctx context.Context, filter transaction.ListFilter) ([]byte, string, error)

	// ExportAuditLogs produces an XLSX sheet of audit entries.
	ExportAuditLogs(ctx context.Context, filters map[string]interface{}, limit int64) ([]byte, string, error)
}

type ReportServiceImpl struct {
	TransactionService transaction.TransactionService
	AuditService       audit.AuditService
}

func NewReportService(transactionService transaction.TransactionService, auditService audit.AuditService) ReportService {
	return &ReportServiceImpl{
		TransactionService: transactionService,
		AuditService:       auditService,
	}
}

func (s *ReportServiceImpl) ExportTransactions(ctx context.Context, filter transaction.ListFilter) ([]byte, string, error) {
	txs, err := s.TransactionService.ListTransactions(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	columns := []string{"ID", "Wallet", "Amount", "Currency", "USD Value", "Priority", "Status",
		"Workflow", "Required Approvals", "Approvals", "Created By", "Created At"}
	rows := make([][]any, 0, len(txs))
	for _, tx := range txs {
		approvals := 0
		for _, a := range tx.Approvals {
			if a.Decision == common_models.DecisionApproved {
				approvals++
			}
		}
		rows = append(rows, []any{
			tx.ID.Hex(), tx.WalletID, tx.Amount, tx.Currency, tx.UsdValue,
			string(tx.Priority), string(tx.Status),
			tx.Governing.WorkflowName, tx.Governing.RequiredApprovals, approvals,
			tx.CreatedByName, tx.CreatedAt,
		})
	}

	data, err := writeSheet("Transactions", columns, rows)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("transactions_%s.xlsx", time.Now().Format("20060102_150405"))
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionReport, "report", filename, map[string]common_models.Change{
		"rows": {New: len(rows)},
	})
	return data, filename, nil
}

func (s *ReportServiceImpl) ExportAuditLogs(ctx context.Context, filters map[string]interface{}, limit int64) ([]byte, string, error) {
	if limit <= 0 {
		limit = 1000
	}
	logs, err := s.AuditService.ListLogs(ctx, filters, 1, limit)
	if err != nil {
		return nil, "", err
	}

	columns := []string{"Timestamp", "Action", "Module", "Record ID", "Actor"}
	rows := make([][]any, 0, len(logs))
	for _, entry := range logs {
		actor := entry.ActorName
		if actor == "" {
			actor = entry.ActorID
		}
		rows = append(rows, []any{entry.Timestamp, string(entry.Action), entry.Module, entry.RecordID, actor})
	}

	data, err := writeSheet("Audit Logs", columns, rows)
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("audit_logs_%s.xlsx", time.Now().Format("20060102_150405")), nil
}

func writeSheet(sheetName string, columns []string, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, row := range rows {
		for colIdx, val := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			switch v := val.(type) {
			case time.Time:
				f.SetCellValue(sheetName, cell, v.Format("2006-01-02 15:04:05"))
			default:
				f.SetCellValue(sheetName, cell, v)
			}
		}
	}

	for i := range columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 18)
	}

	// The default sheet excelize creates is empty noise in the output.
	if sheetName != "Sheet1" && !strings.EqualFold(sheetName, "Sheet1") {
		_ = f.DeleteSheet("Sheet1")
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
