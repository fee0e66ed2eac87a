package dto

import (
	"github.com/ksenchy/exchange-deals/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DealReportRow is one per-currency row of the deals report. Totals are
// rendered at 2 decimal places.
type DealReportRow struct {
	Currency      string          `json:"currency"`
	TotalSent     decimal.Decimal `json:"total_sent"`
	TotalReceived decimal.Decimal `json:"total_received"`
	DealCount     int64           `json:"deal_count"`
}

// ToDealReportRow converts a domain turnover row to its response DTO.
func ToDealReportRow(row domain.CurrencyTurnover) DealReportRow {
	return DealReportRow{
		Currency:      row.Currency,
		TotalSent:     row.TotalSent.RoundBank(2),
		TotalReceived: row.TotalReceived.RoundBank(2),
		DealCount:     row.DealCount,
	}
}

// ToDealReportRows converts a slice of turnover rows to response DTOs.
func ToDealReportRows(rows []domain.CurrencyTurnover) []DealReportRow {
	res := make([]DealReportRow, len(rows))
	for i, row := range rows {
		res[i] = ToDealReportRow(row)
	}
	return res
}
