package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/ksenchy/exchange-deals/internal/core/domain"
	"github.com/ksenchy/exchange-deals/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxReportingRepository struct {
	pool *pgxpool.Pool
}

// NewPgxReportingRepository creates a new repository for deal report queries.
func NewPgxReportingRepository(pool *pgxpool.Pool) repositories.ReportingRepository {
	return &PgxReportingRepository{pool: pool}
}

// AggregateCompletedDeals groups completed deals by (from, to) currency pair.
// The date filter compares calendar dates, inclusive on both ends, matching
// how deals are bucketed for reporting regardless of the time of day.
func (r *PgxReportingRepository) AggregateCompletedDeals(ctx context.Context, dateFrom, dateTo time.Time, currencyCode string) ([]domain.DealPairTotals, error) {
	query := `
		SELECT currency_from, currency_to,
			SUM(amount_from) AS total_sent,
			SUM(amount_to) AS total_received,
			COUNT(deal_id) AS deal_count
		FROM exchange_deals
		WHERE status = 'completed'
			AND created_at::date >= $1::date
			AND created_at::date <= $2::date
	`
	args := []interface{}{dateFrom, dateTo}

	if currencyCode != "" {
		query += ` AND (currency_from = $3 OR currency_to = $3)`
		args = append(args, currencyCode)
	}

	query += ` GROUP BY currency_from, currency_to;`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate completed deals: %w", err)
	}
	defer rows.Close()

	var totals []domain.DealPairTotals
	for rows.Next() {
		var row domain.DealPairTotals
		if err := rows.Scan(&row.CurrencyFrom, &row.CurrencyTo, &row.TotalSent, &row.TotalReceived, &row.DealCount); err != nil {
			return nil, fmt.Errorf("failed to scan deal totals: %w", err)
		}
		totals = append(totals, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deal totals: %w", err)
	}

	if totals == nil {
		totals = []domain.DealPairTotals{}
	}
	return totals, nil
}
