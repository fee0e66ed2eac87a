package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ksenchy/exchange-deals/internal/apperrors"
	"github.com/ksenchy/exchange-deals/internal/core/domain"
	"github.com/ksenchy/exchange-deals/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxDealRepository struct {
	pool *pgxpool.Pool
}

// NewPgxDealRepository creates a new repository for exchange deal data.
func NewPgxDealRepository(pool *pgxpool.Pool) repositories.DealRepositoryFacade {
	return &PgxDealRepository{pool: pool}
}

// SaveDeal persists a new deal.
func (r *PgxDealRepository) SaveDeal(ctx context.Context, deal domain.ExchangeDeal) error {
	query := `
		INSERT INTO exchange_deals (
			deal_id, amount_from, amount_to, currency_from, currency_to,
			rate, created_at, status, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`

	_, err := r.pool.Exec(ctx, query,
		deal.ID,
		deal.AmountFrom,
		deal.AmountTo,
		deal.CurrencyFrom,
		deal.CurrencyTo,
		deal.Rate,
		deal.CreatedAt,
		deal.Status,
		deal.CompletedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to save deal %s: %w", deal.ID, err)
	}
	return nil
}

// FindPendingDealByID retrieves a deal that is still pending. Completed,
// rejected and unknown deals are all reported as not found so a second
// confirmation attempt never leaks the prior result.
func (r *PgxDealRepository) FindPendingDealByID(ctx context.Context, dealID string) (*domain.ExchangeDeal, error) {
	query := `
		SELECT deal_id, amount_from, amount_to, currency_from, currency_to,
			rate, created_at, status, completed_at
		FROM exchange_deals
		WHERE deal_id = $1 AND status = 'pending';
	`

	var deal domain.ExchangeDeal
	err := r.pool.QueryRow(ctx, query, dealID).Scan(
		&deal.ID,
		&deal.AmountFrom,
		&deal.AmountTo,
		&deal.CurrencyFrom,
		&deal.CurrencyTo,
		&deal.Rate,
		&deal.CreatedAt,
		&deal.Status,
		&deal.CompletedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find pending deal %s: %w", dealID, err)
	}

	return &deal, nil
}

// TransitionDeal moves a deal from pending to a terminal status with a single
// conditional update. The status = 'pending' predicate plus the affected-row
// check make this the linearization point: of any number of concurrent
// confirm/reject/sweep attempts on one deal, exactly one observes an affected
// row.
func (r *PgxDealRepository) TransitionDeal(ctx context.Context, dealID string, to domain.DealStatus, completedAt time.Time) error {
	query := `
		UPDATE exchange_deals
		SET status = $2, completed_at = $3
		WHERE deal_id = $1 AND status = 'pending';
	`

	tag, err := r.pool.Exec(ctx, query, dealID, to, completedAt)
	if err != nil {
		return fmt.Errorf("failed to transition deal %s to %s: %w", dealID, to, err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// RejectExpiredDeals bulk-rejects every pending deal created before cutoff.
// Racing per-row transitions are harmless: each row is decided by whichever
// conditional update lands first.
func (r *PgxDealRepository) RejectExpiredDeals(ctx context.Context, cutoff, completedAt time.Time) (int64, error) {
	query := `
		UPDATE exchange_deals
		SET status = 'rejected', completed_at = $2
		WHERE status = 'pending' AND created_at < $1;
	`

	tag, err := r.pool.Exec(ctx, query, cutoff, completedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to reject expired deals: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListPendingDeals retrieves all pending deals, newest first.
func (r *PgxDealRepository) ListPendingDeals(ctx context.Context) ([]domain.ExchangeDeal, error) {
	query := `
		SELECT deal_id, amount_from, amount_to, currency_from, currency_to,
			rate, created_at, status, completed_at
		FROM exchange_deals
		WHERE status = 'pending'
		ORDER BY created_at DESC;
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending deals: %w", err)
	}
	defer rows.Close()

	deals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ExchangeDeal, error) {
		var deal domain.ExchangeDeal
		err := row.Scan(
			&deal.ID,
			&deal.AmountFrom,
			&deal.AmountTo,
			&deal.CurrencyFrom,
			&deal.CurrencyTo,
			&deal.Rate,
			&deal.CreatedAt,
			&deal.Status,
			&deal.CompletedAt,
		)
		return deal, err
	})

	if err != nil {
		return nil, fmt.Errorf("failed to scan pending deals: %w", err)
	}

	if deals == nil {
		deals = []domain.ExchangeDeal{}
	}
	return deals, nil
}
