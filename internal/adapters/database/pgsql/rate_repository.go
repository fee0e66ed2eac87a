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
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// foreignKeyViolation is the postgres error code raised when a delete is
// blocked by a RESTRICT constraint.
const foreignKeyViolation = "23503"

type PgxRateRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRateRepository creates a new repository for currency rate data.
func NewPgxRateRepository(pool *pgxpool.Pool) repositories.RateRepositoryFacade {
	return &PgxRateRepository{pool: pool}
}

// UpsertRate inserts a currency rate or overwrites the mutable columns of an
// existing code. Refreshes never delete codes absent from the latest fetch.
func (r *PgxRateRepository) UpsertRate(ctx context.Context, rate domain.CurrencyRate) error {
	query := `
		INSERT INTO currency_rates (currency_code, currency_name, rate, scale, last_updated)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (currency_code) DO UPDATE SET
			currency_name = EXCLUDED.currency_name,
			rate = EXCLUDED.rate,
			scale = EXCLUDED.scale,
			last_updated = EXCLUDED.last_updated;
	`

	_, err := r.pool.Exec(ctx, query,
		rate.Code,
		rate.Name,
		rate.Rate,
		rate.Scale,
		rate.LastUpdated,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert currency rate %s: %w", rate.Code, err)
	}
	return nil
}

// FindRateByCode retrieves a currency rate by its 3-letter code.
func (r *PgxRateRepository) FindRateByCode(ctx context.Context, code string) (*domain.CurrencyRate, error) {
	query := `
		SELECT currency_code, currency_name, rate, scale, last_updated
		FROM currency_rates
		WHERE currency_code = $1;
	`
	var rate domain.CurrencyRate
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&rate.Code,
		&rate.Name,
		&rate.Rate,
		&rate.Scale,
		&rate.LastUpdated,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find currency rate by code %s: %w", code, err)
	}

	return &rate, nil
}

// FindRatesByCodes retrieves the rates for the given codes in one query.
// Missing codes are simply absent from the result map.
func (r *PgxRateRepository) FindRatesByCodes(ctx context.Context, codes []string) (map[string]domain.CurrencyRate, error) {
	query := `
		SELECT currency_code, currency_name, rate, scale, last_updated
		FROM currency_rates
		WHERE currency_code = ANY($1);
	`
	rows, err := r.pool.Query(ctx, query, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to query currency rates: %w", err)
	}
	defer rows.Close()

	result := make(map[string]domain.CurrencyRate, len(codes))
	for rows.Next() {
		var rate domain.CurrencyRate
		if err := rows.Scan(&rate.Code, &rate.Name, &rate.Rate, &rate.Scale, &rate.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan currency rate: %w", err)
		}
		result[rate.Code] = rate
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating currency rates: %w", err)
	}

	return result, nil
}

// ListRates retrieves all currency rates ordered by code.
func (r *PgxRateRepository) ListRates(ctx context.Context) ([]domain.CurrencyRate, error) {
	query := `
		SELECT currency_code, currency_name, rate, scale, last_updated
		FROM currency_rates
		ORDER BY currency_code;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query currency rates: %w", err)
	}
	defer rows.Close()

	rates, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CurrencyRate, error) {
		var rate domain.CurrencyRate
		err := row.Scan(&rate.Code, &rate.Name, &rate.Rate, &rate.Scale, &rate.LastUpdated)
		return rate, err
	})

	if err != nil {
		return nil, fmt.Errorf("failed to scan currency rates: %w", err)
	}

	if rates == nil {
		rates = []domain.CurrencyRate{}
	}
	return rates, nil
}

// NewestLastUpdated returns the most recent last_updated across all rates,
// or nil when no rates are stored yet.
func (r *PgxRateRepository) NewestLastUpdated(ctx context.Context) (*time.Time, error) {
	query := `SELECT MAX(last_updated) FROM currency_rates;`

	var newest *time.Time
	if err := r.pool.QueryRow(ctx, query).Scan(&newest); err != nil {
		return nil, fmt.Errorf("failed to query newest rate update: %w", err)
	}
	return newest, nil
}

// DeleteRate removes a currency rate. The deals table references currency
// codes with ON DELETE RESTRICT, so deletion fails with ErrCurrencyInUse
// while any deal still points at the code.
func (r *PgxRateRepository) DeleteRate(ctx context.Context, code string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM currency_rates WHERE currency_code = $1;`, code)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return fmt.Errorf("%w: %s", apperrors.ErrCurrencyInUse, code)
		}
		return fmt.Errorf("failed to delete currency rate %s: %w", code, err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
