package services

import (
	"log/slog"
	"time"

	pgsqladapter "github.com/ksenchy/exchange-deals/internal/adapters/database/pgsql"
	portsrepo "github.com/ksenchy/exchange-deals/internal/core/ports/repositories"
	portssvc "github.com/ksenchy/exchange-deals/internal/core/ports/services"
	"github.com/ksenchy/exchange-deals/internal/metrics"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ContainerConfig carries the tunables the services need.
type ContainerConfig struct {
	RateRefreshCooldown time.Duration
	DealConfirmTTL      time.Duration
}

// NewServiceContainer wires the pgsql repositories and the external rate
// source into the application services.
func NewServiceContainer(pool *pgxpool.Pool, source portsrepo.RateSource, m *metrics.DealMetrics, cfg ContainerConfig, logger *slog.Logger) *portssvc.ServiceContainer {
	rateRepo := pgsqladapter.NewPgxRateRepository(pool)
	dealRepo := pgsqladapter.NewPgxDealRepository(pool)
	reportRepo := pgsqladapter.NewPgxReportingRepository(pool)

	quoteSvc := NewQuoteService(rateRepo)
	dealSvc := NewDealService(dealRepo, quoteSvc, m, cfg.DealConfirmTTL)

	return &portssvc.ServiceContainer{
		Rate:      NewRateService(rateRepo, source, m, cfg.RateRefreshCooldown, logger),
		Deal:      dealSvc,
		Reporting: NewReportingService(reportRepo, rateRepo, dealSvc),
	}
}
