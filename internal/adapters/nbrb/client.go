// Package nbrb fetches official reference rates from the National Bank of the
// Republic of Belarus public API.
package nbrb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/eapache/go-resiliency/retrier"
	"github.com/ksenchy/exchange-deals/internal/core/domain"
	"github.com/ksenchy/exchange-deals/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://api.nbrb.by"

// rateRecord mirrors one entry of the NBRB exrates payload.
type rateRecord struct {
	Abbreviation string          `json:"Cur_Abbreviation"`
	Name         string          `json:"Cur_Name"`
	OfficialRate decimal.Decimal `json:"Cur_OfficialRate"`
	Scale        int             `json:"Cur_Scale"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      *retrier.Retrier
}

// NewClient creates an NBRB API client. An empty baseURL selects the public
// endpoint. Transient failures are retried with exponential backoff.
func NewClient(baseURL string) repositories.RateSource {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		retry:      retrier.New(retrier.ExponentialBackoff(3, 500*time.Millisecond), nil),
	}
}

// FetchRates retrieves the current daily official rates.
func (c *Client) FetchRates(ctx context.Context) ([]domain.ExternalRate, error) {
	var records []rateRecord

	err := c.retry.RunCtx(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/exrates/rates?periodicity=0", nil)
		if err != nil {
			return err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d from rate source", resp.StatusCode)
		}

		records = records[:0]
		return json.NewDecoder(resp.Body).Decode(&records)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rates: %w", err)
	}

	rates := make([]domain.ExternalRate, len(records))
	for i, rec := range records {
		rates[i] = domain.ExternalRate{
			Code:         rec.Abbreviation,
			Name:         rec.Name,
			OfficialRate: rec.OfficialRate,
			Scale:        rec.Scale,
		}
	}
	return rates, nil
}
