// Package dadata implements the company-data provider client against the
// DaData suggestions API.
package dadata

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"product-catalog-service/internal/config"
	"product-catalog-service/internal/domain"
)

// Endpoint is the party lookup path of the suggestions API.
const Endpoint = "/suggestions/api/4_1/rs/findById/party"

// Client implements domain.CompanyDataProvider for DaData.
type Client struct {
	client *resty.Client
	cb     *gobreaker.CircuitBreaker[*resty.Response]
	logger *zap.Logger
}

// New creates a DaData client with retries and a circuit breaker around
// the lookup call.
func New(cfg config.DaDataConfig, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Authorization", "Token "+cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.Retry.MaxAttempts).
		SetRetryWaitTime(cfg.Retry.WaitTime).
		SetRetryMaxWaitTime(cfg.Retry.MaxWaitTime).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			// Retry on network errors or 5xx status codes
			if err != nil {
				return true
			}

			return r.StatusCode() >= 500
		})

	cb := gobreaker.NewCircuitBreaker[*resty.Response](gobreaker.Settings{
		Name:        "dadata",
		MaxRequests: cfg.CB.MaxRequests,
		Interval:    cfg.CB.Interval,
		Timeout:     cfg.CB.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)

			return counts.Requests >= 3 && failureRatio >= cfg.CB.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		client: client,
		cb:     cb,
		logger: logger,
	}
}

// FindByINN looks a party up by tax ID. Nil, nil means the ID is unknown
// to the registry; an error means the provider itself failed.
func (c *Client) FindByINN(ctx context.Context, inn string, partyType domain.PartyType) (*domain.CompanyData, error) {
	resp, err := c.cb.Execute(func() (*resty.Response, error) {
		var result findPartyResponse
		r, err := c.client.R().
			SetContext(ctx).
			SetBody(findPartyRequest{Query: inn, Count: 1, Type: string(partyType)}).
			SetResult(&result).
			Post(Endpoint)
		if err != nil {
			return nil, err
		}
		if r.IsError() {
			return nil, fmt.Errorf("dadata returned status %d", r.StatusCode())
		}

		return r, nil
	})

	if err != nil {
		c.logger.Warn("dadata lookup failed",
			zap.String("inn", inn),
			zap.Error(err),
			zap.String("state", c.cb.State().String()),
		)

		return nil, fmt.Errorf("looking up party in dadata: %w", err)
	}

	result := resp.Result().(*findPartyResponse)
	if len(result.Suggestions) == 0 {
		c.logger.Info("dadata found no party", zap.String("inn", inn))

		return nil, nil
	}

	found := result.Suggestions[0]
	name := found.Value
	if name == "" {
		name = found.Data.Name.ShortWithOPF
	}

	return &domain.CompanyData{
		INN:  found.Data.INN,
		Name: name,
	}, nil
}

// HealthCheck verifies the provider answers at all. DaData has no
// dedicated health endpoint, an authorized empty lookup serves the
// purpose.
func (c *Client) HealthCheck(ctx context.Context) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(findPartyRequest{Query: "0000000000", Count: 1}).
		Post(Endpoint)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("health check returned status %d", resp.StatusCode())
	}

	return nil
}
