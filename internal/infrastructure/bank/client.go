package bank

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/baechuer/lease-service/internal/domain"
	"github.com/baechuer/lease-service/internal/logger"
	ctxpkg "github.com/baechuer/lease-service/internal/pkg/context"
)

const (
	defaultTimeout = 5 * time.Second
	maxBodyBytes   = 1 << 20
)

type Config struct {
	URL    string
	APIKey string
	// Timeout bounds a single decision call, including reading the body.
	Timeout         time.Duration
	BreakerFailures int
	BreakerReset    time.Duration
}

// Client asks the external bank API for a credit decision.
type Client struct {
	cfg     Config
	http    *http.Client
	breaker *Breaker
}

func NewClient(cfg Config, hc *http.Client) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if hc == nil {
		// per-request timeouts come from the context
		hc = &http.Client{Timeout: 0}
	}
	return &Client{
		cfg:     cfg,
		http:    hc,
		breaker: NewBreaker(cfg.BreakerFailures, cfg.BreakerReset),
	}
}

func (c *Client) Breaker() *Breaker { return c.breaker }

type decisionRequest struct {
	Customer     customer     `json:"customer"`
	LeaseDetails leaseDetails `json:"lease_details"`
}

type customer struct {
	ID string `json:"id"`
}

type leaseDetails struct {
	Car            string  `json:"car"`
	Price          float64 `json:"price"`
	DurationMonths int     `json:"duration_months"`
	DownPayment    float64 `json:"down_payment"`
}

type decisionResponse struct {
	Status *string `json:"status"`
}

// RequestDecision never touches lease state. It returns approved/rejected,
// or a decision_unavailable / decision_format error.
func (c *Client) RequestDecision(ctx context.Context, l domain.Lease, v domain.Vehicle) (domain.LeaseStatus, error) {
	log := logger.WithCtx(ctx).With().Str("lease_id", l.ID).Logger()
	start := time.Now()

	var resp decisionResponse
	err := c.breaker.CallWith(func() error {
		var callErr error
		resp, callErr = c.post(ctx, decisionRequest{
			Customer: customer{ID: l.UserID},
			LeaseDetails: leaseDetails{
				Car:            v.Model,
				Price:          v.Price,
				DurationMonths: l.LeaseTerm,
				DownPayment:    l.DownPayment,
			},
		})
		return callErr
	}, func(err error) bool {
		// the caller went away; says nothing about the bank
		return !(ctx.Err() != nil && errors.Is(err, context.Canceled))
	})

	elapsed := time.Since(start).Seconds()

	if err != nil {
		outcome := outcomeUnavailable
		switch {
		case errors.Is(err, ErrBreakerOpen):
			outcome = outcomeBreakerOpen
		case errors.Is(err, context.Canceled):
			outcome = outcomeCanceled
		}
		creditDecisionsTotal.WithLabelValues(outcome).Inc()
		creditDecisionDuration.WithLabelValues(outcome).Observe(elapsed)
		log.Warn().Err(err).Str("outcome", outcome).Msg("bank_decision_failed")
		return "", domain.ErrDecisionUnavailable(err)
	}

	if resp.Status == nil {
		creditDecisionsTotal.WithLabelValues(outcomeFormat).Inc()
		creditDecisionDuration.WithLabelValues(outcomeFormat).Observe(elapsed)
		log.Warn().Msg("bank_decision_missing_status")
		return "", domain.ErrDecisionFormat(errors.New("missing status"))
	}
	status, ok := domain.ParseDecision(*resp.Status)
	if !ok {
		creditDecisionsTotal.WithLabelValues(outcomeFormat).Inc()
		creditDecisionDuration.WithLabelValues(outcomeFormat).Observe(elapsed)
		log.Warn().Str("status", *resp.Status).Msg("bank_decision_unknown_status")
		return "", domain.ErrDecisionFormat(fmt.Errorf("unknown status %q", *resp.Status))
	}

	creditDecisionsTotal.WithLabelValues(string(status)).Inc()
	creditDecisionDuration.WithLabelValues(string(status)).Observe(elapsed)
	log.Info().Str("status", string(status)).Msg("bank_decision_received")
	return status, nil
}

// post fails for anything that says the bank could not answer: transport
// errors, timeouts, non-2xx and undecodable bodies.
func (c *Client) post(ctx context.Context, payload decisionRequest) (decisionResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return decisionResponse{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return decisionResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	if rid := ctxpkg.GetRequestID(ctx); rid != "" {
		req.Header.Set("X-Request-ID", rid)
	}

	res, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return decisionResponse{}, fmt.Errorf("bank timeout after %s: %w", c.cfg.Timeout, err)
		}
		return decisionResponse{}, err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return decisionResponse{}, fmt.Errorf("read bank response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return decisionResponse{}, fmt.Errorf("bank returned status %d", res.StatusCode)
	}

	var out decisionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return decisionResponse{}, fmt.Errorf("decode bank response: %w", err)
	}
	return out, nil
}
