package clients

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/akaJirt/restaurant-api/internal/metrics"
)

// Notifier dispatches verification codes to users through an external
// email/SMS gateway.
type Notifier interface {
	SendVerificationEmail(ctx context.Context, email, code string) error
	SendVerificationSMS(ctx context.Context, phoneNumber, code string) error
}

type notifyHTTPClient struct {
	client  *resty.Client
	circuit *gobreaker.CircuitBreaker
	log     *logrus.Logger
}

// NewNotifyHTTPClient builds a Notifier backed by the provider's HTTP API.
// Calls go through a circuit breaker so a dead provider cannot stall
// registration traffic.
func NewNotifyHTTPClient(baseURL, apiKey string, timeout time.Duration, logger *logrus.Logger) Notifier {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Authorization", "Bearer "+apiKey)

	circuit := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "notify",
		MaxRequests: 3,
		Interval:    15 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			state := float64(0)
			switch to {
			case gobreaker.StateOpen:
				state = 1
			case gobreaker.StateHalfOpen:
				state = 2
			}
			metrics.NotifyCircuitState.Set(state)
			logger.Infof("NotifyClient: circuit breaker %s changed state %s -> %s", name, from.String(), to.String())
		},
	})

	return &notifyHTTPClient{
		client:  client,
		circuit: circuit,
		log:     logger,
	}
}

type notifyRequest struct {
	Channel string `json:"channel"`
	To      string `json:"to"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body"`
}

func (c *notifyHTTPClient) SendVerificationEmail(ctx context.Context, email, code string) error {
	return c.dispatch(ctx, notifyRequest{
		Channel: "email",
		To:      email,
		Subject: "Email Verification",
		Body:    fmt.Sprintf("Your verification code is %s", code),
	})
}

func (c *notifyHTTPClient) SendVerificationSMS(ctx context.Context, phoneNumber, code string) error {
	return c.dispatch(ctx, notifyRequest{
		Channel: "sms",
		To:      phoneNumber,
		Body:    fmt.Sprintf("CODE: %s", code),
	})
}

func (c *notifyHTTPClient) dispatch(ctx context.Context, payload notifyRequest) error {
	_, err := c.circuit.Execute(func() (interface{}, error) {
		resp, err := c.client.R().
			SetContext(ctx).
			SetBody(payload).
			Post("/v1/messages")
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("notification provider returned status %d", resp.StatusCode())
		}
		return nil, nil
	})
	if err != nil {
		metrics.NotifyFailures.Inc()
		c.log.Errorf("NotifyClient: failed to dispatch %s notification to %s: %v", payload.Channel, payload.To, err)
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("notification provider unavailable: %w", err)
		}
		return fmt.Errorf("failed to dispatch notification: %w", err)
	}
	c.log.Infof("NotifyClient: dispatched %s notification to %s", payload.Channel, payload.To)
	return nil
}

// noopNotifier logs instead of dispatching. Used when no provider is
// configured, so local development does not need gateway credentials.
type noopNotifier struct {
	log *logrus.Logger
}

func NewNoopNotifier(logger *logrus.Logger) Notifier {
	return &noopNotifier{log: logger}
}

func (n *noopNotifier) SendVerificationEmail(_ context.Context, email, code string) error {
	n.log.Infof("NotifyClient(noop): verification code %s for %s", code, email)
	return nil
}

func (n *noopNotifier) SendVerificationSMS(_ context.Context, phoneNumber, code string) error {
	n.log.Infof("NotifyClient(noop): verification code %s for %s", code, phoneNumber)
	return nil
}
