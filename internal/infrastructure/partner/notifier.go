package partner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/warehouse-ops/operations-api/internal/domain"
	"github.com/warehouse-ops/operations-api/pkg/logging"
	"github.com/warehouse-ops/operations-api/pkg/metrics"
)

// Config holds partner notification configuration
type Config struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
	Enabled  bool          `yaml:"enabled"`
}

// DefaultConfig returns default partner notification configuration
func DefaultConfig() *Config {
	return &Config{
		Endpoint: "http://localhost:9090/notifications/po-completed",
		Timeout:  5 * time.Second,
		Enabled:  true,
	}
}

// Notifier delivers purchase-order completion notices to the partner
// endpoint. Delivery is best-effort with a bounded timeout and a
// circuit breaker; failures are reported in the result, never raised.
type Notifier struct {
	config     *Config
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	metrics    *metrics.Metrics
	logger     *logging.Logger
}

// NewNotifier creates a new Notifier
func NewNotifier(config *Config, m *metrics.Metrics, logger *logging.Logger) *Notifier {
	settings := gobreaker.Settings{
		Name:        "partner-notifier",
		MaxRequests: 3,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &Notifier{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		breaker:    gobreaker.NewCircuitBreaker(settings),
		metrics:    m,
		logger:     logger,
	}
}

type notificationPayload struct {
	PONumber    string    `json:"po_number"`
	Status      string    `json:"status"`
	CompletedAt time.Time `json:"completed_at"`
}

// NotifyCompleted posts a completion notice for the purchase order.
// The call never returns an error; the result carries the outcome.
func (n *Notifier) NotifyCompleted(ctx context.Context, poNumber string) domain.NotificationResult {
	now := time.Now().UTC()

	if !n.config.Enabled {
		return domain.NotificationResult{Success: true, Timestamp: now, Message: "notifications disabled"}
	}

	_, err := n.breaker.Execute(func() (interface{}, error) {
		return nil, n.post(ctx, poNumber, now)
	})

	if n.metrics != nil {
		n.metrics.RecordPartnerNotification(err == nil)
	}

	if err != nil {
		n.logger.WithError(err).Warn("Partner notification failed", "poNumber", poNumber)
		return domain.NotificationResult{Success: false, Timestamp: now, Message: err.Error()}
	}

	return domain.NotificationResult{Success: true, Timestamp: now}
}

func (n *Notifier) post(ctx context.Context, poNumber string, completedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, n.config.Timeout)
	defer cancel()

	body, err := json.Marshal(notificationPayload{
		PONumber:    poNumber,
		Status:      string(domain.POStatusCompleted),
		CompletedAt: completedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("partner endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
