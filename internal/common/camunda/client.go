// internal/common/camunda/client.go
package camunda

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

var (
	ErrBrokerUnavailable = errors.New("ZEEBE_UNAVAILABLE")
	ErrBrokerTimeout     = errors.New("ZEEBE_TIMEOUT")
	ErrBrokerRejected    = errors.New("ZEEBE_REJECTED")
)

// Client wraps the Zeebe gRPC client with retry on transient failures.
type Client struct {
	client zbc.Client
	config *ClientConfig
}

type ClientConfig struct {
	GatewayAddress         string
	UsePlaintextConnection bool
	ConnectionTimeout      time.Duration
	RetryConfig            *RetryConfig
}

type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

var DefaultRetryConfig = &RetryConfig{
	MaxRetries: 3,
	BaseDelay:  1 * time.Second,
	MaxDelay:   10 * time.Second,
}

// NewClient connects with plaintext and default timeouts; local setups only.
func NewClient(address string) (*Client, error) {
	return NewClientWithConfig(&ClientConfig{
		GatewayAddress:         address,
		UsePlaintextConnection: true,
		ConnectionTimeout:      10 * time.Second,
		RetryConfig:            DefaultRetryConfig,
	})
}

// NewClientWithConfig creates the client and checks the broker topology
// before returning it.
func NewClientWithConfig(config *ClientConfig) (*Client, error) {
	if config.RetryConfig == nil {
		config.RetryConfig = DefaultRetryConfig
	}
	if config.ConnectionTimeout <= 0 {
		config.ConnectionTimeout = 10 * time.Second
	}

	zeebeClient, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         config.GatewayAddress,
		UsePlaintextConnection: config.UsePlaintextConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Zeebe client: %w", err)
	}

	c := &Client{client: zeebeClient, config: config}

	ctx, cancel := context.WithTimeout(context.Background(), config.ConnectionTimeout*time.Duration(config.RetryConfig.MaxRetries+1))
	defer cancel()

	if err := c.ExecuteWithRetry(ctx, c.checkTopology, "topology"); err != nil {
		zeebeClient.Close()
		return nil, fmt.Errorf("failed to connect to Zeebe broker at %s: %w", config.GatewayAddress, err)
	}

	return c, nil
}

func (c *Client) GetClient() zbc.Client {
	return c.client
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) checkTopology(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.ConnectionTimeout)
	defer cancel()
	_, err := c.client.NewTopologyCommand().Send(ctx)
	return err
}

// ExecuteWithRetry runs fn with exponential backoff. Only transient broker
// errors are retried.
func (c *Client) ExecuteWithRetry(ctx context.Context, fn func(context.Context) error, operationName string) error {
	return executeWithRetry(ctx, c.config.RetryConfig, fn, operationName)
}

func executeWithRetry(ctx context.Context, rc *RetryConfig, fn func(context.Context) error, operationName string) error {
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}

		if !isRetryableZeebeError(err) || attempt >= rc.MaxRetries {
			return mapZeebeError(err, operationName, attempt)
		}

		delay := rc.BaseDelay * time.Duration(1<<attempt)
		if delay > rc.MaxDelay {
			delay = rc.MaxDelay
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("operation %s cancelled after %d attempts: %w", operationName, attempt+1, ctx.Err())
		}
	}
}

func isRetryableZeebeError(err error) bool {
	msg := strings.ToLower(err.Error())
	retryablePhrases := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"deadline exceeded",
		"unavailable",
		"unreachable",
		"broken pipe",
	}
	for _, phrase := range retryablePhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

func mapZeebeError(err error, operation string, attempt int) error {
	lowerMsg := strings.ToLower(err.Error())

	prefix := fmt.Sprintf("zeebe operation '%s' failed", operation)
	if attempt > 0 {
		prefix += fmt.Sprintf(" after %d attempts", attempt+1)
	}

	switch {
	case strings.Contains(lowerMsg, "timeout") ||
		strings.Contains(lowerMsg, "deadline exceeded"):
		return fmt.Errorf("%w: %s: %v", ErrBrokerTimeout, prefix, err)

	case strings.Contains(lowerMsg, "not found") ||
		strings.Contains(lowerMsg, "already exists") ||
		strings.Contains(lowerMsg, "permission denied") ||
		strings.Contains(lowerMsg, "unauthorized"):
		return fmt.Errorf("%w: %s: %v", ErrBrokerRejected, prefix, err)

	default:
		return fmt.Errorf("%w: %s: %v", ErrBrokerUnavailable, prefix, err)
	}
}

// HealthCheck backs the /ready endpoint.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := c.checkTopology(ctx); err != nil {
		return fmt.Errorf("zeebe health check failed: %w", err)
	}
	return nil
}
