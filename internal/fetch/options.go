package fetch

import (
	"fmt"
	"time"
)

// Option is a functional option for configuring a Client.
type Option func(*options) error

type options struct {
	timeout    time.Duration
	retries    int
	retryDelay time.Duration
	userAgent  string
}

func defaultOptions() options {
	return options{
		timeout:    20 * time.Second,
		retries:    2,
		retryDelay: 1 * time.Second,
		userAgent:  "repoctl/1.0",
	}
}

// NewOptions applies the given options on top of the defaults.
func NewOptions(opt ...Option) (options, error) {
	opts := defaultOptions()

	for _, o := range opt {
		if o == nil {
			continue
		}
		if err := o(&opts); err != nil {
			return options{}, err
		}
	}

	return opts, nil
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %s", d)
		}
		o.timeout = d
		return nil
	}
}

// WithRetries sets the number of retries after a failed request.
func WithRetries(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return fmt.Errorf("retries cannot be negative, got %d", n)
		}
		o.retries = n
		return nil
	}
}

// WithRetryDelay sets the base delay between retries. The delay grows
// linearly with the attempt number.
func WithRetryDelay(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return fmt.Errorf("retry delay cannot be negative, got %s", d)
		}
		o.retryDelay = d
		return nil
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(o *options) error {
		if ua == "" {
			return fmt.Errorf("user agent cannot be empty")
		}
		o.userAgent = ua
		return nil
	}
}
