package memo

import "go.uber.org/zap"

type Option func(*Config)

// WithMetrics is used to make the cache report metrics.
func WithMetrics(recorder MetricsRecorder) Option {
	return func(c *Config) {
		c.metricsRecorder = recorder
	}
}

// WithLogger sets the logger that the cache uses for recovered panics
// and key construction warnings. The default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Config) {
		c.log = log
	}
}

// validateArgs is a helper function that panics if the arguments are invalid.
func validateArgs(numShards int) {
	if numShards <= 0 {
		panic("numShards must be greater than 0")
	}
}
