package config

import "time"

// MLConfig holds the ML predictor gRPC service configuration (training and
// prediction for catch-location/species weight models).
type MLConfig struct {
	// gRPC service address (host:port)
	Address string          `mapstructure:"address" validate:"required"`

	// Timeout settings for different operations
	Timeout MLTimeoutConfig `mapstructure:"timeout"`
}

// MLTimeoutConfig holds timeout configuration for ML operations
type MLTimeoutConfig struct {
	// Connection timeout
	Connect time.Duration `mapstructure:"connect" validate:"required"`

	// Training timeout (gradient-boosted model fit)
	Train   time.Duration `mapstructure:"train" validate:"required"`

	// Prediction timeout (batch scoring of a week x species x location grid)
	Predict time.Duration `mapstructure:"predict" validate:"required"`
}
