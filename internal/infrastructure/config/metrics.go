package config

// MetricsConfig controls the Prometheus scrape endpoint.
type MetricsConfig struct {
	// Collect and expose metrics at all
	Enabled bool   `mapstructure:"enabled"`

	// Scrape-endpoint HTTP port
	Port    int    `mapstructure:"port" validate:"omitempty,min=1024,max=65535"`

	// Bind host; defaults to localhost so the endpoint is not public
	Host    string `mapstructure:"host"`

	// Endpoint path, normally /metrics
	Path    string `mapstructure:"path"`
}
