package config

import "time"

// CacheConfig holds the rendezvous-hashed Redis read cache configuration
// fronting matrix queries.
type CacheConfig struct {
	// Addresses of the Redis nodes participating in the rendezvous ring
	Addresses   []string      `mapstructure:"addresses" validate:"required,min=1"`

	// KeyPrefix namespaces cache keys for this deployment
	KeyPrefix   string        `mapstructure:"key_prefix"`

	// TTL controls how long a cached matrix query result is served before
	// a fresh aggregate is required
	TTL         time.Duration `mapstructure:"ttl" validate:"required"`

	// DialTimeout bounds establishing a connection to a Redis node
	DialTimeout time.Duration `mapstructure:"dial_timeout" validate:"required"`
}
