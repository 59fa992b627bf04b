package config

import "time"

// DatabaseConfig selects and tunes the row-store backend. Production
// runs postgres; sqlite exists for tests and local one-shot runs.
type DatabaseConfig struct {
	// "postgres" or "sqlite"
	Type     string     `mapstructure:"type" validate:"required,oneof=postgres sqlite"`

	// Full connection URL; wins over the individual fields below
	URL      string     `mapstructure:"url"`

	// Assembled into a DSN when URL is empty
	Host     string     `mapstructure:"host"`
	Port     int        `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	User     string     `mapstructure:"user"`
	Password string     `mapstructure:"password"`
	Name     string     `mapstructure:"name"`
	SSLMode  string     `mapstructure:"sslmode" validate:"omitempty,oneof=disable require verify-ca verify-full"`

	// SQLite file path; empty means in-memory
	Path     string     `mapstructure:"path"`

	// Pool sizing for the shared gorm handle
	Pool     PoolConfig `mapstructure:"pool"`
}

// PoolConfig caps the shared connection pool.
type PoolConfig struct {
	MaxOpen     int           `mapstructure:"max_open" validate:"min=1"`
	MaxIdle     int           `mapstructure:"max_idle" validate:"min=1"`
	MaxLifetime time.Duration `mapstructure:"max_lifetime"`
}
