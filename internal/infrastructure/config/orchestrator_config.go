package config

import "time"

// OrchestratorConfig holds the state-machine orchestrator's service
// configuration.
type OrchestratorConfig struct {
	// gRPC server address for the orchestrator's control surface (host:port)
	Address         string              `mapstructure:"address" validate:"required"`

	// Unix socket path for local IPC (e.g. CLI status queries)
	SocketPath      string              `mapstructure:"socket_path"`

	// PID file location
	PIDFile         string              `mapstructure:"pid_file"`

	// Bounded worker pool size used by stages that fan out per-vessel work
	// (trip assembly, haul distribution, fuel estimation)
	WorkerPoolSize  int                 `mapstructure:"worker_pool_size" validate:"min=1"`

	// Interval between Sleep-state wakeups
	SleepInterval   time.Duration       `mapstructure:"sleep_interval" validate:"required"`

	// Stage restart policy on failure
	RestartPolicy   RestartPolicyConfig `mapstructure:"restart_policy"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration       `mapstructure:"shutdown_timeout" validate:"required"`
}

// RestartPolicyConfig holds stage restart policy configuration
type RestartPolicyConfig struct {
	// Enable automatic restart on failure
	Enabled           bool          `mapstructure:"enabled"`

	// Maximum restart attempts before giving up
	MaxAttempts       int           `mapstructure:"max_attempts" validate:"min=0"`

	// Delay between restart attempts
	Delay             time.Duration `mapstructure:"delay"`

	// Backoff multiplier for retry delays
	BackoffMultiplier float64       `mapstructure:"backoff_multiplier" validate:"min=1"`
}
