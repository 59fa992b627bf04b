package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "postgres"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "kyogre"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "kyogre"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Scrape defaults
	if cfg.Scrape.Timeout == 0 {
		cfg.Scrape.Timeout = 30 * time.Second
	}
	if cfg.Scrape.RateLimit.Requests == 0 {
		cfg.Scrape.RateLimit.Requests = 2
	}
	if cfg.Scrape.RateLimit.Burst == 0 {
		cfg.Scrape.RateLimit.Burst = 10
	}
	if cfg.Scrape.Retry.MaxAttempts == 0 {
		cfg.Scrape.Retry.MaxAttempts = 3
	}
	if cfg.Scrape.Retry.BackoffBase == 0 {
		cfg.Scrape.Retry.BackoffBase = 1 * time.Second
	}

	// ML defaults
	if cfg.ML.Address == "" {
		cfg.ML.Address = "localhost:50051"
	}
	if cfg.ML.Timeout.Connect == 0 {
		cfg.ML.Timeout.Connect = 10 * time.Second
	}
	if cfg.ML.Timeout.Train == 0 {
		cfg.ML.Timeout.Train = 10 * time.Minute
	}
	if cfg.ML.Timeout.Predict == 0 {
		cfg.ML.Timeout.Predict = 60 * time.Second
	}

	// Orchestrator defaults
	if cfg.Orchestrator.Address == "" {
		cfg.Orchestrator.Address = "localhost:50052"
	}
	if cfg.Orchestrator.SocketPath == "" {
		cfg.Orchestrator.SocketPath = "/tmp/kyogre-orchestrator.sock"
	}
	if cfg.Orchestrator.PIDFile == "" {
		cfg.Orchestrator.PIDFile = "/tmp/kyogre-orchestrator.pid"
	}
	if cfg.Orchestrator.WorkerPoolSize == 0 {
		cfg.Orchestrator.WorkerPoolSize = 8
	}
	if cfg.Orchestrator.SleepInterval == 0 {
		cfg.Orchestrator.SleepInterval = 5 * time.Minute
	}
	if cfg.Orchestrator.ShutdownTimeout == 0 {
		cfg.Orchestrator.ShutdownTimeout = 30 * time.Second
	}
	if cfg.Orchestrator.RestartPolicy.MaxAttempts == 0 {
		cfg.Orchestrator.RestartPolicy.MaxAttempts = 3
	}
	if cfg.Orchestrator.RestartPolicy.Delay == 0 {
		cfg.Orchestrator.RestartPolicy.Delay = 5 * time.Second
	}
	if cfg.Orchestrator.RestartPolicy.BackoffMultiplier == 0 {
		cfg.Orchestrator.RestartPolicy.BackoffMultiplier = 2.0
	}

	// SearchIndex defaults
	if cfg.SearchIndex.TripsIndex == "" {
		cfg.SearchIndex.TripsIndex = "trips"
	}
	if cfg.SearchIndex.HaulsIndex == "" {
		cfg.SearchIndex.HaulsIndex = "hauls"
	}
	if cfg.SearchIndex.DeleteChunkSize == 0 {
		cfg.SearchIndex.DeleteChunkSize = 50_000
	}
	if cfg.SearchIndex.UpsertChunkSize == 0 {
		cfg.SearchIndex.UpsertChunkSize = 20_000
	}
	if cfg.SearchIndex.RunTimeout == 0 {
		cfg.SearchIndex.RunTimeout = 60 * time.Minute
	}

	// Cache defaults
	if len(cfg.Cache.Addresses) == 0 {
		cfg.Cache.Addresses = []string{"localhost:6379"}
	}
	if cfg.Cache.KeyPrefix == "" {
		cfg.Cache.KeyPrefix = "kyogre:matrix"
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 15 * time.Minute
	}
	if cfg.Cache.DialTimeout == 0 {
		cfg.Cache.DialTimeout = 5 * time.Second
	}

	// Fuel defaults
	if cfg.Fuel.UnrealisticSpeedKnots == 0 {
		cfg.Fuel.UnrealisticSpeedKnots = 70.0
	}
	if cfg.Fuel.GearActiveMultiplier == 0 {
		cfg.Fuel.GearActiveMultiplier = 1.75
	}
	if cfg.Fuel.MinOverlapRatio == 0 {
		cfg.Fuel.MinOverlapRatio = 0.5
	}
	if cfg.Fuel.CommitBatchSize == 0 {
		cfg.Fuel.CommitBatchSize = 50
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
	if cfg.Logging.Rotation.MaxSize == 0 {
		cfg.Logging.Rotation.MaxSize = 100 // MB
	}
	if cfg.Logging.Rotation.MaxBackups == 0 {
		cfg.Logging.Rotation.MaxBackups = 3
	}
	if cfg.Logging.Rotation.MaxAge == 0 {
		cfg.Logging.Rotation.MaxAge = 28 // days
	}
}
