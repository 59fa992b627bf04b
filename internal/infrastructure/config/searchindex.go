package config

import "time"

// SearchIndexConfig holds the meilisearch-backed search-index mirror
// configuration used by the reconciliation pass.
type SearchIndexConfig struct {
	// Host is the meilisearch instance URL
	Host            string        `mapstructure:"host" validate:"required,url"`

	// APIKey authenticates against the meilisearch instance
	APIKey          string        `mapstructure:"api_key"`

	// TripsIndex is the index name mirroring assembled trips
	TripsIndex      string        `mapstructure:"trips_index" validate:"required"`

	// HaulsIndex is the index name mirroring distributed hauls
	HaulsIndex      string        `mapstructure:"hauls_index" validate:"required"`

	// DeleteChunkSize bounds how many IDs are deleted per API call
	DeleteChunkSize int           `mapstructure:"delete_chunk_size" validate:"min=1"`

	// UpsertChunkSize bounds how many documents are upserted per API call
	UpsertChunkSize int           `mapstructure:"upsert_chunk_size" validate:"min=1"`

	// RunTimeout bounds a single reconciliation pass
	RunTimeout      time.Duration `mapstructure:"run_timeout" validate:"required"`
}
