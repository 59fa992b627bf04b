package config

// LoggingConfig controls the pipeline's operator log output.
type LoggingConfig struct {
	// debug, info, warn or error
	Level             string         `mapstructure:"level" validate:"required,oneof=debug info warn error"`

	// json or text
	Format            string         `mapstructure:"format" validate:"required,oneof=json text"`

	// stdout, stderr or file
	Output            string         `mapstructure:"output" validate:"required,oneof=stdout stderr file"`

	// Required when Output is "file"
	FilePath          string         `mapstructure:"file_path"`

	// Rotation of the log file, when writing to one
	Rotation          RotationConfig `mapstructure:"rotation"`

	// Annotate lines with file:line of the call site
	IncludeCaller     bool           `mapstructure:"include_caller"`

	// Attach stack traces to error-level lines
	IncludeStacktrace bool           `mapstructure:"include_stacktrace"`
}

// RotationConfig bounds how much log history a long-running daemon keeps.
type RotationConfig struct {
	// Rotate at all
	Enabled    bool `mapstructure:"enabled"`

	// Megabytes before the current file rolls
	MaxSize    int  `mapstructure:"max_size" validate:"min=1"`

	// Rolled files kept before deletion
	MaxBackups int  `mapstructure:"max_backups" validate:"min=0"`

	// Days a rolled file survives
	MaxAge     int  `mapstructure:"max_age" validate:"min=0"`

	// Gzip rolled files
	Compress   bool `mapstructure:"compress"`
}
