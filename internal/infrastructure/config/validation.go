package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidateConfig runs struct-tag validation plus the cross-field rules
// tags alone cannot express, and flattens everything into one readable
// error so a bad deploy fails with the full list, not the first field.
func ValidateConfig(cfg *Config) error {
	v := validator.New()
	v.RegisterStructValidation(validateLogging, LoggingConfig{})
	v.RegisterStructValidation(validateDatabase, DatabaseConfig{})

	if err := v.Struct(cfg); err != nil {
		return flatten(err)
	}
	return nil
}

// validateLogging: file output is only meaningful with a file path.
func validateLogging(sl validator.StructLevel) {
	lc := sl.Current().Interface().(LoggingConfig)
	if lc.Output == "file" && lc.FilePath == "" {
		sl.ReportError(lc.FilePath, "FilePath", "file_path", "required_for_file_output", "")
	}
}

// validateDatabase: postgres needs either a URL or host+name; sqlite
// needs neither (an empty path means in-memory).
func validateDatabase(sl validator.StructLevel) {
	dc := sl.Current().Interface().(DatabaseConfig)
	if dc.Type == "postgres" && dc.URL == "" && (dc.Host == "" || dc.Name == "") {
		sl.ReportError(dc.URL, "URL", "url", "postgres_needs_url_or_host_and_name", "")
	}
}

func flatten(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: %s (got %q)", e.Namespace(), e.Tag(), fmt.Sprint(e.Value())))
	}
	return fmt.Errorf("invalid configuration:\n  %s", strings.Join(msgs, "\n  "))
}
