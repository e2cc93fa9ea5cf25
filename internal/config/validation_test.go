package config

import (
	"errors"
	"strings"
	"testing"
)

func validCSVConfig() *Config {
	cfg := DefaultConfig()
	cfg.Source.Path = "data.csv"
	return cfg
}

func validMySQLConfig() *Config {
	cfg := DefaultConfig()
	cfg.Source = SourceConfig{
		Type:     SourceMySQL,
		Host:     "localhost",
		Port:     3306,
		User:     "reader",
		Database: "geo",
		TLS:      "preferred",
		Table:    "communes",
	}
	return cfg
}

func TestValidate_Valid(t *testing.T) {
	if err := validCSVConfig().Validate(); err != nil {
		t.Errorf("expected csv config to be valid, got %v", err)
	}
	if err := validMySQLConfig().Validate(); err != nil {
		t.Errorf("expected mysql config to be valid, got %v", err)
	}

	sqlite := DefaultConfig()
	sqlite.Source = SourceConfig{Type: SourceSQLite, Path: "geo.db", Query: "SELECT * FROM communes"}
	if err := sqlite.Validate(); err != nil {
		t.Errorf("expected sqlite config to be valid, got %v", err)
	}

	mssql := validMySQLConfig()
	mssql.Source.Type = SourceMSSQL
	mssql.Source.Port = 1433
	if err := mssql.Validate(); err != nil {
		t.Errorf("expected sqlserver config to be valid, got %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantField string
	}{
		{"csv without path", func(c *Config) { c.Source.Path = "" }, "source.path"},
		{"multi char delimiter", func(c *Config) { c.Source.Delimiter = ";;" }, "source.delimiter"},
		{"negative max rows", func(c *Config) { c.Source.MaxRows = -1 }, "source.max_rows"},
		{"unknown source type", func(c *Config) { c.Source.Type = "excel" }, "source.type"},
		{"negative workers", func(c *Config) { c.Discovery.Workers = -1 }, "discovery.workers"},
		{"negative chunk size", func(c *Config) { c.Discovery.ChunkSize = -1 }, "discovery.chunk_size"},
		{"negative timeout", func(c *Config) { c.Discovery.TimeoutSeconds = -5 }, "discovery.timeout_seconds"},
		{"bad report format", func(c *Config) { c.Report.Format = "html" }, "report.format"},
		{"negative sample rows", func(c *Config) { c.Report.SampleRows = -1 }, "report.sample_rows"},
		{"bad log level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validCSVConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}

			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %T", err)
			}
			found := false
			for _, e := range verrs {
				if e.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on field %s, got %v", tt.wantField, verrs)
			}
		})
	}
}

func TestValidate_SQLSource(t *testing.T) {
	cfg := validMySQLConfig()
	cfg.Source.Host = ""
	cfg.Source.Port = 70000
	cfg.Source.User = ""
	cfg.Source.Database = ""
	cfg.Source.TLS = "sometimes"
	cfg.Source.Table = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}

	verrs := err.(ValidationErrors)
	if len(verrs) != 6 {
		t.Errorf("expected 6 errors, got %d: %v", len(verrs), verrs)
	}
}

func TestValidate_NonPositiveMaxKeyLenIsAllowed(t *testing.T) {
	cfg := validCSVConfig()
	cfg.Discovery.MaxKeyLen = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("max_key_len 0 should degrade to an empty result, not fail validation: %v", err)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	var empty ValidationErrors
	if empty.Error() != "" {
		t.Errorf("expected empty message, got %q", empty.Error())
	}

	errs := ValidationErrors{
		{Field: "source.path", Message: "path is required"},
		{Field: "report.format", Message: "bad"},
	}
	msg := errs.Error()
	if !strings.HasPrefix(msg, "validation failed:") {
		t.Errorf("unexpected prefix: %q", msg)
	}
	if !strings.Contains(msg, "source.path: path is required") || !strings.Contains(msg, "report.format: bad") {
		t.Errorf("message missing entries: %q", msg)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Discovery.MaxKeyLen != 4 {
		t.Errorf("expected default max_key_len 4, got %d", cfg.Discovery.MaxKeyLen)
	}
	if cfg.Source.Type != SourceCSV {
		t.Errorf("expected csv default source, got %s", cfg.Source.Type)
	}
	if len(cfg.Source.NAMarkers()) != len(DefaultNAValues) {
		t.Error("expected default NA markers when none configured")
	}
	if cfg.Source.IsSQL() {
		t.Error("csv source should not be SQL")
	}
}

func TestSourceConfig_Name(t *testing.T) {
	tests := []struct {
		src  SourceConfig
		want string
	}{
		{SourceConfig{Type: SourceCSV, Path: "a.csv"}, "a.csv"},
		{SourceConfig{Type: SourceMySQL, Table: "communes"}, "mysql:communes"},
		{SourceConfig{Type: SourcePostgres, Query: "SELECT 1"}, "postgres:query"},
	}
	for _, tt := range tests {
		if got := tt.src.Name(); got != tt.want {
			t.Errorf("Name() = %q, want %q", got, tt.want)
		}
	}
}
