// Package config provides configuration structures and loading for Hercules.
package config

// Source types understood by the loader.
const (
	SourceCSV      = "csv"
	SourceMySQL    = "mysql"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
	SourceMSSQL    = "sqlserver"
)

// Config represents the complete application configuration.
type Config struct {
	Source    SourceConfig    `yaml:"source" mapstructure:"source"`
	Discovery DiscoveryConfig `yaml:"discovery" mapstructure:"discovery"`
	Report    ReportConfig    `yaml:"report" mapstructure:"report"`
	Logging   LoggingConfig   `yaml:"logging" mapstructure:"logging"`
}

// SourceConfig describes where the dataset is read from.
type SourceConfig struct {
	Type string `yaml:"type" mapstructure:"type"` // csv, mysql, postgres, sqlite, sqlserver

	// CSV (and sqlite file) settings
	Path       string   `yaml:"path" mapstructure:"path"`
	Delimiter  string   `yaml:"delimiter" mapstructure:"delimiter"`
	Encoding   string   `yaml:"encoding" mapstructure:"encoding"`
	HasHeader  bool     `yaml:"has_header" mapstructure:"has_header"`
	NAValues   []string `yaml:"na_values" mapstructure:"na_values"`
	InferTypes bool     `yaml:"infer_types" mapstructure:"infer_types"`
	MaxRows    int      `yaml:"max_rows" mapstructure:"max_rows"` // 0 = unlimited

	// SQL server settings
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	Database string `yaml:"database" mapstructure:"database"`
	TLS      string `yaml:"tls" mapstructure:"tls"` // disable, preferred, required
	Table    string `yaml:"table" mapstructure:"table"`
	Query    string `yaml:"query" mapstructure:"query"`

	// Object storage, used when Path is an s3:// URL
	S3 S3Config `yaml:"s3" mapstructure:"s3"`
}

// S3Config holds the credentials for reading CSV files from S3 or any
// S3-compatible store such as MinIO.
type S3Config struct {
	Endpoint  string `yaml:"endpoint" mapstructure:"endpoint"` // host[:port]
	Region    string `yaml:"region" mapstructure:"region"`
	AccessKey string `yaml:"access_key" mapstructure:"access_key"`
	SecretKey string `yaml:"secret_key" mapstructure:"secret_key"`
	Secure    bool   `yaml:"secure" mapstructure:"secure"`
}

// IsSQL reports whether the source is read through database/sql.
func (s SourceConfig) IsSQL() bool {
	switch s.Type {
	case SourceMySQL, SourcePostgres, SourceSQLite, SourceMSSQL:
		return true
	}
	return false
}

// Name returns a short label for logs and report headers.
func (s SourceConfig) Name() string {
	switch {
	case s.Type == SourceCSV || s.Type == "":
		return s.Path
	case s.Query != "":
		return s.Type + ":query"
	default:
		return s.Type + ":" + s.Table
	}
}

// NAMarkers returns the configured missing-value markers, falling back to
// DefaultNAValues when none are set.
func (s SourceConfig) NAMarkers() []string {
	if s.NAValues == nil {
		return DefaultNAValues
	}
	return s.NAValues
}

// DiscoveryConfig controls the business key search.
type DiscoveryConfig struct {
	MaxKeyLen      int `yaml:"max_key_len" mapstructure:"max_key_len"`
	Workers        int `yaml:"workers" mapstructure:"workers"`
	ChunkSize      int `yaml:"chunk_size" mapstructure:"chunk_size"`
	TimeoutSeconds int `yaml:"timeout_seconds" mapstructure:"timeout_seconds"` // 0 = no timeout
}

// ReportConfig controls report rendering.
type ReportConfig struct {
	Format     string `yaml:"format" mapstructure:"format"` // text, json, yaml
	Color      bool   `yaml:"color" mapstructure:"color"`
	KeysOnly   bool   `yaml:"keys_only" mapstructure:"keys_only"`
	SampleRows int    `yaml:"sample_rows" mapstructure:"sample_rows"`
	Output     string `yaml:"output" mapstructure:"output"` // stdout or file path
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultNAValues are the cells read as missing when na_values is unset.
var DefaultNAValues = []string{"", "NA", "N/A", "n/a", "NULL", "null", "NaN", "nan", "None", "#N/A", "<NA>"}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Type:       SourceCSV,
			Delimiter:  ",",
			Encoding:   "utf-8",
			HasHeader:  true,
			InferTypes: true,
			TLS:        "preferred",
			S3: S3Config{
				Endpoint: "s3.amazonaws.com",
				Secure:   true,
			},
		},
		Discovery: DiscoveryConfig{
			MaxKeyLen: 4,
			Workers:   1,
			ChunkSize: 256,
		},
		Report: ReportConfig{
			Format:     "text",
			Color:      true,
			SampleRows: 10,
			Output:     "stdout",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// DefaultPort returns the conventional port for a SQL source type.
func DefaultPort(sourceType string) int {
	switch sourceType {
	case SourceMySQL:
		return 3306
	case SourcePostgres:
		return 5432
	case SourceMSSQL:
		return 1433
	}
	return 0
}
