package config

import (
	"embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/amrdb/internal/platform/envutil"
)

const configPathEnv = "AMRDB_CONFIG"

//go:embed default.yaml
var defaultFS embed.FS

type Config struct {
	LogMode       string        `yaml:"log_mode"`
	Database      Database      `yaml:"database"`
	Reconcile     Reconcile     `yaml:"reconcile"`
	Storage       Storage       `yaml:"storage"`
	Observability Observability `yaml:"observability"`
}

type Database struct {
	Driver   string `yaml:"driver"`
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// PostgresDSN returns DSN verbatim when it looks like a postgres URL or
// key/value string, otherwise builds one from the discrete fields.
func (d Database) PostgresDSN() string {
	dsn := strings.TrimSpace(d.DSN)
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return dsn
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

type Reconcile struct {
	InternalTag        string  `yaml:"internal_tag"`
	PhenotypeDelimiter string  `yaml:"phenotype_delimiter"`
	IdentityMin        float64 `yaml:"identity_min"`
	CoverageMin        float64 `yaml:"coverage_min"`
}

type Storage struct {
	S3Region    string `yaml:"s3_region"`
	S3Endpoint  string `yaml:"s3_endpoint"`
	S3PathStyle bool   `yaml:"s3_path_style"`
}

type Observability struct {
	ServiceName     string  `yaml:"service_name"`
	MetricsTextfile string  `yaml:"metrics_textfile"`
	Tracing         Tracing `yaml:"tracing"`
}

// Tracing selects the span exporter. An empty exporter means otlp when an
// endpoint is set, stdout otherwise.
type Tracing struct {
	Enabled     bool    `yaml:"enabled"`
	Exporter    string  `yaml:"exporter"`
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	Headers     string  `yaml:"headers"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// Default returns the embedded configuration without env overrides.
func Default() (*Config, error) {
	data, err := defaultFS.ReadFile("default.yaml")
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse default: %w", err)
	}
	return &cfg, nil
}

// Load layers the embedded default, an optional YAML file (path, or
// AMRDB_CONFIG when path is empty) and environment overrides, then validates.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(path) == "" {
		path = envutil.String(configPathEnv, "")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.LogMode = envutil.String("LOG_MODE", c.LogMode)

	c.Database.Driver = envutil.String("AMRDB_DB_DRIVER", c.Database.Driver)
	c.Database.DSN = envutil.String("AMRDB_DB_DSN", c.Database.DSN)
	c.Database.Host = envutil.String("POSTGRES_HOST", c.Database.Host)
	c.Database.Port = envutil.Int("POSTGRES_PORT", c.Database.Port)
	c.Database.User = envutil.String("POSTGRES_USER", c.Database.User)
	c.Database.Password = envutil.String("POSTGRES_PASSWORD", c.Database.Password)
	c.Database.Name = envutil.String("POSTGRES_NAME", c.Database.Name)

	c.Reconcile.InternalTag = envutil.String("AMRDB_INTERNAL_TAG", c.Reconcile.InternalTag)
	c.Reconcile.IdentityMin = envutil.Float("AMRDB_IDENTITY_MIN", c.Reconcile.IdentityMin)
	c.Reconcile.CoverageMin = envutil.Float("AMRDB_COVERAGE_MIN", c.Reconcile.CoverageMin)

	c.Storage.S3Region = envutil.String("AWS_REGION", c.Storage.S3Region)
	c.Storage.S3Endpoint = envutil.String("AMRDB_S3_ENDPOINT", c.Storage.S3Endpoint)
	c.Storage.S3PathStyle = envutil.Bool("AMRDB_S3_PATH_STYLE", c.Storage.S3PathStyle)

	c.Observability.ServiceName = envutil.String("OTEL_SERVICE_NAME", c.Observability.ServiceName)
	c.Observability.MetricsTextfile = envutil.String("AMRDB_METRICS_TEXTFILE", c.Observability.MetricsTextfile)
	c.Observability.Tracing.Enabled = envutil.Bool("OTEL_ENABLED", c.Observability.Tracing.Enabled)
	c.Observability.Tracing.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", c.Observability.Tracing.Endpoint)
	c.Observability.Tracing.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", c.Observability.Tracing.Insecure)
	c.Observability.Tracing.Headers = envutil.String("OTEL_EXPORTER_OTLP_HEADERS", c.Observability.Tracing.Headers)
	c.Observability.Tracing.SampleRatio = envutil.Float("OTEL_SAMPLER_RATIO", c.Observability.Tracing.SampleRatio)
}

func (c *Config) Validate() error {
	var errs []error
	switch strings.ToLower(strings.TrimSpace(c.Database.Driver)) {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("database.driver: unsupported %q", c.Database.Driver))
	}
	if strings.TrimSpace(c.Reconcile.InternalTag) == "" {
		errs = append(errs, errors.New("reconcile.internal_tag: must not be empty"))
	}
	if c.Reconcile.PhenotypeDelimiter == "" {
		errs = append(errs, errors.New("reconcile.phenotype_delimiter: must not be empty"))
	}
	if !inPercentRange(c.Reconcile.IdentityMin) {
		errs = append(errs, fmt.Errorf("reconcile.identity_min: %s outside (0,100]", fmtFloat(c.Reconcile.IdentityMin)))
	}
	if !inPercentRange(c.Reconcile.CoverageMin) {
		errs = append(errs, fmt.Errorf("reconcile.coverage_min: %s outside (0,100]", fmtFloat(c.Reconcile.CoverageMin)))
	}
	switch strings.ToLower(strings.TrimSpace(c.Observability.Tracing.Exporter)) {
	case "", "stdout", "otlp":
	default:
		errs = append(errs, fmt.Errorf("observability.tracing.exporter: unsupported %q", c.Observability.Tracing.Exporter))
	}
	if r := c.Observability.Tracing.SampleRatio; r < 0 || r > 1 {
		errs = append(errs, fmt.Errorf("observability.tracing.sample_ratio: %s outside [0,1]", fmtFloat(r)))
	}
	return errors.Join(errs...)
}

func inPercentRange(v float64) bool { return v > 0 && v <= 100 }

func fmtFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
