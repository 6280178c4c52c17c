package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// DefaultReportInclude — задачи, попадающие в отчёт по умолчанию.
const DefaultReportInclude = `^Transfer.*|.*ChannelTask$|DepositTask$|.*MS.*|.*PFS.*`

// validate — экземпляр валидатора, общий для пакета.
var validate = validator.New()

// Load загружает конфигурацию из окружения и необязательного файла.
// overrides имеют наивысший приоритет (используются флагами CLI).
func Load(overrides map[string]any) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("analysis")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/analysis")

	// Файл необязателен
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	for key, val := range overrides {
		v.Set(key, val)
	}

	return FromViper(v)
}

// FromViper собирает Config из уже настроенного viper.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	// Report
	cfg.Report.Enabled = v.GetBool("report_enabled")
	cfg.Report.HookURL = v.GetString("report_hook_url")
	cfg.Report.Secret = v.GetString("rc_hook_secret")
	cfg.Report.Include = v.GetString("report_include")

	// Exporter
	cfg.Exporter.TextfilePath = v.GetString("prometheus_node_exporter_path")
	cfg.Exporter.ClientVersions = v.GetString("client_versions")

	// Data
	cfg.Data.Dir = v.GetString("data_dir")

	// Optional sinks
	cfg.Postgres.URL = v.GetString("db_url")
	cfg.RabbitMQ.URL = v.GetString("rabbitmq_url")
	cfg.S3.Endpoint = v.GetString("s3_endpoint")
	cfg.S3.AccessKey = v.GetString("s3_access_key")
	cfg.S3.SecretKey = v.GetString("s3_secret_key")
	cfg.S3.Bucket = v.GetString("s3_bucket")
	cfg.S3.UseSSL = v.GetBool("s3_use_ssl")
	cfg.Sentry.DSN = v.GetString("sentry_dsn")

	// Watcher
	cfg.Watch.Schedule = v.GetString("watch_schedule")
	cfg.Watch.Settle = v.GetDuration("watch_settle")
	cfg.Watch.Pattern = v.GetString("watch_pattern")
	cfg.Watch.Port = v.GetInt("watcher_port")

	// Gateway
	cfg.Gateway.ServerName = v.GetString("server_name")
	cfg.Gateway.AllowCIDRs = v.GetString("cidr_allow_metrics")
	cfg.Gateway.NodeExporterURL = v.GetString("node_exporter_url")
	cfg.Gateway.HTTPAddr = v.GetString("gateway_http_addr")
	cfg.Gateway.HTTPSAddr = v.GetString("gateway_https_addr")
	cfg.Gateway.ACMECacheDir = v.GetString("acme_cache_dir")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет конфигурацию.
func (c *Config) Validate() error {
	if c.Report.Enabled && c.Report.Secret == "" {
		return ErrMissingHookSecret
	}

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, formatValidationErrors(err))
	}

	if _, err := c.Report.IncludeRegexp(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := c.Exporter.Clients(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := c.Gateway.Networks(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Report
	v.SetDefault("report_enabled", true)
	v.SetDefault("report_hook_url", "https://chat.brainbot.com/hooks/")
	v.SetDefault("rc_hook_secret", "")
	v.SetDefault("report_include", DefaultReportInclude)

	// Exporter
	v.SetDefault("prometheus_node_exporter_path", "/tmp/nodexporter.txt")
	v.SetDefault("client_versions", "")

	// Data
	v.SetDefault("data_dir", "/data")

	// Optional sinks
	v.SetDefault("db_url", "")
	v.SetDefault("rabbitmq_url", "")
	v.SetDefault("s3_endpoint", "")
	v.SetDefault("s3_access_key", "")
	v.SetDefault("s3_secret_key", "")
	v.SetDefault("s3_bucket", "scenario-analysis")
	v.SetDefault("s3_use_ssl", true)
	v.SetDefault("sentry_dsn", "")

	// Watcher
	v.SetDefault("watch_schedule", "@every 5m")
	v.SetDefault("watch_settle", "30s")
	v.SetDefault("watch_pattern", "scenario-player-run_*.log*")
	v.SetDefault("watcher_port", 8083)

	// Gateway
	v.SetDefault("server_name", "")
	v.SetDefault("cidr_allow_metrics", "127.0.0.1/32")
	v.SetDefault("node_exporter_url", "http://localhost:9100")
	v.SetDefault("gateway_http_addr", ":80")
	v.SetDefault("gateway_https_addr", ":443")
	v.SetDefault("acme_cache_dir", "/var/cache/analysis-acme")
}

// formatValidationErrors превращает ошибки валидатора в одну строку.
func formatValidationErrors(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", e.Namespace(), e.Tag()))
	}
	return strings.Join(msgs, "; ")
}
