package config

import (
	"fmt"
	"net"
	"regexp"
	"strings"
	"time"

	"github.com/shaiso/Analysis/internal/domain"
)

// Config — полная конфигурация всех бинарников.
type Config struct {
	Report   ReportConfig
	Exporter ExporterConfig
	Data     DataConfig
	Postgres PostgresConfig
	RabbitMQ RabbitMQConfig
	S3       S3Config
	Sentry   SentryConfig
	Watch    WatchConfig
	Gateway  GatewayConfig
}

// ReportConfig — отправка отчёта в chat webhook.
type ReportConfig struct {
	// Enabled — отключается флагом --no-report.
	Enabled bool
	// HookURL — базовый URL, к которому дописывается Secret.
	HookURL string `validate:"required,url"`
	Secret  string `validate:"required_if=Enabled true"`
	// Include — регулярное выражение для фильтрации задач в отчёте.
	Include string `validate:"required"`
}

// URL возвращает полный адрес webhook.
func (c ReportConfig) URL() string {
	return c.HookURL + c.Secret
}

// IncludeRegexp компилирует Include с привязкой к началу строки.
func (c ReportConfig) IncludeRegexp() (*regexp.Regexp, error) {
	re, err := regexp.Compile("^(?:" + c.Include + ")")
	if err != nil {
		return nil, fmt.Errorf("compile report include %q: %w", c.Include, err)
	}
	return re, nil
}

// ExporterConfig — textfile для node-exporter.
type ExporterConfig struct {
	TextfilePath string `validate:"required"`
	// ClientVersions — "implementation=version" через запятую.
	ClientVersions string
}

// Clients разбирает ClientVersions.
func (c ExporterConfig) Clients() ([]domain.ClientVersion, error) {
	return ParseClientVersions(c.ClientVersions)
}

// DataConfig — каталог с логами сценариев.
type DataConfig struct {
	Dir string `validate:"required"`
}

// PostgresConfig — хранилище результатов. Пустой URL отключает сохранение.
type PostgresConfig struct {
	URL string
}

// Enabled сообщает, настроено ли хранилище.
func (c PostgresConfig) Enabled() bool { return c.URL != "" }

// RabbitMQConfig — публикация событий. Пустой URL отключает события.
type RabbitMQConfig struct {
	URL string `validate:"omitempty,url"`
}

// Enabled сообщает, настроен ли брокер.
func (c RabbitMQConfig) Enabled() bool { return c.URL != "" }

// S3Config — архивирование каталога с результатами.
type S3Config struct {
	Endpoint  string
	AccessKey string `validate:"required_with=Endpoint"`
	SecretKey string `validate:"required_with=Endpoint"`
	Bucket    string `validate:"required_with=Endpoint"`
	UseSSL    bool
}

// Enabled сообщает, настроено ли архивирование.
func (c S3Config) Enabled() bool { return c.Endpoint != "" }

// SentryConfig — отправка ошибок.
type SentryConfig struct {
	DSN string
}

// WatchConfig — настройки watcher'а.
type WatchConfig struct {
	Schedule string        `validate:"required"`
	Settle   time.Duration `validate:"gte=0"`
	Pattern  string        `validate:"required"`
	Port     int           `validate:"gt=0,lte=65535"`
}

// GatewayConfig — настройки gateway.
type GatewayConfig struct {
	ServerName      string `validate:"omitempty,hostname"`
	AllowCIDRs      string `validate:"required"`
	NodeExporterURL string `validate:"required,url"`
	HTTPAddr        string `validate:"required"`
	HTTPSAddr       string `validate:"required"`
	ACMECacheDir    string `validate:"required"`
}

// TLSEnabled сообщает, нужно ли выпускать сертификаты через ACME.
func (c GatewayConfig) TLSEnabled() bool { return c.ServerName != "" }

// Networks разбирает AllowCIDRs.
func (c GatewayConfig) Networks() ([]*net.IPNet, error) {
	return ParseCIDRs(c.AllowCIDRs)
}

// ParseCIDRs разбирает список CIDR через запятую.
// Одиночный IP трактуется как /32 (или /128 для IPv6).
func ParseCIDRs(s string) ([]*net.IPNet, error) {
	var nets []*net.IPNet
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if !strings.Contains(part, "/") {
			ip := net.ParseIP(part)
			if ip == nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidCIDR, part)
			}
			bits := 128
			if ip.To4() != nil {
				ip = ip.To4()
				bits = 32
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}

		_, ipNet, err := net.ParseCIDR(part)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCIDR, part)
		}
		nets = append(nets, ipNet)
	}

	if len(nets) == 0 {
		return nil, fmt.Errorf("%w: empty allowlist", ErrInvalidCIDR)
	}
	return nets, nil
}

// ParseClientVersions разбирает "impl=version,impl2=version2".
func ParseClientVersions(s string) ([]domain.ClientVersion, error) {
	var clients []domain.ClientVersion
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		impl, version, ok := strings.Cut(part, "=")
		if !ok || impl == "" {
			return nil, fmt.Errorf("%w: %q, expected IMPLEMENTATION=VERSION", ErrInvalidClientVersion, part)
		}
		clients = append(clients, domain.ClientVersion{
			Implementation: strings.TrimSpace(impl),
			Version:        strings.TrimSpace(version),
		})
	}
	return clients, nil
}
