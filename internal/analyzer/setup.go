package analyzer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/multierr"

	"github.com/shaiso/Analysis/internal/archive"
	"github.com/shaiso/Analysis/internal/config"
	"github.com/shaiso/Analysis/internal/mq"
	"github.com/shaiso/Analysis/internal/notify"
	"github.com/shaiso/Analysis/internal/repo"
	"github.com/shaiso/Analysis/internal/sinks"
)

// Resources — внешние подключения, открытые по конфигурации.
// Поля, чьи сервисы не настроены, остаются nil.
type Resources struct {
	Pool      *pgxpool.Pool
	Repo      *repo.AnalysisRepo
	Conn      *mq.Connection
	Publisher *mq.Publisher
	Uploader  *archive.Uploader
}

// Open подключается к настроенным сервисам: PostgreSQL, RabbitMQ, S3.
// При ошибке уже открытые подключения закрываются.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (res *Resources, err error) {
	res = &Resources{}
	defer func() {
		if err != nil {
			err = multierr.Append(err, res.Close())
			res = nil
		}
	}()

	if cfg.Postgres.Enabled() {
		pool, err := repo.NewPool(ctx, cfg.Postgres.URL)
		if err != nil {
			return res, err
		}
		res.Pool = pool
		if err := repo.EnsureSchema(ctx, pool); err != nil {
			return res, err
		}
		res.Repo = repo.NewAnalysisRepo(pool)
		logger.Info("connected to database")
	}

	if cfg.RabbitMQ.Enabled() {
		conn, err := mq.NewConnection(cfg.RabbitMQ.URL, logger)
		if err != nil {
			return res, err
		}
		res.Conn = conn
		if err := mq.SetupTopology(ctx, conn); err != nil {
			return res, err
		}
		res.Publisher = mq.NewPublisher(conn, logger)
		logger.Info("connected to rabbitmq")
	}

	if cfg.S3.Enabled() {
		uploader, err := archive.NewUploader(ctx, cfg.S3)
		if err != nil {
			return res, err
		}
		res.Uploader = uploader
		logger.Info("connected to object storage", "bucket", uploader.Bucket())
	}

	return res, nil
}

// Close закрывает открытые подключения.
func (r *Resources) Close() error {
	if r == nil {
		return nil
	}

	var err error
	if r.Conn != nil {
		err = multierr.Append(err, r.Conn.Close())
	}
	if r.Pool != nil {
		r.Pool.Close()
	}
	return err
}

// Sinks собирает получателей результата.
//
// Webhook регистрируется, если включена отправка отчёта.
// Остальные sink'и регистрируются для открытых подключений.
func (r *Resources) Sinks(cfg *config.Config) (*sinks.Registry, error) {
	registry := sinks.NewRegistry()

	if cfg.Report.Enabled {
		include, err := cfg.Report.IncludeRegexp()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
		}
		registry.Register(sinks.NewWebhookSink(notify.NewClient(cfg.Report.URL(), include)))
	}

	if r == nil {
		return registry, nil
	}
	if r.Repo != nil {
		registry.Register(sinks.NewRepoSink(r.Repo))
	}
	if r.Publisher != nil {
		registry.Register(sinks.NewEventsSink(r.Publisher))
	}
	if r.Uploader != nil {
		registry.Register(sinks.NewArchiveSink(r.Uploader))
	}
	return registry, nil
}

// FromConfig создаёт Analyzer с sink'ами из res.
// res может быть nil: тогда используется только webhook.
func FromConfig(cfg *config.Config, res *Resources, logger *slog.Logger) (*Analyzer, error) {
	clients, err := cfg.Exporter.Clients()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	registry, err := res.Sinks(cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("sinks registered", "sinks", registry.Names())

	return New(Config{
		Sinks:        registry,
		TextfilePath: cfg.Exporter.TextfilePath,
		Clients:      clients,
		Logger:       logger,
	}), nil
}
