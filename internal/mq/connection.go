package mq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/multierr"
)

// maxReconnectDelay — верхняя граница задержки между попытками reconnect.
const maxReconnectDelay = 30 * time.Second

// Connection держит AMQP соединение и один канал поверх него.
//
// Разорванное соединение поднимается заново в фоновой горутине;
// после каждого успешного переподключения в ReconnectNotify
// приходит сигнал, по которому consumer'ы заново подписываются.
type Connection struct {
	url    string
	logger *slog.Logger

	mu   sync.RWMutex
	conn *amqp.Connection
	ch   *amqp.Channel

	reconnected chan struct{}

	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

// NewConnection подключается к брокеру по url.
// Ошибка возвращается, только если не удалась первая попытка.
func NewConnection(url string, logger *slog.Logger) (*Connection, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Connection{
		url:         url,
		logger:      logger.With("component", "amqp"),
		reconnected: make(chan struct{}, 1),
		done:        make(chan struct{}),
	}

	conn, err := c.open()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	go c.supervise(ctx, conn)

	return c, nil
}

// open подключается к брокеру, открывает канал и делает их текущими.
func (c *Connection) open() (*amqp.Connection, error) {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	c.mu.Lock()
	c.conn, c.ch = conn, ch
	c.mu.Unlock()

	c.logger.Info("amqp connected", "host", conn.RemoteAddr().String())
	return conn, nil
}

// supervise ждёт разрыва conn и переподключается, пока не отменён ctx.
func (c *Connection) supervise(ctx context.Context, conn *amqp.Connection) {
	defer close(c.done)

	for {
		lost := conn.NotifyClose(make(chan *amqp.Error, 1))

		select {
		case <-ctx.Done():
			return
		case amqpErr := <-lost:
			if ctx.Err() != nil {
				return
			}
			c.logger.Warn("amqp connection lost", "error", amqpErr)
		}

		next, err := c.redial(ctx)
		if err != nil {
			return
		}
		conn = next

		select {
		case c.reconnected <- struct{}{}:
		default:
		}
	}
}

// redial повторяет open с растущей задержкой.
// Возвращает ошибку только при отмене ctx.
func (c *Connection) redial(ctx context.Context) (*amqp.Connection, error) {
	for attempt := 0; ; attempt++ {
		delay := retryDelay(attempt)
		c.logger.Info("amqp reconnecting", "attempt", attempt+1, "delay", delay)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		conn, err := c.open()
		if err != nil {
			c.logger.Warn("amqp reconnect failed", "attempt", attempt+1, "error", err)
			continue
		}
		return conn, nil
	}
}

// retryDelay — задержка перед попыткой attempt (с нуля):
// 1s, 2s, 4s и далее вдвое, но не больше maxReconnectDelay.
func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	delay := time.Second << min(attempt, 5)
	return min(delay, maxReconnectDelay)
}

// Channel возвращает текущий канал или nil, если соединения нет.
func (c *Connection) Channel() *amqp.Channel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ch
}

// ReconnectNotify сигналит после каждого успешного переподключения.
func (c *Connection) ReconnectNotify() <-chan struct{} {
	return c.reconnected
}

// WithChannel вызывает fn с текущим открытым каналом.
// Если канала нет, возвращает ErrNoChannel.
func (c *Connection) WithChannel(ctx context.Context, fn func(ch *amqp.Channel) error) error {
	ch := c.Channel()
	if ch == nil || ch.IsClosed() {
		return ErrNoChannel
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ch)
}

// Close останавливает переподключение и закрывает канал и соединение.
// Повторные вызовы ничего не делают.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		if c.cancel != nil {
			c.cancel()
			<-c.done
		}

		c.mu.Lock()
		ch, conn := c.ch, c.conn
		c.ch, c.conn = nil, nil
		c.mu.Unlock()

		if ch != nil {
			if closeErr := ch.Close(); closeErr != nil && !errors.Is(closeErr, amqp.ErrClosed) {
				err = multierr.Append(err, fmt.Errorf("close channel: %w", closeErr))
			}
		}
		if conn != nil {
			if closeErr := conn.Close(); closeErr != nil && !errors.Is(closeErr, amqp.ErrClosed) {
				err = multierr.Append(err, fmt.Errorf("close connection: %w", closeErr))
			}
		}

		c.logger.Info("amqp connection closed")
	})
	return err
}
