package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"regexp"
	"time"

	"github.com/shaiso/Analysis/internal/domain"
	"github.com/shaiso/Analysis/internal/stats"
)

const defaultTimeout = 30 * time.Second

// Message — тело запроса к webhook.
type Message struct {
	Text string `json:"text"`
}

// Client — клиент chat webhook.
type Client struct {
	hookURL    string
	include    *regexp.Regexp
	httpClient *http.Client
}

// NewClient создаёт клиент для hookURL.
// include фильтрует задачи, попадающие в отчёт; nil — все задачи.
func NewClient(hookURL string, include *regexp.Regexp) *Client {
	return &Client{
		hookURL: hookURL,
		include: include,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// ReportText формирует текст отчёта для logfile.
func ReportText(logfile string, raw []domain.RawStat, include *regexp.Regexp) string {
	if include != nil {
		raw = stats.Filter(raw, include)
	}
	return fmt.Sprintf("###### Stats for %s\n", filepath.Base(logfile)) + stats.MarkdownTable(raw)
}

// EmptyText формирует текст сообщения для лога без задач.
func EmptyText(logfile string) string {
	return fmt.Sprintf("No output for %s\n", filepath.Base(logfile))
}

// PostReport отправляет статистику прогона.
func (c *Client) PostReport(ctx context.Context, logfile string, raw []domain.RawStat) error {
	return c.Post(ctx, Message{Text: ReportText(logfile, raw, c.include)})
}

// PostEmpty сообщает, что в логе нет задач.
func (c *Client) PostEmpty(ctx context.Context, logfile string) error {
	return c.Post(ctx, Message{Text: EmptyText(logfile)})
}

// Post отправляет сообщение в webhook.
func (c *Client) Post(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: marshal message: %v", ErrWebhookRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.hookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: create request: %v", ErrWebhookRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWebhookRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: HTTP %d: %s", ErrWebhookStatus, resp.StatusCode, truncate(string(respBody), 200))
	}

	// Дочитываем тело, чтобы соединение вернулось в пул
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// truncate обрезает строку до указанной длины.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
