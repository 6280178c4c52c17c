package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shaiso/Analysis/internal/domain"
)

// AnalysisResponse — анализ из API gateway.
// Дублирует gateway.AnalysisResponse: CLI общается с gateway только по HTTP.
type AnalysisResponse struct {
	ID         string           `json:"id"`
	Logfile    string           `json:"logfile"`
	Scenario   string           `json:"scenario"`
	RunNumber  string           `json:"run_number,omitempty"`
	Status     string           `json:"status"`
	Tasks      int              `json:"tasks"`
	ReportURL  string           `json:"report_url,omitempty"`
	Error      string           `json:"error,omitempty"`
	Stats      []domain.RawStat `json:"stats,omitempty"`
	CreatedAt  string           `json:"created_at"`
	FinishedAt string           `json:"finished_at,omitempty"`
}

type queueRequest struct {
	Logfile string `json:"logfile"`
}

type queuedResponse struct {
	Logfile string `json:"logfile"`
}

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client — HTTP-клиент для API gateway.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ListAnalyses возвращает последние анализы. limit <= 0 — значение по умолчанию сервера.
func (c *Client) ListAnalyses(ctx context.Context, limit int) ([]AnalysisResponse, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var analyses []AnalysisResponse
	err := c.list(ctx, "/api/v1/analyses", params, &analyses)
	return analyses, err
}

// GetAnalysis возвращает последний анализ лога.
func (c *Client) GetAnalysis(ctx context.Context, logfile string) (*AnalysisResponse, error) {
	params := url.Values{"logfile": {logfile}}

	var analysis AnalysisResponse
	err := c.doData(ctx, http.MethodGet, "/api/v1/analyses/lookup?"+params.Encode(), nil, &analysis)
	return &analysis, err
}

// QueueAnalysis ставит лог в очередь. Возвращает путь, под которым его увидит watcher.
func (c *Client) QueueAnalysis(ctx context.Context, logfile string) (string, error) {
	var queued queuedResponse
	err := c.doData(ctx, http.MethodPost, "/api/v1/analyses", queueRequest{Logfile: logfile}, &queued)
	return queued.Logfile, err
}

func (c *Client) list(ctx context.Context, path string, params url.Values, result any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}

	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(ctx context.Context, method, path string, body any, result any) error {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
