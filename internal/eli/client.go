// Package eli is a thin client for a European Legislation Identifier (ELI)
// legal-document API, such as the Polish Sejm ELI service.
package eli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"doc-intel-server/internal/models"
)

// Act is one legal act as listed by the API.
type Act struct {
	Publisher string `json:"publisher"`
	Year      int    `json:"year"`
	Position  int    `json:"pos"`
	Title     string `json:"title"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	Text      string `json:"-"`
}

// Publisher is one journal an act can be published in.
type Publisher struct {
	Code      string `json:"code"`
	ShortName string `json:"shortName"`
	Name      string `json:"name"`
	ActsCount int    `json:"actsCount"`
}

// ActSource is the subset of the API the summary flow needs.
type ActSource interface {
	GetActText(ctx context.Context, publisher string, year, position int) (*Act, error)
}

// Client talks to an ELI API over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates an ELI API client.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("ELIClient"),
	}
}

func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build ELI request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ELI request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return models.ErrActNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ELI API returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ListPublishers returns the journals known to the API.
func (c *Client) ListPublishers(ctx context.Context) ([]Publisher, error) {
	var out []Publisher
	if err := c.getJSON(ctx, c.baseURL+"/acts", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListActs returns the acts published in a journal in a given year.
func (c *Client) ListActs(ctx context.Context, publisher string, year int) ([]Act, error) {
	var out struct {
		Items []Act `json:"items"`
	}
	url := fmt.Sprintf("%s/acts/%s/%d", c.baseURL, publisher, year)
	if err := c.getJSON(ctx, url, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// GetActText fetches an act's metadata and plain-text body.
func (c *Client) GetActText(ctx context.Context, publisher string, year, position int) (*Act, error) {
	var act Act
	metaURL := fmt.Sprintf("%s/acts/%s/%d/%d", c.baseURL, publisher, year, position)
	if err := c.getJSON(ctx, metaURL, &act); err != nil {
		return nil, err
	}

	textURL := fmt.Sprintf("%s/acts/%s/%d/%d/text", c.baseURL, publisher, year, position)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, textURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build ELI text request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ELI text request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, models.ErrActNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ELI API returned status %d for act text", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read ELI act text: %w", err)
	}
	if len(body) == 0 {
		return nil, models.ErrActNotFound
	}
	act.Text = string(body)
	return &act, nil
}

var _ ActSource = (*Client)(nil)
