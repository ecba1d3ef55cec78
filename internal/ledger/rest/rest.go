// Package rest implements the ledger store against a PostgREST-style HTTP
// table API: ordered selects, inserts returning the stored representation,
// and id-filtered patches and deletes. Row-level security is enforced by the
// remote end from the session's bearer token.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"grana/internal/core"
	"grana/internal/ledger"
	"grana/internal/session"
)

type Client struct {
	baseURL    string
	apiKey     string
	table      string
	httpClient *http.Client
}

var _ ledger.Store = (*Client)(nil)

// New creates a client for the table API rooted at baseURL
// (e.g. "https://project.example.co/rest/v1").
func New(baseURL, apiKey, table string) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("missing ledger base URL")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("missing ledger API key")
	}
	if table == "" {
		table = "transactions"
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		table:      table,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// row is the wire shape of a ledger record. Amounts travel as decimal
// numbers, dates as YYYY-MM-DD strings.
type row struct {
	ID          string  `json:"id,omitempty"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
}

func toRow(d core.Draft) row {
	return row{
		Type:        string(d.Type),
		Amount:      d.Amount.Float(),
		Date:        d.Date.String(),
		Description: d.Description,
		Category:    string(d.Category),
	}
}

func fromRow(r row) (core.Transaction, error) {
	cents, err := core.CentsFromFloat(r.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("row %s: %w", r.ID, err)
	}
	date, err := core.ParseDate(r.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("row %s: %w", r.ID, err)
	}
	return core.Transaction{
		ID:          r.ID,
		Type:        core.Type(r.Type),
		Date:        date,
		Description: r.Description,
		Amount:      core.Money{Cents: cents},
		Category:    core.Category(r.Category),
	}, nil
}

func (c *Client) List(ctx context.Context, s *session.Session) ([]core.Transaction, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "date.desc")

	var rows []row
	if err := c.call(ctx, s, http.MethodGet, "?"+q.Encode(), nil, &rows); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	out := make([]core.Transaction, 0, len(rows))
	for _, r := range rows {
		tx, err := fromRow(r)
		if err != nil {
			return nil, fmt.Errorf("list transactions: %w", err)
		}
		out = append(out, tx)
	}
	return out, nil
}

func (c *Client) Insert(ctx context.Context, s *session.Session, d core.Draft) (core.Transaction, error) {
	var rows []row
	if err := c.call(ctx, s, http.MethodPost, "", []row{toRow(d)}, &rows); err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	if len(rows) != 1 {
		return core.Transaction{}, fmt.Errorf("insert transaction: expected 1 row back, got %d", len(rows))
	}
	return fromRow(rows[0])
}

func (c *Client) Update(ctx context.Context, s *session.Session, t core.Transaction) (core.Transaction, error) {
	var rows []row
	filter := "?id=eq." + url.QueryEscape(t.ID)
	if err := c.call(ctx, s, http.MethodPatch, filter, toRow(t.Draft()), &rows); err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	// An empty representation means no row matched the id filter.
	if len(rows) == 0 {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", ledger.ErrNotFound)
	}
	if len(rows) != 1 {
		return core.Transaction{}, fmt.Errorf("update transaction: expected 1 row back, got %d", len(rows))
	}
	return fromRow(rows[0])
}

func (c *Client) Delete(ctx context.Context, s *session.Session, id string) error {
	filter := "?id=eq." + url.QueryEscape(id)
	if err := c.call(ctx, s, http.MethodDelete, filter, nil, nil); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

func (c *Client) call(ctx context.Context, s *session.Session, method, query string, payload, result any) error {
	if s == nil {
		return errors.New("no session")
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+c.table+query, body)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.AccessToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if result != nil && method != http.MethodGet {
		// Ask the API to echo the stored rows so callers see confirmed state.
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ledger API connection error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("ledger API error: %d - %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode ledger response: %w", err)
	}
	return nil
}
