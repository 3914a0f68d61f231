package layout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxResponseBytes bounds how much of the service response is buffered.
const maxResponseBytes = 32 << 20

// Client calls the structure-analysis service over HTTP: document bytes
// in, JSON tables and paragraphs out. The response schema is owned by the
// service and treated as an external contract.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

// NewClient builds a client for the configured endpoint. Returns
// ErrNotConfigured when either the endpoint or the credential is missing,
// so callers can skip this path cleanly.
func NewClient(endpoint, apiKey string) (*Client, error) {
	if endpoint == "" || apiKey == "" {
		return nil, ErrNotConfigured
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 120 * time.Second},
	}, nil
}

// wire mirrors the service's response schema.
type wireResponse struct {
	Pages []struct {
		Tables []struct {
			Cells []struct {
				RowIndex    int    `json:"rowIndex"`
				ColumnIndex int    `json:"columnIndex"`
				Content     string `json:"content"`
			} `json:"cells"`
		} `json:"tables"`
		Paragraphs []struct {
			Content string `json:"content"`
		} `json:"paragraphs"`
	} `json:"pages"`
}

// Analyze posts the document and maps the response into a Structure.
func (c *Client) Analyze(ctx context.Context, doc []byte) (*Structure, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("build analysis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/pdf")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call analysis service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("analysis service returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var wire wireResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode analysis response: %w", err)
	}

	structure := &Structure{Pages: make([]Page, 0, len(wire.Pages))}
	for _, wp := range wire.Pages {
		page := Page{}
		for _, wt := range wp.Tables {
			table := Table{Cells: make([]Cell, 0, len(wt.Cells))}
			for _, wc := range wt.Cells {
				table.Cells = append(table.Cells, Cell{
					Row:  wc.RowIndex,
					Col:  wc.ColumnIndex,
					Text: wc.Content,
				})
			}
			page.Tables = append(page.Tables, table)
		}
		for _, wpar := range wp.Paragraphs {
			page.Paragraphs = append(page.Paragraphs, wpar.Content)
		}
		structure.Pages = append(structure.Pages, page)
	}
	return structure, nil
}
