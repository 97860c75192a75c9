// Package edinet is a client for the EDINET v2 document API: listing
// filings for a date and downloading their XBRL CSV archives.
package edinet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// BaseURL is the EDINET v2 API endpoint.
const BaseURL = "https://api.edinet-fsa.go.jp/api/v2"

// Document type codes accepted by the download endpoint.
const (
	TypeMainDocument = 1
	TypePDF          = 2
	TypeXBRL         = 5
)

// DocTypeAnnualReport is the docTypeCode of 有価証券報告書 (annual
// securities reports), the filings this system usually targets.
const DocTypeAnnualReport = "120"

// Client talks to the EDINET API with rate limiting.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// rateLimitedTransport wraps an HTTP transport with rate limiting.
type rateLimitedTransport struct {
	transport http.RoundTripper
	limiter   *rate.Limiter
}

// RoundTrip implements the http.RoundTripper interface with rate limiting
func (r *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := r.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return r.transport.RoundTrip(req)
}

// NewClient creates an EDINET API client. apiKey is the subscription key
// issued by the API portal; rateLimit is requests per second.
func NewClient(apiKey string, rateLimit int) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("EDINET API key is not set")
	}
	if rateLimit <= 0 {
		rateLimit = 2
	}
	transport := &rateLimitedTransport{
		transport: http.DefaultTransport,
		limiter:   rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: BaseURL,
		httpClient: &http.Client{
			Timeout:   60 * time.Second,
			Transport: transport,
		},
	}, nil
}

// ListDocuments fetches the document list for a date (YYYY-MM-DD).
// listType 2 returns filing metadata; 1 returns only counts.
func (c *Client) ListDocuments(ctx context.Context, date string, listType int) (*DocumentList, error) {
	params := url.Values{
		"date":             {date},
		"type":             {fmt.Sprintf("%d", listType)},
		"Subscription-Key": {c.apiKey},
	}
	reqURL := fmt.Sprintf("%s/documents.json?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("EDINET API returned status %d", resp.StatusCode)
	}

	var list DocumentList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to parse document list: %w", err)
	}
	return &list, nil
}

// DownloadDocument fetches one document in the requested format and
// returns its raw bytes.
func (c *Client) DownloadDocument(ctx context.Context, docID string, docType int) ([]byte, error) {
	params := url.Values{
		"type":             {fmt.Sprintf("%d", docType)},
		"Subscription-Key": {c.apiKey},
	}
	reqURL := fmt.Sprintf("%s/documents/%s?%s", c.baseURL, url.PathEscape(docID), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download document %s: %w", docID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("EDINET returned status %d for document %s", resp.StatusCode, docID)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", docID, err)
	}
	return content, nil
}

// DownloadXBRL fetches the XBRL CSV archive for a document.
func (c *Client) DownloadXBRL(ctx context.Context, docID string) ([]byte, error) {
	return c.DownloadDocument(ctx, docID, TypeXBRL)
}
