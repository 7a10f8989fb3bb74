package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rumor-ml/commons.systems/brokerfeed/internal/domain"
)

// DefaultYahooBaseURL is the production Yahoo Finance API host.
const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

// userAgent is sent on every request; the quote endpoints reject requests
// without one.
const userAgent = "brokerfeed/0.1"

// YahooClient resolves identifiers against the Yahoo Finance search and quote
// endpoints. ISINs are accepted directly by the search endpoint, which is why
// the converter can pass brokerage identifiers through unchanged.
type YahooClient struct {
	baseURL string
	client  *http.Client
}

// NewYahooClient creates a client against the production host
func NewYahooClient() *YahooClient {
	return NewYahooClientWithBaseURL(DefaultYahooBaseURL)
}

// NewYahooClientWithBaseURL creates a client against a custom host (tests)
func NewYahooClientWithBaseURL(baseURL string) *YahooClient {
	return &YahooClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 20 * time.Second},
	}
}

type searchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
		LongName  string `json:"longname"`
	} `json:"quotes"`
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol    string `json:"symbol"`
			Currency  string `json:"currency"`
			ShortName string `json:"shortName"`
			LongName  string `json:"longName"`
		} `json:"result"`
	} `json:"quoteResponse"`
}

// Search implements Service. With a symbol override the search step is
// skipped and the override is quoted directly; otherwise the identifier is
// searched first and the best match is quoted for currency and display name.
func (c *YahooClient) Search(ctx context.Context, q Query) (*Security, error) {
	symbol := q.SymbolOverride
	fallbackName := ""

	if symbol == "" {
		if q.Identifier == "" {
			return nil, fmt.Errorf("lookup query has neither identifier nor symbol override")
		}

		var sr searchResponse
		addr := fmt.Sprintf("%s/v1/finance/search?q=%s&quotesCount=1&newsCount=0",
			c.baseURL, url.QueryEscape(q.Identifier))
		if err := c.getJSON(ctx, addr, &sr); err != nil {
			return nil, fmt.Errorf("security search for %q failed: %w", q.Identifier, err)
		}
		if len(sr.Quotes) == 0 || sr.Quotes[0].Symbol == "" {
			return nil, nil // not found
		}
		symbol = sr.Quotes[0].Symbol
		fallbackName = sr.Quotes[0].LongName
		if fallbackName == "" {
			fallbackName = sr.Quotes[0].ShortName
		}
	}

	var qr quoteResponse
	addr := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", c.baseURL, url.QueryEscape(symbol))
	if err := c.getJSON(ctx, addr, &qr); err != nil {
		return nil, fmt.Errorf("quote for %q failed: %w", symbol, err)
	}
	if len(qr.QuoteResponse.Result) == 0 {
		return nil, nil // not found
	}
	result := qr.QuoteResponse.Result[0]

	currency := result.Currency
	if currency == "" {
		currency = q.Currency
	}
	name := result.LongName
	if name == "" {
		name = result.ShortName
	}
	if name == "" {
		name = fallbackName
	}

	return &Security{
		Symbol:   result.Symbol,
		Currency: currency,
		Name:     name,
		Source:   domain.DataSourceYahoo,
	}, nil
}

// getJSON performs an HTTP GET and unmarshals the JSON response into data.
func (c *YahooClient) getJSON(ctx context.Context, addr string, data interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, data)
}
