// Package cmf fetches daily UF values from the CMF (Comisión para el Mercado
// Financiero) public API.
package cmf

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the CMF API root.
const DefaultBaseURL = "https://api.cmfchile.cl/api-sbifv3/recursos_api"

// ErrNotFound reports that the upstream holds no UF value for the requested
// date.
var ErrNotFound = errors.New("cmf: no value for date")

// Client fetches the UF value for single days. Calls make exactly one
// upstream request; failed days are the caller's problem.
type Client interface {
	Value(ctx context.Context, day time.Time) (float64, error)
}

// Options configures the client.
type Options struct {
	Key            string
	BaseURL        string
	Timeout        time.Duration
	RequestsPerSec float64
}

type httpClient struct {
	key     string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a CMF API client. The limiter keeps pressure on the
// shared public API bounded however many days are resolved concurrently.
func NewClient(opts Options) Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.RequestsPerSec <= 0 {
		opts.RequestsPerSec = 5
	}
	return &httpClient{
		key:     opts.Key,
		baseURL: opts.BaseURL,
		http:    &http.Client{Timeout: opts.Timeout},
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSec), 1),
	}
}

// ufResponse mirrors the upstream body: a "UFs" list holding one entry for
// day queries.
type ufResponse struct {
	UFs []struct {
		Fecha string `json:"Fecha"`
		Valor string `json:"Valor"`
	} `json:"UFs"`
}

func (c *httpClient) Value(ctx context.Context, day time.Time) (float64, error) {
	if c.key == "" || c.key == "YOUR_API_KEY_HERE" {
		return 0, eris.New("cmf: api key not configured")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return 0, eris.Wrap(err, "cmf: rate limiter wait")
	}

	// The upstream takes year/month/day as plain unpadded integers.
	endpoint := fmt.Sprintf("%s/uf/%d/%d/dias/%d?apikey=%s&formato=json",
		c.baseURL, day.Year(), int(day.Month()), day.Day(), url.QueryEscape(c.key))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, eris.Wrap(err, "cmf: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, eris.Wrap(err, "cmf: send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, eris.Wrap(err, "cmf: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return 0, eris.Errorf("cmf: unexpected status %d", resp.StatusCode)
	}

	var decoded ufResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return 0, eris.Wrap(err, "cmf: unmarshal response")
	}

	if len(decoded.UFs) == 0 {
		return 0, ErrNotFound
	}

	value, err := ParseValue(decoded.UFs[0].Valor)
	if err != nil {
		return 0, eris.Wrap(err, "cmf: parse value")
	}

	zap.L().Debug("cmf: fetched value",
		zap.String("date", day.Format("2006-01-02")),
		zap.Float64("value", value),
	)
	return value, nil
}

// ParseValue reads the upstream's Chilean-notation value string: dots group
// thousands, the comma is the decimal separator ("38.073,92").
func ParseValue(s string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	if cleaned == "" {
		return 0, eris.New("empty value string")
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "value %q", s)
	}
	return v, nil
}
