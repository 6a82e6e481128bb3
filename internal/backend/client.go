package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CityFacts is the JSON payload the city-facts service exchanges on every
// endpoint: a city name plus an opaque multi-line facts blob.
type CityFacts struct {
	Name  string `json:"name"`
	Facts string `json:"facts"`
}

// APIError carries a non-2xx response from the service, including the
// detail message from its error envelope when one was present.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend returned %d", e.Status)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Detail)
}

// errorEnvelope mirrors the {"detail": ...} body the service sends on error.
type errorEnvelope struct {
	Detail string `json:"detail"`
}

// Client communicates with the city-facts service over HTTP.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// New creates a Client targeting the given base URL. Every call is bounded
// by timeout; pass 0 for a 60s default.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		httpClient: &http.Client{
			Timeout: 0,
		},
	}
}

// Facts retrieves stored facts for a city via GET /city/{name}. A city the
// service has never seen still yields a 200 with an empty Facts field, so an
// empty blob means "no stored facts", not an error.
func (c *Client) Facts(ctx context.Context, name string) (CityFacts, error) {
	return c.getFacts(ctx, "/city/"+url.PathEscape(name))
}

// Generate asks the service to produce fresh facts for a city via
// GET /city/gemini/{name}. Generation runs a model call on the service side
// and can take most of the configured timeout.
func (c *Client) Generate(ctx context.Context, name string) (CityFacts, error) {
	return c.getFacts(ctx, "/city/gemini/"+url.PathEscape(name))
}

func (c *Client) getFacts(ctx context.Context, path string) (CityFacts, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return CityFacts{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return CityFacts{}, fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return CityFacts{}, apiError(resp)
	}

	var cf CityFacts
	if err := json.NewDecoder(resp.Body).Decode(&cf); err != nil {
		return CityFacts{}, fmt.Errorf("decoding response: %w", err)
	}
	return cf, nil
}

// Save persists facts for a city via POST /city. The service replaces any
// facts it already held for that name.
func (c *Client) Save(ctx context.Context, name, facts string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(CityFacts{Name: name, Facts: facts})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/city", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating save request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("saving facts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return nil
}

// Ping reports whether the service answers HTTP at all. Any response,
// including 404 from the bare base URL, counts as reachable.
func (c *Client) Ping(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}

// apiError decodes the service's error envelope from a non-2xx response.
// A body that isn't the expected JSON still produces a usable *APIError,
// just without a detail message.
func apiError(resp *http.Response) error {
	var env errorEnvelope
	_ = json.NewDecoder(resp.Body).Decode(&env)
	return &APIError{Status: resp.StatusCode, Detail: env.Detail}
}
