package news

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"newsdeck/model"

	"github.com/pkg/errors"
)

const (
	providerBaseURL = "https://newsapi.org/v2"
	providerTimeout = 8 * time.Second
)

// ErrNotConfigured is returned when no provider credential is available.
// Callers render this as "feature disabled" rather than "upstream down".
var ErrNotConfigured = errors.New("NEWS_API_KEY is not configured")

// Fetcher performs one provider fetch for a resolved query plan.
type Fetcher interface {
	Fetch(plan QueryPlan) ([]model.Article, error)
}

// ProviderClient talks to the news provider over HTTP. The timeout bounds
// the whole call; there is no retry, the cache layer decides what to do with
// a failure.
type ProviderClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewProviderClient(apiKey string) *ProviderClient {
	return &ProviderClient{
		baseURL: providerBaseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: providerTimeout},
	}
}

// NewProviderClientWithBaseURL is used by tests to point the client at a
// local server.
func NewProviderClientWithBaseURL(apiKey, baseURL string) *ProviderClient {
	c := NewProviderClient(apiKey)
	c.baseURL = baseURL
	return c
}

// Configured reports whether a provider credential is present.
func (c *ProviderClient) Configured() bool {
	return c.apiKey != ""
}

// providerEnvelope is the provider's response shape. Status is "ok" on
// success; on failure Message carries the provider's own description.
type providerEnvelope struct {
	Status   string          `json:"status"`
	Code     string          `json:"code,omitempty"`
	Message  string          `json:"message,omitempty"`
	Articles []model.Article `json:"articles"`
}

// Fetch performs one GET against the provider and normalizes its response.
// A success envelope with no articles field yields an empty slice, never nil
// dereference downstream.
func (c *ProviderClient) Fetch(plan QueryPlan) ([]model.Article, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequest(http.MethodGet, c.baseURL+plan.Endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build provider request")
	}
	q := req.URL.Query()
	for key, value := range plan.Params {
		q.Set(key, value)
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	res, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "unable to reach external news provider")
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read provider response")
	}

	var envelope providerEnvelope
	// Error responses also carry the envelope; decode failures there are
	// fine, we fall back to the status code.
	decodeErr := json.Unmarshal(body, &envelope)

	if res.StatusCode >= 300 || (decodeErr == nil && envelope.Status != "ok") {
		if envelope.Message != "" {
			return nil, errors.Errorf("news provider: %s", envelope.Message)
		}
		if res.StatusCode >= 300 {
			return nil, errors.Errorf("news provider returned status %d", res.StatusCode)
		}
		return nil, errors.New("invalid response from the news provider")
	}
	if decodeErr != nil {
		return nil, errors.Wrap(decodeErr, "decode provider response")
	}

	if envelope.Articles == nil {
		return []model.Article{}, nil
	}
	return envelope.Articles, nil
}
