package oracle

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/mhuisman/etymon/pkg/errors"
	"github.com/mhuisman/etymon/pkg/etymology"
	"github.com/mhuisman/etymon/pkg/httputil"
	"github.com/mhuisman/etymon/pkg/observability"
)

const (
	// DefaultBaseURL is the OpenAI API root. Point it at any compatible
	// endpoint (Azure, Ollama, vLLM) via [Config.BaseURL].
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultModel is used when neither the config nor the per-trace
	// options name one.
	DefaultModel = "gpt-4o-mini"

	// Completion calls routinely take tens of seconds for deep trees.
	httpTimeout = 90 * time.Second

	apiKeyEnv         = "ETYMON_API_KEY"
	apiKeyEnvFallback = "OPENAI_API_KEY"
)

// Config controls how the client talks to the generation service.
// The zero value works against the public OpenAI API with the key taken
// from ETYMON_API_KEY (or OPENAI_API_KEY).
type Config struct {
	BaseURL    string            // API root (default: DefaultBaseURL)
	Model      string            // Model name (default: DefaultModel)
	APIKey     string            // Bearer token (default: from environment)
	Attempts   int               // Total tries per request (default: 1 + httputil.RetryBudget)
	RetryDelay time.Duration     // Linear backoff base (default: 1s)
	HTTPClient *http.Client      // Transport override, used by tests
	Cache      *httputil.Cache   // Record cache; nil disables caching
	Headers    map[string]string // Extra headers sent with every request
}

// Client fetches etymology records from a chat-completion endpoint.
// It implements [etymology.Tracer].
type Client struct {
	cfg  Config
	http *http.Client
}

// New creates a Client for the given config, filling in defaults.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.APIKey == "" {
		cfg.APIKey = apiKeyFromEnv()
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = httputil.RetryBudget + 1
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: httpTimeout}
	}
	return &Client{cfg: cfg, http: httpClient}
}

// Name returns the tracer identifier.
func (c *Client) Name() string { return "openai" }

// Trace fetches the ancestry record for word.
//
// The word is trimmed and must be non-empty. Records come from the cache
// when fresh (unless opts.Refresh is set); otherwise the completion
// endpoint is called with retries for transient failures. The returned
// root always carries the searched word; its subtree is clamped to
// opts.MaxDepth and opts.MaxNodes.
func (c *Client) Trace(ctx context.Context, word string, opts etymology.Options) (*etymology.Node, error) {
	opts = opts.WithDefaults()

	word = strings.TrimSpace(word)
	if word == "" {
		return nil, errors.New(errors.ErrCodeInvalidWord, "search word is empty")
	}

	model := c.cfg.Model
	if opts.Model != "" {
		model = opts.Model
	}

	root, err := c.cachedRecord(ctx, word, model, opts)
	if err != nil {
		return nil, err
	}

	clamp(root, opts.MaxDepth, opts.MaxNodes)
	if len(root.Children) == 0 {
		opts.Logger("lineage for %q has no recorded ancestors", word)
	}
	return root, nil
}

// cachedRecord returns the record from cache or fetches and stores it.
// The cache key covers word, model, and depth so a deeper request never
// gets satisfied by a shallower cached answer.
func (c *Client) cachedRecord(ctx context.Context, word, model string, opts etymology.Options) (*etymology.Node, error) {
	key := fmt.Sprintf("%s|%s|%d", strings.ToLower(word), model, opts.MaxDepth)

	if c.cfg.Cache != nil && !opts.Refresh {
		var cached etymology.Node
		if ok, _ := c.cfg.Cache.Get(key, &cached); ok {
			return &cached, nil
		}
	}

	var root *etymology.Node
	fetch := func() error {
		rec, err := c.complete(ctx, word, model, opts.MaxDepth)
		if err != nil {
			return err
		}
		root = rec
		return nil
	}
	if err := httputil.Retry(ctx, c.cfg.Attempts, c.cfg.RetryDelay, fetch); err != nil {
		return nil, err
	}

	if c.cfg.Cache != nil {
		_ = c.cfg.Cache.Set(key, root)
	}
	return root, nil
}

// chat-completion wire types, trimmed to the fields we use.
type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// complete performs one completion round trip and parses the reply.
func (c *Client) complete(ctx context.Context, word, model string, maxDepth int) (*etymology.Node, error) {
	payload, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt(word, maxDepth)},
		},
		Temperature:    0,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode completion request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "build completion request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	for k, v := range c.cfg.Headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		return nil, transportError(ctx, err)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedResponse, err, "undecodable completion payload")
	}
	if len(cr.Choices) == 0 {
		return nil, errors.New(errors.ErrCodeMalformedResponse, "completion returned no choices")
	}
	return parseRecord(word, cr.Choices[0].Message.Content)
}

// transportError maps a transport-level failure to the fetch taxonomy.
// Cancellation passes through untouched so callers can tell a superseded
// search from a failed one; timeouts are transient and retried.
func transportError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if isTimeout(err) {
		return &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeTimeout, err, "lineage request timed out")}
	}
	return &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "lineage request failed")}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return stderrors.As(err, &t) && t.Timeout()
}

// checkStatus maps non-200 responses onto the fetch taxonomy. Rate limits
// and 5xx are retryable; auth and client errors fail fast.
func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		rl := &errors.RateLimitedError{RetryAfter: retryAfterSeconds(resp.Header.Get("Retry-After"))}
		return &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeRateLimited, rl, "generation service throttled the request")}
	case resp.StatusCode >= 500:
		return &httputil.RetryableError{Err: errors.New(errors.ErrCodeNetwork, "generation service unavailable: status %d", resp.StatusCode)}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return errors.New(errors.ErrCodeNetwork, "generation service rejected credentials: status %d", resp.StatusCode)
	default:
		return errors.New(errors.ErrCodeNetwork, "generation service error: status %d", resp.StatusCode)
	}
}

// retryAfterSeconds parses a Retry-After header value. Only the seconds
// form is honored; HTTP dates and garbage yield zero.
func retryAfterSeconds(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// clamp prunes the record in place to the depth and node caps, keeping
// earlier-reported siblings when the budget runs out. The root itself
// always survives.
func clamp(root *etymology.Node, maxDepth, maxNodes int) {
	budget := maxNodes - 1

	var walk func(n *etymology.Node, depth int)
	walk = func(n *etymology.Node, depth int) {
		if depth >= maxDepth || budget <= 0 {
			n.Children = nil
			return
		}
		if len(n.Children) > budget {
			n.Children = n.Children[:budget]
		}
		budget -= len(n.Children)
		for _, child := range n.Children {
			walk(child, depth+1)
		}
	}
	walk(root, 0)
}

func apiKeyFromEnv() string {
	if key := os.Getenv(apiKeyEnv); key != "" {
		return key
	}
	return os.Getenv(apiKeyEnvFallback)
}
