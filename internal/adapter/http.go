package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-sync-client/internal/config"
	"github.com/MKhiriev/go-sync-client/internal/logger"
	"github.com/MKhiriev/go-sync-client/internal/utils"
	"github.com/MKhiriev/go-sync-client/models"
	"github.com/sethvargo/go-retry"
	"github.com/tidwall/gjson"
)

// Terminator ends the process. It is called once with the error that
// triggered the shutdown.
type Terminator func(err error)

// Option customises an adapter built by [NewHTTPServerAdapter].
type Option func(*httpServerAdapter)

// WithTerminator replaces the default fatal-log terminator.
func WithTerminator(t Terminator) Option {
	return func(h *httpServerAdapter) {
		h.terminate = t
	}
}

type httpServerAdapter struct {
	client *utils.HTTPClient
	ids    *utils.UUIDGenerator

	timeout     time.Duration
	retryDelay  time.Duration
	maxAttempts int
	terminate   Terminator

	mu         sync.RWMutex
	credential string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs the HTTP implementation of [ServerAdapter].
// It validates appCfg.APIURL, configures the IPv4-only HTTP client with the
// resolved base URL and copies the retry policy from adapterCfg.
//
// Returns an error if the API URL is empty or is not an absolute URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger, opts ...Option) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(appCfg.APIURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api url: %w", err)
	}

	client := utils.NewHTTPClient()
	client.
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")

	h := &httpServerAdapter{
		client:      client,
		ids:         utils.NewUUIDGenerator(),
		timeout:     adapterCfg.RequestTimeout,
		retryDelay:  adapterCfg.RetryDelay,
		maxAttempts: adapterCfg.MaxAttempts,
		logger:      logger,
	}
	h.terminate = func(err error) {
		h.logger.Fatal().Err(err).Str("func", "httpServerAdapter.terminate").Msg("credential rejected by server, shutting down")
	}
	if h.maxAttempts <= 0 {
		h.maxAttempts = 1
	}
	if h.retryDelay <= 0 {
		h.retryDelay = time.Second
	}

	for _, opt := range opts {
		opt(h)
	}

	return h, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	return strings.TrimRight(raw, "/"), nil
}

// SetCredential implements [ServerAdapter].
func (h *httpServerAdapter) SetCredential(apiKey string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.credential = strings.TrimSpace(apiKey)
}

// Credential implements [ServerAdapter].
func (h *httpServerAdapter) Credential() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.credential
}

// Request implements [ServerAdapter]. Every attempt gets its own timeout. A
// failed attempt is retried after the fixed delay until the attempt ceiling
// is reached, at which point the error names the request that gave up.
//
// All attempts share one request id, taken from ctx or generated.
//
// Once an envelope is parsed it is passed through classifyResponse. An
// invalid credential calls the terminator; other failures are returned.
func (h *httpServerAdapter) Request(ctx context.Context, method, endpoint string, payload any, timeout time.Duration) (models.APIResponse, error) {
	if timeout <= 0 {
		timeout = h.timeout
	}

	id, ok := utils.GetRequestIDFromContext(ctx)
	if !ok {
		id = h.ids.Generate()
		ctx = utils.WithRequestID(ctx, id)
	}

	log := h.logger.With().Str("func", "*httpServerAdapter.Request").
		Str("method", method).Str("endpoint", endpoint).
		Str("request_id", id).Logger()

	var (
		result  models.APIResponse
		attempt int
	)
	backoff := retry.WithMaxRetries(uint64(h.maxAttempts-1), retry.NewConstant(h.retryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		resp, err := h.do(ctx, method, endpoint, payload, timeout)
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Msg("request attempt failed")
			return retry.RetryableError(err)
		}
		result = resp
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return models.APIResponse{}, fmt.Errorf("%s %s: %w", method, endpoint, ctxErr)
		}
		return models.APIResponse{}, fmt.Errorf("%w: %s %s after %d attempts: %v", ErrMaxAttemptsExceeded, method, endpoint, attempt, err)
	}

	if err = classifyResponse(result); err != nil {
		if errors.Is(err, ErrInvalidCredential) {
			h.terminate(err)
		}
		return result, err
	}

	return result, nil
}

// do performs a single attempt.
func (h *httpServerAdapter) do(ctx context.Context, method, endpoint string, payload any, timeout time.Duration) (models.APIResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := h.client.R().SetContext(ctx)
	if credential := h.Credential(); credential != "" {
		req.SetAuthToken(credential)
	}
	if id, ok := utils.GetRequestIDFromContext(ctx); ok {
		req.SetHeader("X-Request-ID", id)
	}

	if payload != nil {
		if method == http.MethodGet {
			params, err := queryParams(payload)
			if err != nil {
				return models.APIResponse{}, err
			}
			req.SetQueryParams(params)
		} else {
			req.SetHeader("Content-Type", "application/json").SetBody(payload)
		}
	}

	resp, err := req.Execute(method, endpoint)
	if err != nil {
		return models.APIResponse{}, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return models.APIResponse{}, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode())
	}

	body := resp.Body()
	if !gjson.ValidBytes(body) {
		return models.APIResponse{}, ErrMalformedResponse
	}

	var envelope models.APIResponse
	if err = json.Unmarshal(body, &envelope); err != nil {
		return models.APIResponse{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return envelope, nil
}

// queryParams flattens the top-level fields of payload into query values.
func queryParams(payload any) (map[string]string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode query payload: %w", err)
	}

	parsed := gjson.ParseBytes(raw)
	if !parsed.IsObject() {
		return nil, fmt.Errorf("query payload must be an object, got %s", parsed.Type)
	}

	params := make(map[string]string)
	parsed.ForEach(func(key, value gjson.Result) bool {
		params[key.String()] = value.String()
		return true
	})

	return params, nil
}
