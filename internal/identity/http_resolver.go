package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// HTTPResolver resolves users through the auth service's lookup endpoints.
// Every call carries a bounded timeout; a slow sibling surfaces as
// ErrUnavailable, never as an indefinite hang.
type HTTPResolver struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewHTTPResolver builds a resolver against the given auth service base URL.
func NewHTTPResolver(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPResolver {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPResolver{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// ResolveByUsername looks up a user by username.
func (r *HTTPResolver) ResolveByUsername(ctx context.Context, username string) (*Identity, error) {
	return r.lookup(ctx, "/users/by-username/"+url.PathEscape(username))
}

// ResolveByID looks up a user by its opaque id.
func (r *HTTPResolver) ResolveByID(ctx context.Context, id string) (*Identity, error) {
	return r.lookup(ctx, "/users/"+url.PathEscape(id))
}

func (r *HTTPResolver) lookup(ctx context.Context, path string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.logger.Warn("user lookup failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		r.logger.Warn("user lookup returned unexpected status",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var ident Identity
	if err := json.Unmarshal(body, &ident); err != nil {
		// A 2xx with an unparseable body is a contract violation by the
		// sibling, treated the same as it being unreachable.
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if ident.ID == "" {
		return nil, fmt.Errorf("%w: response missing user id", ErrUnavailable)
	}
	return &ident, nil
}
