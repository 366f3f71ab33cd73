package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"meishiClient/internal/modules/gateway/application/port"
	"meishiClient/internal/modules/gateway/domain"
	"meishiClient/internal/shared/auth"
	"meishiClient/internal/shared/httputil"
)

const (
	refreshEndpoint = "/api/token/refresh/"
	maxErrorBody    = 64 << 10
)

var errNoRefreshToken = errors.New("no refresh token available")

// RESTClient talks JSON to the backend. Every request carries the stored access token;
// a 401 triggers one token refresh and one retry of the original request.
type RESTClient struct {
	baseURL     string
	client      *http.Client
	tokens      port.TokenStore
	defaultRole domain.Role
	refreshes   singleflight.Group
}

func NewRESTClient(baseURL string, timeout time.Duration, client *http.Client, tokens port.TokenStore, role domain.Role) *RESTClient {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		trimmed = "http://localhost:8000"
	}
	trimmed = strings.TrimRight(trimmed, "/")
	if client == nil {
		client = &http.Client{Timeout: timeoutOrDefault(timeout)}
	} else if timeout > 0 {
		client.Timeout = timeout
	}
	if tokens == nil {
		tokens = NewMemoryTokenStore()
	}
	return &RESTClient{baseURL: trimmed, client: client, tokens: tokens, defaultRole: role}
}

// Tokens exposes the store backing the client.
func (c *RESTClient) Tokens() port.TokenStore {
	return c.tokens
}

// Get decodes the response into out. params is nil, url.Values or a struct with `url` tags.
func (c *RESTClient) Get(ctx context.Context, endpoint string, params any, out any) error {
	return c.Do(ctx, http.MethodGet, endpoint, params, nil, out)
}

func (c *RESTClient) Post(ctx context.Context, endpoint string, body, out any) error {
	return c.Do(ctx, http.MethodPost, endpoint, nil, body, out)
}

func (c *RESTClient) Patch(ctx context.Context, endpoint string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, endpoint, nil, body, out)
}

func (c *RESTClient) Delete(ctx context.Context, endpoint string) error {
	return c.Do(ctx, http.MethodDelete, endpoint, nil, nil, nil)
}

// PostAnonymous sends body without credentials and without the refresh retry, for
// endpoints such as login where a 401 means bad credentials.
func (c *RESTClient) PostAnonymous(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, http.MethodPost, endpoint, nil, body, out, false)
}

// Do performs method on endpoint with optional query params and JSON body.
func (c *RESTClient) Do(ctx context.Context, method, endpoint string, params any, body, out any) error {
	return c.do(ctx, method, endpoint, params, body, out, true)
}

func (c *RESTClient) do(ctx context.Context, method, endpoint string, params any, body, out any, authenticated bool) error {
	values, err := encodeParams(params)
	if err != nil {
		return fmt.Errorf("encode query: %w", err)
	}
	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
	}

	var tokens domain.Tokens
	if authenticated {
		if tokens, err = c.tokens.Load(ctx); err != nil {
			slog.Warn("rest token load failed", slog.String("path", endpoint), slog.Any("error", err))
		}
	}

	res, err := c.send(ctx, method, endpoint, values, payload, tokens.Access)
	if err != nil {
		return err
	}
	if authenticated && res.StatusCode == http.StatusUnauthorized {
		drain(res)
		slog.Info("rest unauthorized, refreshing token", slog.String("method", method), slog.String("path", endpoint))
		access, err := c.refreshAccess(ctx, tokens.Access)
		if err != nil {
			return err
		}
		res, err = c.send(ctx, method, endpoint, values, payload, access)
		if err != nil {
			return err
		}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return readAPIError(res, method, endpoint)
	}
	if out == nil || res.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("rest decode failed", slog.String("method", method), slog.String("path", endpoint), slog.Any("error", err))
		return fmt.Errorf("decode %s %s: %w", method, endpoint, err)
	}
	return nil
}

func (c *RESTClient) newRequest(ctx context.Context, method, endpoint string, values url.Values, payload []byte) (*http.Request, error) {
	target := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	if len(values) > 0 {
		req.URL.RawQuery = values.Encode()
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *RESTClient) send(ctx context.Context, method, endpoint string, values url.Values, payload []byte, access string) (*http.Response, error) {
	req, err := c.newRequest(ctx, method, endpoint, values, payload)
	if err != nil {
		slog.Error("rest request build failed", slog.String("method", method), slog.String("path", endpoint), slog.Any("error", err))
		return nil, err
	}
	if strings.TrimSpace(access) != "" {
		req.Header.Set("Authorization", auth.BearerHeader(access))
	}
	slog.Debug("rest request", slog.String("method", method), slog.String("url", req.URL.String()), slog.String("requestId", req.Header.Get("X-Request-ID")))

	res, err := c.client.Do(req)
	if err != nil {
		slog.Error("rest request error", slog.String("method", method), slog.String("path", endpoint), slog.Any("error", err))
		return nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	slog.Debug("rest response", slog.Int("status", res.StatusCode), slog.String("url", req.URL.String()))
	return res, nil
}

// refreshAccess renews the access token. Concurrent callers share one refresh call; a
// caller whose stale token was already replaced reuses the stored one. The refresh is
// detached from the caller's context: a caller that gives up gets its context error
// back while the refresh finishes, and only a failed refresh expires the session.
func (c *RESTClient) refreshAccess(ctx context.Context, stale string) (string, error) {
	results := c.refreshes.DoChan("refresh", func() (any, error) {
		refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeoutOrDefault(c.client.Timeout))
		defer cancel()

		tokens, err := c.tokens.Load(refreshCtx)
		if err != nil {
			return "", c.expireSession(refreshCtx, domain.Tokens{}, fmt.Errorf("load tokens: %w", err))
		}
		if tokens.HasAccess() && tokens.Access != stale {
			return tokens.Access, nil
		}
		if !tokens.HasRefresh() {
			return "", c.expireSession(refreshCtx, tokens, errNoRefreshToken)
		}

		renewed, err := c.postRefresh(refreshCtx, tokens.Refresh)
		if err != nil {
			return "", c.expireSession(refreshCtx, tokens, err)
		}
		tokens.Access = renewed.Access
		if renewed.Refresh != "" {
			tokens.Refresh = renewed.Refresh
		}
		if err := c.tokens.Save(refreshCtx, tokens); err != nil {
			slog.Warn("rest refreshed token not persisted", slog.Any("error", err))
		}
		slog.Info("rest access token refreshed")
		return tokens.Access, nil
	})

	select {
	case <-ctx.Done():
		slog.Debug("rest refresh abandoned by caller", slog.Any("error", ctx.Err()))
		return "", ctx.Err()
	case result := <-results:
		if result.Err != nil {
			return "", result.Err
		}
		if result.Shared {
			slog.Debug("rest refresh shared with concurrent request")
		}
		return result.Val.(string), nil
	}
}

func (c *RESTClient) postRefresh(ctx context.Context, refresh string) (domain.Tokens, error) {
	payload, err := json.Marshal(map[string]string{"refresh": refresh})
	if err != nil {
		return domain.Tokens{}, err
	}
	res, err := c.send(ctx, http.MethodPost, refreshEndpoint, nil, payload, "")
	if err != nil {
		return domain.Tokens{}, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return domain.Tokens{}, readAPIError(res, http.MethodPost, refreshEndpoint)
	}
	var renewed domain.Tokens
	if err := json.NewDecoder(res.Body).Decode(&renewed); err != nil {
		return domain.Tokens{}, fmt.Errorf("decode refresh response: %w", err)
	}
	if !renewed.HasAccess() {
		return domain.Tokens{}, errors.New("refresh response without access token")
	}
	return renewed, nil
}

func (c *RESTClient) expireSession(ctx context.Context, tokens domain.Tokens, cause error) error {
	if err := c.tokens.Clear(ctx); err != nil {
		slog.Error("rest token clear failed", slog.Any("error", err))
	}
	role := tokens.Role
	if role == "" {
		role = c.defaultRole
	}
	slog.Warn("rest session expired", slog.String("loginRoute", role.LoginRoute()), slog.Any("error", cause))
	return &domain.SessionExpiredError{LoginRoute: role.LoginRoute(), Cause: cause}
}

func readAPIError(res *http.Response, method, endpoint string) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
	fallback := fmt.Sprintf("Request failed with status code %d", res.StatusCode)
	messages := httputil.ExtractMessages(body, fallback)
	apiErr := &domain.APIError{
		Method:   method,
		Path:     endpoint,
		Status:   res.StatusCode,
		Message:  strings.Join(messages, "; "),
		Messages: messages,
		Body:     body,
	}
	level := slog.LevelWarn
	if res.StatusCode >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.Log(context.Background(), level, "rest unexpected status", slog.Int("status", res.StatusCode), slog.String("method", method), slog.String("path", endpoint), slog.String("message", apiErr.Message))
	return apiErr
}

func encodeParams(params any) (url.Values, error) {
	switch typed := params.(type) {
	case nil:
		return nil, nil
	case url.Values:
		return typed, nil
	default:
		return query.Values(params)
	}
}

func drain(res *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxErrorBody))
	_ = res.Body.Close()
}

func timeoutOrDefault(value time.Duration) time.Duration {
	if value <= 0 {
		return 10 * time.Second
	}
	return value
}
