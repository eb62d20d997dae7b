package feishu

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"antifraud/internal/logger"
)

const (
	// SafetyMargin is how long before its upstream expiry a token stops being handed out.
	SafetyMargin = 60 * time.Second

	// DefaultTokenLifetime is assumed when the auth response omits "expire".
	DefaultTokenLifetime = 7200 * time.Second
)

type accessToken struct {
	expiresAt time.Time
	value     string
}

// TokenManager obtains and lazily refreshes the tenant access token.
type TokenManager struct {
	httpClient *http.Client
	logger     *logger.Logger
	now        func() time.Time
	group      singleflight.Group
	token      accessToken
	baseURL    string
	appID      string
	appSecret  string
	mu         sync.Mutex
}

// NewTokenManager creates a token manager for the given application credentials.
func NewTokenManager(baseURL, appID, appSecret string, httpClient *http.Client, log *logger.Logger) *TokenManager {
	if httpClient == nil {
		httpClient = NewHTTPClient(DefaultTimeout)
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &TokenManager{
		httpClient: httpClient,
		logger:     log.With("component", "feishu.token"),
		now:        time.Now,
		baseURL:    baseURL,
		appID:      appID,
		appSecret:  appSecret,
	}
}

// SetClock replaces the time source.
func (m *TokenManager) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.now = now
}

// Token returns a cached token while it is valid for at least SafetyMargin, otherwise
// requests a new one. Concurrent misses share one auth request.
func (m *TokenManager) Token(ctx context.Context) (string, error) {
	if value, ok := m.cached(); ok {
		return value, nil
	}

	v, err, shared := m.group.Do("tenant_access_token", func() (any, error) {
		if value, ok := m.cached(); ok {
			return value, nil
		}

		return m.refresh(ctx)
	})
	if err != nil {
		return "", err
	}

	if shared {
		m.logger.Debug("Token refresh shared between callers")
	}

	return v.(string), nil
}

// ExpiresAt returns the upstream expiry of the cached token, or the zero time.
func (m *TokenManager) ExpiresAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.token.expiresAt
}

// Invalidate drops the cached token so the next call re-authenticates.
func (m *TokenManager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = accessToken{}
}

func (m *TokenManager) cached() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token.value == "" {
		return "", false
	}

	if !m.now().Before(m.token.expiresAt.Add(-SafetyMargin)) {
		return "", false
	}

	return m.token.value, true
}

func (m *TokenManager) refresh(ctx context.Context) (string, error) {
	payload := map[string]string{
		"app_id":     m.appID,
		"app_secret": m.appSecret,
	}

	data, _, err := doJSON(ctx, m.httpClient, http.MethodPost, joinURL(m.baseURL, tokenPath), "", payload)
	if err != nil {
		authErr := &AuthError{Op: "request", Err: err}
		if env, decodeErr := decodeEnvelope(data); decodeErr == nil {
			authErr.Code, authErr.Msg = env.Code, env.Msg
		}

		return "", authErr
	}

	var resp struct {
		TenantAccessToken string `json:"tenant_access_token"`
		Msg               string `json:"msg"`
		Code              int    `json:"code"`
		Expire            int    `json:"expire"`
	}

	if err := json.Unmarshal(data, &resp); err != nil {
		return "", &AuthError{Op: "decode", Err: err}
	}

	if resp.Code != 0 {
		return "", &AuthError{Op: "token", Code: resp.Code, Msg: resp.Msg, Err: ErrAPICode}
	}

	if resp.TenantAccessToken == "" {
		return "", &AuthError{Op: "token", Err: ErrEmptyToken}
	}

	lifetime := DefaultTokenLifetime
	if resp.Expire > 0 {
		lifetime = time.Duration(resp.Expire) * time.Second
	}

	m.mu.Lock()
	m.token = accessToken{
		value:     resp.TenantAccessToken,
		expiresAt: m.now().Add(lifetime),
	}
	expiresAt := m.token.expiresAt
	m.mu.Unlock()

	m.logger.Info("Obtained tenant access token", "expires_at", expiresAt.Format(time.RFC3339))

	return resp.TenantAccessToken, nil
}

