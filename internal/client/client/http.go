package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/api"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
)

// HeaderSource yields the auth headers of the live session; empty when
// unauthenticated. *auth.Validator implements it.
type HeaderSource interface {
	AuthorizationHeader(ctx context.Context) http.Header
}

type HTTPClient struct {
	baseURL string
	http    *http.Client
	headers HeaderSource
	logger  logging.Logger
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string, timeout time.Duration, headers HeaderSource, logger logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		headers: headers,
		logger:  logger.With("module", "client"),
	}
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, api.PathHealth, nil, nil, nil, nil)
}

func (c *HTTPClient) CreateTenant(ctx context.Context, p api.TenantCreationPayload) (*api.TenantCreationResponse, error) {
	var out api.TenantCreationResponse
	if err := c.do(ctx, http.MethodPost, api.PathTenants, nil, nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateTenantUser(ctx context.Context, tenantID string, p api.TenantUserPayload) (*api.TenantUserResponse, error) {
	var out api.TenantUserResponse
	path := fmt.Sprintf(api.PathTenantUsers, url.PathEscape(tenantID))
	if err := c.do(ctx, http.MethodPost, path, nil, nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateSubscriptionCheckout(ctx context.Context, tenantID string, p api.SubscriptionCheckoutPayload) (*api.SubscriptionCheckoutResponse, error) {
	var out api.SubscriptionCheckoutResponse
	path := fmt.Sprintf(api.PathSubscriptionCheckout, url.PathEscape(tenantID))
	if err := c.do(ctx, http.MethodPost, path, nil, nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) TenantUsage(ctx context.Context, tenantID string) (*api.UsageSnapshot, error) {
	h, err := c.tenantHeaders(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var out api.UsageSnapshot
	path := fmt.Sprintf(api.PathTenantUsage, url.PathEscape(tenantID))
	if err := c.do(ctx, http.MethodGet, path, nil, h, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) TenantBilling(ctx context.Context, tenantID string) (*api.BillingSnapshot, error) {
	h, err := c.tenantHeaders(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var out api.BillingSnapshot
	path := fmt.Sprintf(api.PathTenantBilling, url.PathEscape(tenantID))
	if err := c.do(ctx, http.MethodGet, path, nil, h, nil, &out); err != nil {
		return nil, err
	}
	if out.TenantID == "" {
		out.TenantID = tenantID
	}
	return &out, nil
}

func (c *HTTPClient) AdminUsage(ctx context.Context, f api.AdminUsageFilters) (*api.AdminUsageResponse, error) {
	h := c.headers.AuthorizationHeader(ctx)
	if h.Get(common.AuthorizationHeaderName) == "" {
		return nil, common.ErrUnauthenticated
	}
	h.Set(common.AdminRoleHeaderName, common.AdminRoleHeaderValue)

	var out api.AdminUsageResponse
	if err := c.do(ctx, http.MethodGet, api.PathAdminUsage, f.Query(), h, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateLogoUpload(ctx context.Context, req api.LogoUploadRequest) (*api.LogoUploadResponse, error) {
	var out api.LogoUploadResponse
	if err := c.do(ctx, http.MethodPost, api.PathLogoUploads, nil, nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) IssueDevToken(ctx context.Context, req api.DevTokenRequest) (*api.DevTokenResponse, error) {
	var out api.DevTokenResponse
	if err := c.do(ctx, http.MethodPost, api.PathDevTokens, nil, nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// tenantHeaders returns the session headers for a call scoped to tenantID.
func (c *HTTPClient) tenantHeaders(ctx context.Context, tenantID string) (http.Header, error) {
	h := c.headers.AuthorizationHeader(ctx)
	if h.Get(common.AuthorizationHeaderName) == "" {
		return nil, common.ErrUnauthenticated
	}
	if session := h.Get(common.TenantHeaderName); session != tenantID {
		return nil, fmt.Errorf("%w: requested %q, session %q", common.ErrTenantMismatch, tenantID, session)
	}
	return h, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, headers http.Header, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn(ctx, "request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.logger.Debug(ctx, "request done", "method", method, "path", path,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	if err := c.mapError(resp); err != nil {
		return err
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) mapError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var e api.ErrorResponse
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(b, &e); err != nil {
		e.Message = strings.TrimSpace(string(b))
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return wrapMessage(ErrUnauthorized, e.Message)
	case resp.StatusCode == http.StatusForbidden:
		return wrapMessage(ErrForbidden, e.Message)
	case resp.StatusCode >= 500:
		return wrapMessage(ErrUnavailable, e.Message)
	default:
		return &APIError{StatusCode: resp.StatusCode, Message: e.Message}
	}
}

func wrapMessage(sentinel error, msg string) error {
	if msg == "" {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, msg)
}

// IsUnavailable reports whether err means the backend could not be reached.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
