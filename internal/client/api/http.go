package api

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
	"sync"
	"time"

	"github.com/mpetrenko/studyport/internal/client/models"
	"github.com/mpetrenko/studyport/internal/common"
	"github.com/mpetrenko/studyport/internal/logging"
)

// HTTPClient is the production Client implementation.
//
// Auth handling: every authenticated request carries the stored bearer token.
// On a 401 the client performs at most one transparent refresh-and-retry;
// if the refresh fails, or the server reports a terminated session, the
// stored tokens are cleared and common.ErrSessionTerminated is returned so
// the caller can send the user back to login.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
	tokens  TokenStore
	log     logging.Logger

	// serializes token refreshes so concurrent 401s trigger a single refresh
	refreshMu sync.Mutex
}

func NewHTTPClient(baseURL string, tokens TokenStore, timeout time.Duration, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log,
	}
}

func (c *HTTPClient) Close() error {
	c.hc.CloseIdleConnections()
	return nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type progressRequest struct {
	LastPage          int     `json:"lastPage"`
	CompletionPercent float64 `json:"completionPercent"`
}

type pingResponse struct {
	Status string `json:"status"`
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var resp pingResponse
	if err := c.doJSON(ctx, http.MethodGet, "/ping", nil, nil, &resp, false); err != nil {
		return err
	}
	if resp.Status != "OK" {
		return common.ErrUnavailable
	}
	return nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) error {
	var resp tokenPairResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil, loginRequest{Email: email, Password: password}, &resp, false)
	if err != nil {
		return err
	}
	return c.tokens.SetTokens(ctx, resp.AccessToken, resp.RefreshToken)
}

func (c *HTTPClient) Profile(ctx context.Context) (*models.Profile, error) {
	var p models.Profile
	if err := c.doJSON(ctx, http.MethodGet, "/me", nil, nil, &p, true); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) Subjects(ctx context.Context) ([]models.Subject, error) {
	var out []models.Subject
	if err := c.doJSON(ctx, http.MethodGet, "/subjects", nil, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Notes(ctx context.Context, subjectID string) ([]models.Note, error) {
	q := url.Values{}
	if subjectID != "" {
		q.Set("subjectId", subjectID)
	}
	var out []models.Note
	if err := c.doJSON(ctx, http.MethodGet, "/notes", q, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateViewSession(ctx context.Context, noteID string) (*models.ViewSession, error) {
	var s models.ViewSession
	path := fmt.Sprintf("/notes/%s/view-session", url.PathEscape(noteID))
	if err := c.doJSON(ctx, http.MethodPost, path, nil, nil, &s, true); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) ResetViewSessions(ctx context.Context, noteID string) error {
	path := fmt.Sprintf("/notes/%s/view-session/reset", url.PathEscape(noteID))
	return c.doJSON(ctx, http.MethodPost, path, nil, nil, nil, true)
}

func (c *HTTPClient) Watermark(ctx context.Context, noteID, viewToken string) (*models.Watermark, error) {
	q := url.Values{common.ViewTokenQueryParam: []string{viewToken}}
	var w models.Watermark
	path := fmt.Sprintf("/notes/%s/watermark", url.PathEscape(noteID))
	if err := c.doJSON(ctx, http.MethodGet, path, q, nil, &w, true); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *HTTPClient) Content(ctx context.Context, noteID, viewToken string) ([]byte, string, error) {
	q := url.Values{common.ViewTokenQueryParam: []string{viewToken}}
	path := fmt.Sprintf("/notes/%s/content", url.PathEscape(noteID))

	resp, err := c.request(ctx, http.MethodGet, path, q, nil, true)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: reading content: %v", common.ErrUnavailable, err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func (c *HTTPClient) ReportProgress(ctx context.Context, noteID string, lastPage int, completionPercent float64) error {
	path := fmt.Sprintf("/notes/%s/progress", url.PathEscape(noteID))
	body := progressRequest{LastPage: lastPage, CompletionPercent: completionPercent}
	return c.doJSON(ctx, http.MethodPost, path, nil, body, nil, true)
}

func (c *HTTPClient) SendNoteEvent(ctx context.Context, ev NoteEvent) error {
	return c.doJSON(ctx, http.MethodPost, "/telemetry/note-events", nil, ev, nil, true)
}

// doJSON issues a request and decodes a JSON response body into out
// (out may be nil when the caller only cares about success).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, query url.Values, body, out any, auth bool) error {
	resp, err := c.request(ctx, method, path, query, body, auth)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// request performs one attempt and, for authenticated calls that come back
// 401, at most one refresh-and-retry. The returned response is always 2xx
// with an open body; everything else comes back as an error.
func (c *HTTPClient) request(ctx context.Context, method, path string, query url.Values, body any, auth bool) (*http.Response, error) {
	resp, err := c.attempt(ctx, method, path, query, body, auth)
	if err == nil {
		return resp, nil
	}

	var apiErr *APIError
	if !auth || !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		return nil, err
	}

	if apiErr.Code == CodeSessionTerminated {
		_ = c.tokens.ClearTokens(ctx)
		return nil, fmt.Errorf("%w: %s", common.ErrSessionTerminated, apiErr.Message)
	}

	if err := c.refreshTokens(ctx); err != nil {
		_ = c.tokens.ClearTokens(ctx)
		return nil, fmt.Errorf("%w: token refresh failed: %v", common.ErrSessionTerminated, err)
	}

	c.log.Debug(ctx, "tokens refreshed, retrying request", "method", method, "path", path)
	return c.attempt(ctx, method, path, query, body, auth)
}

func (c *HTTPClient) attempt(ctx context.Context, method, path string, query url.Values, body any, auth bool) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if auth {
		token, err := c.tokens.GetAccessToken(ctx)
		if err != nil {
			return nil, err
		}
		if token == "" {
			return nil, common.ErrUnauthorized
		}
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	return nil, decodeError(resp)
}

// decodeError turns a non-2xx response into an *APIError. Bodies that are
// not the {code,message} envelope are kept as the raw message.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var envelope struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && (envelope.Code != "" || envelope.Message != "") {
		apiErr.Code = envelope.Code
		apiErr.Message = envelope.Message
	} else {
		apiErr.Message = strings.TrimSpace(string(data))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

// refreshTokens exchanges the stored refresh token for a new pair. Serialized
// so that parallel 401s do not race each other with stale refresh tokens.
func (c *HTTPClient) refreshTokens(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	refresh, err := c.tokens.GetRefreshToken(ctx)
	if err != nil {
		return err
	}
	if refresh == "" {
		return common.ErrUnauthorized
	}

	var resp tokenPairResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/refresh", nil, refreshRequest{RefreshToken: refresh}, &resp, false); err != nil {
		return err
	}
	return c.tokens.SetTokens(ctx, resp.AccessToken, resp.RefreshToken)
}
