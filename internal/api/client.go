package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// TokenSource supplies the bearer credential for authenticated calls.
// An empty string means no credential is held.
type TokenSource interface {
	Token() string
}

// Client talks to the CogniPath API. All methods are context-aware and
// return ErrUnauthorized for any 401 so callers can terminate the session.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     *zap.SugaredLogger
}

// New creates a Client rooted at baseURL. timeout bounds each request at
// the transport level; zero means the net/http default.
func New(baseURL string, timeout time.Duration, tokens TokenSource, log *zap.SugaredLogger) *Client {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log,
	}
}

// ResolveURL makes a server-relative chart or report path absolute
// against the API root. Absolute URLs pass through unchanged.
func (c *Client) ResolveURL(ref string) string {
	if ref == "" || strings.Contains(ref, "://") {
		return ref
	}
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	return c.baseURL + ref
}

// Login exchanges credentials for a bearer token. The endpoint expects a
// form-encoded body with OAuth2 password-flow field names.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", &APIError{Status: http.StatusOK, Detail: "login response missing access_token"}
	}
	return out.AccessToken, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, in RegisterInput) error {
	req, err := c.jsonRequest(ctx, http.MethodPost, "/register", in)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users/me", nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	var u User
	if err := c.do(req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateMe submits a partial profile update and returns the fresh profile.
// Callers must not invoke it with an empty update.
func (c *Client) UpdateMe(ctx context.Context, update ProfileUpdate) (*User, error) {
	req, err := c.jsonRequest(ctx, http.MethodPut, "/users/me", update)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	var u User
	if err := c.do(req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Start begins a quiz session and returns the first question. difficulty 0
// lets the server choose adaptively.
func (c *Client) Start(ctx context.Context, difficulty int) (*Question, error) {
	path := "/start"
	if difficulty > 0 {
		path += "?difficulty=" + strconv.Itoa(difficulty)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	var out struct {
		FirstQuestion json.RawMessage `json:"first_question"`
	}
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return decodeQuestion(out.FirstQuestion)
}

// Submit grades an answer. The returned result's NextQuestion carries the
// server's error marker when the session cannot continue.
func (c *Client) Submit(ctx context.Context, sub Submission) (*SubmitResult, error) {
	req, err := c.jsonRequest(ctx, http.MethodPost, "/submit", sub)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	var raw struct {
		IsCorrect    bool            `json:"is_correct"`
		Feedback     string          `json:"feedback"`
		Report       *Report         `json:"report"`
		NextQuestion json.RawMessage `json:"next_question"`
	}
	if err := c.do(req, &raw); err != nil {
		return nil, err
	}

	res := &SubmitResult{
		IsCorrect: raw.IsCorrect,
		Feedback:  raw.Feedback,
		Report:    raw.Report,
	}
	next, err := decodeQuestion(raw.NextQuestion)
	if err != nil {
		return nil, err
	}
	res.NextQuestion = next
	return res, nil
}

// Hint asks for a hint on the given question text.
func (c *Client) Hint(ctx context.Context, questionText string) (string, error) {
	body := map[string]string{"question_text": questionText}
	req, err := c.jsonRequest(ctx, http.MethodPost, "/hint", body)
	if err != nil {
		return "", err
	}
	c.authorize(req)

	var out struct {
		Hint string `json:"hint"`
	}
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return out.Hint, nil
}

// ReportIssue flags a question with a user comment.
func (c *Client) ReportIssue(ctx context.Context, questionText, comment string) error {
	body := map[string]string{"question_text": questionText, "comment": comment}
	req, err := c.jsonRequest(ctx, http.MethodPost, "/report-issue", body)
	if err != nil {
		return err
	}
	c.authorize(req)
	return c.do(req, nil)
}

// ShareReport exchanges the user's latest report for a shareable path.
func (c *Client) ShareReport(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/reports/share", nil)
	if err != nil {
		return "", err
	}
	c.authorize(req)

	var out struct {
		ReportURL string `json:"report_url"`
	}
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return out.ReportURL, nil
}

// PublicReport fetches a shared report by its opaque identifier. No
// authentication is attached.
func (c *Client) PublicReport(ctx context.Context, id string) (*SharedReport, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reports/share/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var rep SharedReport
	if err := c.do(req, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

// jsonRequest builds a request with a JSON body.
func (c *Client) jsonRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// authorize attaches the bearer credential if one is held.
func (c *Client) authorize(req *http.Request) {
	if c.tokens == nil {
		return
	}
	if tok := c.tokens.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
}

// do executes the request and decodes a JSON response into out (when out
// is non-nil). 401 maps to ErrUnauthorized; other non-2xx to *APIError.
func (c *Client) do(req *http.Request, out any) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debugw("request failed", "method", req.Method, "url", req.URL.Path, "err", err)
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	c.log.Debugw("request done",
		"method", req.Method,
		"url", req.URL.Path,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Detail: readDetail(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

// readDetail extracts the server's human-readable error detail, if any.
func readDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var body struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(data, &body) == nil && body.Detail != "" {
		return body.Detail
	}
	return ""
}
