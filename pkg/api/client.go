package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/google/uuid"

	journey "github.com/mynaturejourney/journey/pkg"
	"github.com/mynaturejourney/journey/pkg/session"
)

// RequestIDHeader carries a per-request uuid for backend log correlation.
const RequestIDHeader = "X-Request-ID"

// Client talks to the MyNatureJourney REST backend.
type Client struct {
	baseURL   string
	http      *http.Client
	session   session.Provider
	userAgent string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithSession supplies the bearer token and receives 401 invalidations.
func WithSession(p session.Provider) Option {
	return func(c *Client) { c.session = p }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New returns a client for baseURL, e.g. "http://localhost:5000/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      http.DefaultClient,
		userAgent: "journey/" + journey.Version,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Token returns the current bearer token, or "".
func (c *Client) Token() string {
	if c.session == nil {
		return ""
	}
	return c.session.Token()
}

// URL builds an absolute URL for path with optional query values.
func (c *Client) URL(path string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// AuthedURL is URL with the bearer token appended as a query parameter,
// for consumers that cannot send headers.
func (c *Client) AuthedURL(path string) string {
	q := url.Values{}
	if tok := c.Token(); tok != "" {
		q.Set("token", tok)
	}
	return c.URL(path, q)
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.doJSON(ctx, http.MethodGet, c.URL(path, query), nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, c.URL(path, nil), body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPut, c.URL(path, nil), body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPatch, c.URL(path, nil), body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodDelete, c.URL(path, nil), nil, out)
}

// File is one multipart file part.
type File struct {
	Name   string
	Reader io.Reader
	// ContentType defaults to application/octet-stream.
	ContentType string
}

// Upload posts a multipart form with one file under field and the given string fields.
func (c *Client) Upload(ctx context.Context, path, field string, file File, fields map[string]string, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return &Error{Kind: KindUnknown, Err: fmt.Errorf("failed to write form field '%s': %w", k, err)}
		}
	}

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(field), escapeQuotes(file.Name)))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return &Error{Kind: KindUnknown, Err: fmt.Errorf("failed to create form file: %w", err)}
	}
	if _, err := io.Copy(part, file.Reader); err != nil {
		return &Error{Kind: KindUnknown, Err: fmt.Errorf("failed to read file '%s': %w", file.Name, err)}
	}
	if err := mw.Close(); err != nil {
		return &Error{Kind: KindUnknown, Err: fmt.Errorf("failed to finish multipart body: %w", err)}
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.URL(path, nil), &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req, out)
}

// Fetch returns the raw body and content type, e.g. photo bytes.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := c.send(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", transportError(ctx, err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func (c *Client) doJSON(ctx context.Context, method, rawURL string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindUnknown, Err: fmt.Errorf("failed to encode request body: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := c.newRequest(ctx, method, rawURL, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, rawURL string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Err: fmt.Errorf("failed to build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		if req.Context().Err() != nil {
			return transportError(req.Context(), err)
		}
		return &Error{Kind: KindUnknown, Status: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// send performs req and turns non-2xx responses into *Error.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	apiErr := &Error{
		Kind:    KindForStatus(resp.StatusCode),
		Status:  resp.StatusCode,
		Message: backendMessage(resp.Body),
	}
	if resp.StatusCode == http.StatusUnauthorized && c.session != nil {
		// Detach from ctx: the invalidation must land even if the caller gives up.
		if err := c.session.Invalidate(context.WithoutCancel(ctx)); err != nil {
			apiErr.Err = fmt.Errorf("failed to clear session: %w", err)
		}
	}
	return nil, apiErr
}

func backendMessage(body io.Reader) string {
	var payload struct {
		Error   any    `json:"error"`
		Message string `json:"message"`
	}
	raw, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil || len(raw) == 0 {
		return ""
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	if s, ok := payload.Error.(string); ok && s != "" {
		return s
	}
	return payload.Message
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
