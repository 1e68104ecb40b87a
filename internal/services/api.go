package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/wingera/schematic-material-viewer/internal/models"
	"github.com/wingera/schematic-material-viewer/internal/shared"
)

const DefaultBaseURL = "http://localhost:5000"

// Client talks to the material tracking service over REST. The session
// cookie issued by /login lives in the client's cookie jar, so a single
// Client carries one authenticated session.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  *log.Logger
}

type ClientOption func(*Client)

func WithBaseURL(base string) ClientOption {
	return func(c *Client) {
		c.baseURL = base
	}
}

func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		c.http = h
	}
}

func NewClient(logger *log.Logger, opts ...ClientOption) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL: DefaultBaseURL,
		http: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(10), 1),
		logger:  logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.http.Jar == nil {
		c.http.Jar = jar
	}

	return c
}

var _ API = (*Client)(nil)

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader, contentType string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", shared.ErrServiceUnavailable, method, endpoint, err)
	}

	c.logger.Debug("api request", "method", method, "endpoint", endpoint, "status", resp.StatusCode)

	return resp, nil
}

// getJSON issues a GET and decodes a successful response into out.
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, endpoint, nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, endpoint); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s response: %v", shared.ErrAPIRequest, endpoint, err)
	}
	return nil
}

// postJSON issues a POST with a JSON body and decodes a successful
// response into out.
func (c *Client) postJSON(ctx context.Context, endpoint string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%w: encoding %s request: %v", shared.ErrAPIRequest, endpoint, err)
		}
		body = bytes.NewReader(raw)
	}

	resp, err := c.do(ctx, http.MethodPost, endpoint, body, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, endpoint); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s response: %v", shared.ErrAPIRequest, endpoint, err)
	}
	return nil
}

// checkStatus maps non-2xx responses onto the package's error
// sentinels, carrying the server's error message when one is present.
func (c *Client) checkStatus(resp *http.Response, endpoint string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	msg := serverError(resp.Body)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if msg != "" {
			return fmt.Errorf("%w: %s", shared.ErrNotAuthenticated, msg)
		}
		return fmt.Errorf("%w: %s", shared.ErrNotAuthenticated, endpoint)
	case http.StatusNotFound:
		if msg != "" {
			return fmt.Errorf("%w: %s", shared.ErrFileNotFound, msg)
		}
		return fmt.Errorf("%w: %s", shared.ErrFileNotFound, endpoint)
	default:
		if msg != "" {
			return fmt.Errorf("%w: %s returned %d: %s", shared.ErrAPIRequest, endpoint, resp.StatusCode, msg)
		}
		return fmt.Errorf("%w: %s returned %d", shared.ErrAPIRequest, endpoint, resp.StatusCode)
	}
}

// serverError extracts the {"error": "..."} message from an error
// payload, or returns the empty string when the body is not one.
func serverError(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}

func (c *Client) CheckAuth(ctx context.Context) (*AuthStatus, error) {
	var status AuthStatus
	if err := c.getJSON(ctx, "/check_auth", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	payload := map[string]string{"username": username, "password": password}

	var result AuthResult
	err := c.postJSON(ctx, "/login", payload, &result)
	if err != nil {
		// Rejected credentials come back 401 with a message. Surface
		// them as a failed result so the caller can show the reason.
		if msg, ok := authRejection(err); ok {
			return &AuthResult{Success: false, Message: msg}, nil
		}
		return nil, err
	}
	if result.Username == "" {
		result.Username = username
	}
	return &result, nil
}

func (c *Client) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	payload := map[string]string{"username": username, "password": password}

	var result AuthResult
	if err := c.postJSON(ctx, "/register", payload, &result); err != nil {
		return nil, err
	}
	if result.Username == "" {
		result.Username = username
	}
	return &result, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.postJSON(ctx, "/logout", nil, nil)
}

// fileListResponse is the wire shape of the listing endpoints. The
// service wraps the entries in a "files" object.
type fileListResponse struct {
	Files []models.FileInfo `json:"files"`
}

func (c *Client) FileList(ctx context.Context) ([]models.FileInfo, error) {
	var result fileListResponse
	if err := c.getJSON(ctx, "/file_list", &result); err != nil {
		return nil, err
	}
	return result.Files, nil
}

func (c *Client) AllFiles(ctx context.Context) ([]models.FileInfo, error) {
	var result fileListResponse
	if err := c.getJSON(ctx, "/all_files", &result); err != nil {
		return nil, err
	}
	return result.Files, nil
}

func (c *Client) Upload(ctx context.Context, filename string, size int64, content io.Reader, description string) (*UploadResult, error) {
	if err := ValidateUpload(filename, size); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("%w: building upload form: %v", shared.ErrAPIRequest, err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", shared.ErrAPIRequest, filename, err)
	}
	if description != "" {
		if err := form.WriteField("description", description); err != nil {
			return nil, fmt.Errorf("%w: building upload form: %v", shared.ErrAPIRequest, err)
		}
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("%w: building upload form: %v", shared.ErrAPIRequest, err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/upload", &buf, form.FormDataContentType())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, "/upload"); err != nil {
		return nil, err
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decoding /upload response: %v", shared.ErrAPIRequest, err)
	}
	return &result, nil
}

func (c *Client) OpenFile(ctx context.Context, filename string) ([]models.Row, error) {
	var payload struct {
		Data []models.Row `json:"data"`
	}
	endpoint := "/open_file/" + url.PathEscape(filename)
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

func (c *Client) DeleteFile(ctx context.Context, filename string) (string, error) {
	endpoint := "/delete_file/" + url.PathEscape(filename)

	resp, err := c.do(ctx, http.MethodDelete, endpoint, nil, "")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, endpoint); err != nil {
		return "", err
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decoding %s response: %v", shared.ErrAPIRequest, endpoint, err)
	}
	return payload.Message, nil
}

func (c *Client) Save(ctx context.Context, filename string, rows []models.Row, description string) (*SaveResult, error) {
	payload := map[string]any{
		"filename":    filename,
		"data":        rows,
		"description": description,
	}

	var result SaveResult
	if err := c.postJSON(ctx, "/save", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) AutoSave(ctx context.Context, filename string, rows []models.Row) error {
	payload := map[string]any{
		"filename": filename,
		"data":     rows,
	}
	return c.postJSON(ctx, "/auto_save", payload, nil)
}

func (c *Client) Health(ctx context.Context) error {
	return c.getJSON(ctx, "/health", nil)
}

// authRejection reports whether err is a credential rejection and
// returns the server's message when it is.
func authRejection(err error) (string, bool) {
	if !errors.Is(err, shared.ErrNotAuthenticated) {
		return "", false
	}
	msg := err.Error()
	prefix := shared.ErrNotAuthenticated.Error() + ": "
	if strings.HasPrefix(msg, prefix) {
		return strings.TrimPrefix(msg, prefix), true
	}
	return msg, true
}
