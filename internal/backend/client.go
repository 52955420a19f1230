package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// ErrNoResponse classifies failures where no HTTP response reached the
// client (DNS failure, refused connection, timeout).
var ErrNoResponse = errors.New("no response from auth service")

// StatusError is a non-2xx HTTP response from the auth service, carrying
// whatever detail the server included in its body.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("auth service returned %d", e.StatusCode)
	}
	return fmt.Sprintf("auth service returned %d: %s", e.StatusCode, e.Detail)
}

const (
	loginPath  = "/auth/login"
	verifyPath = "/auth/verify-otp"

	maxErrorBody = 4 << 10
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// VerifyResponse is the verification endpoint's body. Success false with a
// nil error is a valid outcome: the server reached a decision and rejected
// the code.
type VerifyResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}

// Client calls the external Auth Service.
//
// The embedded http.Client carries a cookie jar so the verification call
// includes whatever cookies the login call set, matching the deployed
// backend's expectations.
type Client struct {
	baseURL string
	http    *http.Client
	observe func(time.Duration)
}

// New creates a Client for the given base URL. When httpClient is nil a
// client with a fresh cookie jar and the given timeout is constructed.
// observe, when non-nil, receives the duration of every completed round
// trip.
func New(baseURL string, httpClient *http.Client, timeout time.Duration, observe func(time.Duration)) *Client {
	if httpClient == nil {
		jar, _ := cookiejar.New(nil)
		httpClient = &http.Client{Jar: jar, Timeout: timeout}
	}
	if observe == nil {
		observe = func(time.Duration) {}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		observe: observe,
	}
}

// RequestOTP posts credentials to /auth/login. A 2xx response means the OTP
// challenge was issued. Failures are classified as [ErrNoResponse] or
// [*StatusError]; the caller maps them onto its own taxonomy.
func (c *Client) RequestOTP(ctx context.Context, email, password string) error {
	resp, err := c.post(ctx, loginPath, loginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Detail: readDetail(resp.Body)}
	}

	io.Copy(io.Discard, resp.Body)
	return nil
}

// VerifyOTP posts {email, otp} to /auth/verify-otp with cookies included and
// decodes the {success, token} body.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (*VerifyResponse, error) {
	resp, err := c.post(ctx, verifyPath, verifyRequest{Email: email, OTP: otp})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Detail: readDetail(resp.Body)}
	}

	var out VerifyResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding verify response: %w", err)
	}

	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	c.observe(time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoResponse, err)
	}

	return resp, nil
}

// readDetail extracts a human-readable detail string from an error body.
// The backend answers with {"message": ...} on most failures; anything else
// is passed through truncated.
func readDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}

	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}

	return strings.TrimSpace(string(data))
}
