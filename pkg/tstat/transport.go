package tstat

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Transport performs the HTTP calls to the thermostat.
type Transport interface {
	Get(ctx context.Context, endpoint string) ([]byte, int, error)
	Post(ctx context.Context, endpoint string, form url.Values) (int, error)
}

var _ Transport = &HTTPTransport{}

// HTTPTransport calls the thermostat at Address over plain HTTP.
// Address is either a host[:port], or a URL with a scheme, e.g. "http://192.168.0.10".
type HTTPTransport struct {
	Address    string
	HTTPClient *http.Client
}

// Get performs a GET request on the endpoint and returns the body and the HTTP status code.
func (t *HTTPTransport) Get(ctx context.Context, endpoint string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.url(endpoint), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	resp, err := t.client().Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	return body, resp.StatusCode, err
}

// Post sends the form to the endpoint and returns the HTTP status code.
func (t *HTTPTransport) Post(ctx context.Context, endpoint string, form url.Values) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url(endpoint), strings.NewReader(form.Encode()))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/plain")

	resp, err := t.client().Do(req)
	if err != nil {
		return 0, err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return resp.StatusCode, nil
}

func (t *HTTPTransport) url(endpoint string) string {
	address := strings.TrimRight(t.Address, "/")
	if !strings.Contains(address, "://") {
		address = "http://" + address
	}
	return address + endpoint
}

func (t *HTTPTransport) client() *http.Client {
	if t.HTTPClient != nil {
		return t.HTTPClient
	}
	return http.DefaultClient
}
