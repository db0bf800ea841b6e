package testhelpers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/stretchr/testify/require"
)

// BuildRequest creates a request against the service and sets the JSON
// content type for bodies.
func (h *TestHelper) BuildRequest(method, reqURL string, body []byte) *http.Request {
	req, err := http.NewRequest(method, reqURL, bytes.NewReader(body))
	require.NoError(h.T, err)

	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Origin", "http://localhost:3000")
	return req
}

// BuildJSONRequest marshals payload and builds the request.
func (h *TestHelper) BuildJSONRequest(method, reqURL string, payload any) *http.Request {
	body, err := json.Marshal(payload)
	require.NoError(h.T, err)
	return h.BuildRequest(method, reqURL, body)
}

// NewHTTPClient creates a plain HTTP client.
func (h *TestHelper) NewHTTPClient() *http.Client {
	return &http.Client{}
}

// DoRequest performs an HTTP request and asserts that no network-level error occurred.
func (h *TestHelper) DoRequest(req *http.Request, client *http.Client) *http.Response {
	resp, err := client.Do(req)
	require.NoError(h.T, err, "HTTP request failed")
	return resp
}

// ReadBody reads the response body and returns it as a string for logging or inspection.
func (h *TestHelper) ReadBody(resp *http.Response) string {
	if resp == nil || resp.Body == nil {
		return "<nil response or body>"
	}
	bodyBytes, err := io.ReadAll(resp.Body)
	// After reading, we need to restore the body so it can be read again if needed.
	resp.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
	require.NoError(h.T, err, "Failed to read response body")
	return string(bodyBytes)
}

// DecodeJSON decodes the response body into v.
func (h *TestHelper) DecodeJSON(resp *http.Response, v any) {
	require.NoError(h.T, json.NewDecoder(resp.Body).Decode(v), "Failed to decode response body")
}
