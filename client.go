// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package fortigate

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/netip"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Default client configuration values
const (
	DefaultRequestTimeout    = 30 * time.Second
	DefaultVerifyCertificate = false
	DefaultUserAgent         = "go-fortigate"
	DefaultPrettyPrintLogs   = false

	// APIPath is the base path of the management API on every appliance
	APIPath = "/api/v2"
)

// Security limits for payload processing and logging
const (
	MaxResponseSize       = 64 * 1024 * 1024 // larger success responses fail with *DecodeError
	MaxJSONSizeForLogging = 1 * 1024 * 1024  // 1MB limit to prevent ReDoS attacks
	MaxSensitiveFields    = 1000             // Max redaction operations to prevent DoS
)

// Logging message constants
const (
	JSONTooLargeMessage     = "[JSON TOO LARGE FOR LOGGING]"
	JSONTooManySensitiveMsg = "[JSON CONTAINS TOO MANY SENSITIVE FIELDS]"
)

// sensitiveFields are JSON keys whose string values are redacted in logs.
// passwd and psksecret are the FortiOS names for user passwords and IPsec keys.
var sensitiveFields = []string{
	"password",
	"passwd",
	"secret",
	"psksecret",
	"key",
	"community",
	"token",
	"auth",
}

// defaultRedactionPatterns holds one pattern per entry of sensitiveFields.
// The value pattern spans escaped quotes so no part of a secret survives.
var defaultRedactionPatterns = func() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(sensitiveFields))
	for _, field := range sensitiveFields {
		patterns = append(patterns, regexp.MustCompile(`"`+field+`"\s*:\s*"(?:[^"\\]|\\.)*"`))
	}
	return patterns
}()

// Client is an authenticated session with a single appliance
//
// Host, base URL and token are fixed at construction. Execute never mutates
// the client, so one Client may be shared by many goroutines.
type Client struct {
	host    string
	baseURL string
	token   string // unexported for security

	verifyCertificate bool
	tlsCA             string
	requestTimeout    time.Duration
	userAgent         string

	httpClient       *http.Client
	customHTTPClient bool

	logger            Logger
	prettyPrintLogs   bool
	redactionPatterns []*regexp.Regexp
	maxResponseSize   int64
}

// NewClient creates a session bound to host with the given API token
//
// host may be an address, a hostname, host:port, or a URL; any scheme and
// trailing slash are removed. No connection is made here.
//
// Example:
//
//	client, err := fortigate.NewClient("10.0.0.1", os.Getenv("FGT_TOKEN"),
//	    fortigate.RequestTimeout(10*time.Second))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := client.Get(ctx, "cmdb/firewall/policy", fortigate.Vdom("dmz"))
//
// Returns an error if the configuration is invalid.
func NewClient(host, token string, opts ...func(*Client)) (*Client, error) {
	client := &Client{
		host:              NormalizeHost(host),
		token:             strings.TrimSpace(token),
		verifyCertificate: DefaultVerifyCertificate,
		requestTimeout:    DefaultRequestTimeout,
		userAgent:         DefaultUserAgent,
		logger:            &NoOpLogger{},
		prettyPrintLogs:   DefaultPrettyPrintLogs,
		redactionPatterns: defaultRedactionPatterns,
		maxResponseSize:   MaxResponseSize,
	}

	for _, opt := range opts {
		opt(client)
	}

	if err := client.validateConfig(); err != nil {
		return nil, err
	}

	client.baseURL = "https://" + client.host + APIPath

	if !client.customHTTPClient {
		httpClient, err := client.newHTTPClient()
		if err != nil {
			return nil, err
		}
		client.httpClient = httpClient
	}

	client.logger.Debug(context.Background(), "FortiGate client created",
		"host", client.host,
		"verify_certificate", client.verifyCertificate)

	return client, nil
}

// NormalizeHost strips whitespace, an http(s) scheme and trailing slashes.
// Bare IPv6 addresses are bracketed so they can carry a URL.
func NormalizeHost(host string) string {
	host = strings.TrimSpace(host)
	lower := strings.ToLower(host)
	for _, scheme := range []string{"https://", "http://"} {
		if strings.HasPrefix(lower, scheme) {
			host = host[len(scheme):]
			break
		}
	}
	host = strings.TrimRight(host, "/")

	if addr, err := netip.ParseAddr(host); err == nil && addr.Is6() {
		return "[" + strings.Replace(addr.String(), "%", "%25", 1) + "]"
	}
	return host
}

// Host returns the normalized appliance address
func (c *Client) Host() string {
	return c.host
}

// BaseURL returns the API base URL, e.g. https://10.0.0.1/api/v2
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RequestTimeout returns the per-request timeout
func (c *Client) RequestTimeout() time.Duration {
	return c.requestTimeout
}

// HasCredentials reports whether a token is configured without exposing it
func (c *Client) HasCredentials() bool {
	return c.token != ""
}

// validateConfig validates client configuration
func (c *Client) validateConfig() error {
	if c.host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if strings.ContainsAny(c.host, "/?#@ ") {
		return fmt.Errorf("invalid host: %q (expected address or address:port)", c.host)
	}
	if c.token == "" {
		return fmt.Errorf("API token cannot be empty")
	}
	if c.requestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got: %v", c.requestTimeout)
	}

	if !c.verifyCertificate && !c.customHTTPClient {
		c.logger.Debug(context.Background(), "TLS certificate verification disabled",
			"host", c.host)
	}

	if c.tlsCA != "" {
		if _, err := os.Stat(c.tlsCA); err != nil {
			c.logger.Debug(context.Background(), "TLS CA validation failed",
				"path", c.tlsCA,
				"error", err.Error())
			return fmt.Errorf("TLS CA file not found: %s", filepath.Base(c.tlsCA))
		}
	}

	return nil
}

// newHTTPClient builds a pooled HTTP client with the session's TLS settings
func (c *Client) newHTTPClient() (*http.Client, error) {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
		//nolint:gosec // G402: appliances use self-signed certificates; opt in with VerifyCertificate(true)
		InsecureSkipVerify: !c.verifyCertificate,
	}

	if c.tlsCA != "" {
		pem, err := os.ReadFile(c.tlsCA)
		if err != nil {
			return nil, fmt.Errorf("failed to read TLS CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("TLS CA file contains no certificates: %s", filepath.Base(c.tlsCA))
		}
		tlsConfig.RootCAs = pool
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsConfig

	return &http.Client{Transport: transport}, nil
}

// Execute performs one request against the appliance
//
// The URL is BaseURL + "/" + endpoint. When the request targets a partition
// other than root, vdom=<name> is added to the query unless the caller
// already set vdom. The request is sent exactly once.
//
// Errors:
//   - *TransportError when no response was received (including timeouts)
//   - *HTTPError when the appliance answered with status >= 400
//   - *DecodeError when a 2xx/3xx body is not valid JSON
//   - a plain error when the request is malformed (nothing is sent)
//
// Example:
//
//	res, err := client.Execute(ctx, fortigate.MethodGet, "cmdb/firewall/policy",
//	    fortigate.Vdom("dmz"))
//	if err != nil {
//	    var httpErr *fortigate.HTTPError
//	    if errors.As(err, &httpErr) {
//	        log.Printf("appliance returned %d: %s", httpErr.StatusCode, httpErr.Body)
//	    }
//	    return err
//	}
//	fmt.Println(res.Results().Raw)
func (c *Client) Execute(ctx context.Context, method, endpoint string, mods ...func(*Req)) (Res, error) {
	req := Req{
		Method:   strings.ToUpper(strings.TrimSpace(method)),
		Endpoint: strings.TrimLeft(strings.TrimSpace(endpoint), "/"),
		Vdom:     DefaultVdom,
	}
	for _, mod := range mods {
		mod(&req)
	}

	if err := validateRequest(&req); err != nil {
		return Res{}, err
	}

	target := c.buildURL(&req)

	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	var body io.Reader
	if req.Data != "" {
		body = strings.NewReader(req.Data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return Res{}, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug(ctx, "FortiGate request",
		"method", req.Method,
		"url", target,
		"vdom", req.Vdom,
		"body", c.logBody(req.Data))

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		transportErr := &TransportError{Method: req.Method, URL: target, Err: unwrapURLError(err)}
		c.logger.Error(ctx, "FortiGate request failed",
			"method", req.Method,
			"url", target,
			"timeout", transportErr.Timeout(),
			"error", transportErr.Err.Error())
		return Res{}, transportErr
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseSize+1))
	if err != nil {
		transportErr := &TransportError{Method: req.Method, URL: target, Err: fmt.Errorf("reading response body: %w", err)}
		c.logger.Error(ctx, "FortiGate response read failed",
			"method", req.Method,
			"url", target,
			"status", resp.StatusCode,
			"error", err.Error())
		return Res{}, transportErr
	}

	c.logger.Debug(ctx, "FortiGate response",
		"method", req.Method,
		"url", target,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"body", c.logBody(string(raw)))

	oversized := int64(len(raw)) > c.maxResponseSize
	if oversized {
		raw = raw[:c.maxResponseSize]
	}

	if resp.StatusCode >= http.StatusBadRequest {
		httpErr := &HTTPError{
			Method:     req.Method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       string(raw),
		}
		c.logger.Error(ctx, "FortiGate request rejected",
			"method", req.Method,
			"url", target,
			"status", resp.StatusCode,
			"message", httpErr.Message())
		return Res{}, httpErr
	}

	if oversized {
		err := fmt.Errorf("%w: limit is %d bytes", ErrResponseTooLarge, c.maxResponseSize)
		c.logger.Error(ctx, "FortiGate response too large",
			"method", req.Method,
			"url", target,
			"status", resp.StatusCode,
			"limit", c.maxResponseSize)
		return Res{}, &DecodeError{
			Method:     req.Method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       truncate(string(raw), 200),
			Err:        err,
		}
	}

	if err := checkJSON(raw); err != nil {
		c.logger.Error(ctx, "FortiGate response is not JSON",
			"method", req.Method,
			"url", target,
			"status", resp.StatusCode,
			"error", err.Error())
		return Res{}, &DecodeError{
			Method:     req.Method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       string(raw),
			Err:        err,
		}
	}

	return Res{
		Method:     req.Method,
		URL:        target,
		StatusCode: resp.StatusCode,
		Raw:        string(raw),
	}, nil
}

// buildURL joins base URL, endpoint and the partition-scoped query
func (c *Client) buildURL(req *Req) string {
	target := c.baseURL + "/" + req.Endpoint
	if query := req.scopedQuery(); len(query) > 0 {
		target += "?" + query.Encode()
	}
	return target
}

// unwrapURLError strips the *url.Error wrapper added by http.Client so the
// TransportError message does not repeat method and URL
func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}

// checkJSON returns a descriptive error when raw is not a JSON document
func checkJSON(raw []byte) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return errors.New("empty response body")
	}
	if gjson.ValidBytes(raw) {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	return errors.New("malformed JSON")
}

// logBody returns the loggable form of a payload, or "" when debug output is
// discarded anyway
func (c *Client) logBody(jsonStr string) string {
	if !debugEnabled(c.logger) {
		return ""
	}
	return c.prepareJSONForLogging(jsonStr)
}

// prepareJSONForLogging redacts sensitive data and formats JSON for logging
//
//  1. Enforces MaxJSONSizeForLogging
//  2. Refuses to process more than MaxSensitiveFields sensitive keys
//  3. Redacts sensitive string values
//  4. Pretty-prints when enabled
func (c *Client) prepareJSONForLogging(jsonStr string) string {
	if jsonStr == "" {
		return ""
	}
	if len(jsonStr) > MaxJSONSizeForLogging {
		return JSONTooLargeMessage
	}

	sensitiveCount := 0
	for _, field := range sensitiveFields {
		sensitiveCount += strings.Count(jsonStr, `"`+field+`"`)
	}
	if sensitiveCount > MaxSensitiveFields {
		c.logger.Warn(context.Background(), "Too many sensitive fields detected",
			"count", sensitiveCount,
			"max", MaxSensitiveFields)
		return JSONTooManySensitiveMsg
	}

	redacted := c.redactSensitiveData(jsonStr)

	if c.prettyPrintLogs {
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(redacted), "", "  "); err == nil {
			return buf.String()
		}
	}

	return redacted
}

// redactSensitiveData replaces sensitive string values with [REDACTED]
func (c *Client) redactSensitiveData(jsonStr string) string {
	result := jsonStr
	for i, pattern := range c.redactionPatterns {
		if i >= len(sensitiveFields) {
			break
		}
		result = pattern.ReplaceAllString(result, `"`+sensitiveFields[i]+`":"[REDACTED]"`)
	}
	return result
}
