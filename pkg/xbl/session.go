/*
File: session.go
Description: HTTP session manager for the XAU toolkit. Owns one long-lived
client per logical backend (Xbox Live services, XAU auxiliary API, presence
spoofing) so connections are reused, builds a fresh complete header set per
request, and normalizes transport/status/parse failures into the package's
error taxonomy.
*/

package xbl

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xau-tools/xau/pkg/jsondoc"
	"github.com/xau-tools/xau/pkg/logging"
)

// requestTimeout bounds every request to any backend.
const requestTimeout = 30 * time.Second

// Domain selects which long-lived client a request goes through.
type Domain int

const (
	// DomainXboxLive covers the first-party xboxlive.com services.
	DomainXboxLive Domain = iota
	// DomainXAU covers the auxiliary XAU API.
	DomainXAU
	// DomainSpoofing is a dedicated client for presence heartbeats, kept
	// separate so a long-running spoofing session does not share
	// connection state with interactive page traffic.
	DomainSpoofing
)

// Credentials supplies the current authorization material and locale.
// Implemented by the settings store.
type Credentials interface {
	AuthToken() string
	CurrentSignature() string
	SignatureEnabled() bool
	Language() string
}

// Session is the shared API session handed to every page-level collaborator.
// Construction is explicit; there is no package-level singleton.
type Session struct {
	clients map[Domain]*http.Client
	creds   Credentials
	logger  *logrus.Logger

	// Version is the running application version, sent to the XAU API.
	Version string

	// baseURL, when set, replaces "https://{host}" in every endpoint.
	// Used by tests to point the session at a local server.
	baseURL string
}

// NewSession builds a session with one client per backend domain.
func NewSession(creds Credentials, logger *logrus.Logger, version string) *Session {
	newClient := func() *http.Client {
		return &http.Client{Timeout: requestTimeout}
	}
	return &Session{
		clients: map[Domain]*http.Client{
			DomainXboxLive: newClient(),
			DomainXAU:      newClient(),
			DomainSpoofing: newClient(),
		},
		creds:   creds,
		logger:  logger,
		Version: version,
	}
}

// GetClient returns the shared client for a domain. Headers are never
// stored on the client; every call site builds its own complete set.
func (s *Session) GetClient(domain Domain) *http.Client {
	return s.clients[domain]
}

// SetBaseURL redirects all endpoints to base (scheme://host). Test hook.
func (s *Session) SetBaseURL(base string) { s.baseURL = base }

// endpoint renders "https://{host}{path}" honoring the test override.
func (s *Session) endpoint(host, path string) string {
	if s.baseURL != "" {
		return s.baseURL + path
	}
	return fmt.Sprintf("https://%s%s", host, path)
}

// xboxHeaders sets the complete header set for an Xbox Live request.
// Called fresh for every request; nothing persists between calls.
func (s *Session) xboxHeaders(req *http.Request, contractVersion string) {
	req.Header.Set(HeaderContractVersion, contractVersion)
	req.Header.Set(HeaderAcceptEncoding, acceptEncodingValue)
	req.Header.Set(HeaderAccept, acceptJSONValue)
	req.Header.Set(HeaderAcceptLanguage, s.creds.Language())
	req.Header.Set(HeaderAuthorization, s.creds.AuthToken())
}

// xauHeaders sets the header set for an XAU auxiliary API request.
func (s *Session) xauHeaders(req *http.Request) {
	req.Header.Set(HeaderUserAgent, xauUserAgent)
	req.Header.Set(HeaderXAUVersion, s.Version)
	req.Header.Set(HeaderXAULanguage, s.creds.Language())
	req.Header.Set(HeaderXAU, xauClientTag)
}

// do executes the request on the domain's client and returns the
// decompressed body. Non-2xx responses become HTTPStatusError; transport
// failures become NetworkError. No retries anywhere: failures surface to
// the caller, and retry is always a fresh user action.
func (s *Session) do(domain Domain, op string, req *http.Request) ([]byte, error) {
	start := time.Now()
	resp, err := s.clients[domain].Do(req)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"op":  op,
			"url": req.URL.Redacted(),
		}).Errorf("Request failed: %v", err)
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := decompress(resp)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}

	logging.LogRequest(s.logger, op, req.Method, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPStatusError{Op: op, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// doJSON executes the request and parses the response body as a document.
func (s *Session) doJSON(domain Domain, op string, req *http.Request) (jsondoc.Document, error) {
	body, err := s.do(domain, op, req)
	if err != nil {
		return nil, err
	}
	doc, err := jsondoc.Parse(body)
	if err != nil {
		return nil, &ParseError{Op: op, Err: err}
	}
	return doc, nil
}

// decompress reads the response body, reversing gzip or deflate content
// encoding. Setting Accept-Encoding explicitly disables Go's transparent
// gzip handling, so this is done by hand.
func decompress(resp *http.Response) ([]byte, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip body: %w", err)
		}
		defer gz.Close()
		return io.ReadAll(gz)
	case "deflate":
		fl := flate.NewReader(resp.Body)
		defer fl.Close()
		return io.ReadAll(fl)
	default:
		return io.ReadAll(resp.Body)
	}
}

// newRequest builds a request with an optional JSON body.
func newRequest(ctx context.Context, method, url string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}
	return req, nil
}
