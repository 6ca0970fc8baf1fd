/*
File: session_test.go
Description: Transport-level session tests: header construction, response
decompression, and the error taxonomy.
*/

package xbl

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCreds is a fixed credential source for tests.
type fakeCreds struct {
	token     string
	signature string
	sigOn     bool
	language  string
}

func (f fakeCreds) AuthToken() string        { return f.token }
func (f fakeCreds) CurrentSignature() string { return f.signature }
func (f fakeCreds) SignatureEnabled() bool   { return f.sigOn }
func (f fakeCreds) Language() string         { return f.language }

func testCreds() fakeCreds {
	return fakeCreds{
		token:     "XBL3.0 x=12345;eytoken",
		signature: "sig-material",
		sigOn:     true,
		language:  "en-US",
	}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestSession(t *testing.T, handler http.HandlerFunc) *Session {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	session := NewSession(testCreds(), quietLogger(), "1.2.3")
	session.SetBaseURL(server.URL)
	return session
}

func TestXboxHeadersAreRebuiltPerRequest(t *testing.T) {
	var got http.Header
	session := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{"profileUsers":[{"id":"271828"}]}`))
	})

	xuid, err := session.SelfXUID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "271828", xuid)

	assert.Equal(t, "2", got.Get("x-xbl-contract-version"))
	assert.Equal(t, "gzip, deflate", got.Get("Accept-Encoding"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Equal(t, "en-US", got.Get("Accept-Language"))
	assert.Equal(t, "XBL3.0 x=12345;eytoken", got.Get("Authorization"))
}

func TestXAUHeadersCarryClientIdentity(t *testing.T) {
	var got http.Header
	session := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{"version":"1.2.3"}`))
	})

	_, err := session.Status(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Meow Meow", got.Get("User-Agent"))
	assert.Equal(t, "1.2.3", got.Get("x-xau-version"))
	assert.Equal(t, "en-US", got.Get("x-xau-language"))
	assert.Equal(t, "xaumobileapk", got.Get("x-xau"))
}

func TestGzipResponseBodyIsDecompressed(t *testing.T) {
	session := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		gz.Write([]byte(`{"profileUsers":[{"id":"314159"}]}`))
		gz.Close()
		w.Header().Set("Content-Encoding", "gzip")
		w.Write(buf.Bytes())
	})

	xuid, err := session.SelfXUID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "314159", xuid)
}

func TestDeflateResponseBodyIsDecompressed(t *testing.T) {
	session := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		fl, err := flate.NewWriter(&buf, flate.DefaultCompression)
		require.NoError(t, err)
		fl.Write([]byte(`{"profileUsers":[{"id":"161803"}]}`))
		fl.Close()
		w.Header().Set("Content-Encoding", "deflate")
		w.Write(buf.Bytes())
	})

	xuid, err := session.SelfXUID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "161803", xuid)
}

func TestNonSuccessStatusBecomesHTTPStatusError(t *testing.T) {
	session := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("token expired"))
	})

	_, err := session.SelfXUID(context.Background())
	require.Error(t, err)

	var statusErr *HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "token expired")
	assert.True(t, IsAuthFailure(err))
	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))
}

func TestTransportFailureBecomesNetworkError(t *testing.T) {
	session := NewSession(testCreds(), quietLogger(), "1.2.3")
	// A closed server: the port is released before the request runs.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()
	session.SetBaseURL(server.URL)

	_, err := session.SelfXUID(context.Background())
	require.Error(t, err)

	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
	assert.False(t, IsAuthFailure(err))
}

func TestMalformedBodyBecomesParseError(t *testing.T) {
	session := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	})

	_, err := session.SelfXUID(context.Background())
	require.Error(t, err)

	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestSelfXUIDRejectsEmptyProfileList(t *testing.T) {
	session := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"profileUsers":[]}`))
	})

	_, err := session.SelfXUID(context.Background())
	require.Error(t, err)

	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}
