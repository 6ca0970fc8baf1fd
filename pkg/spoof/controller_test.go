/*
File: controller_test.go
Description: Spoofing session lifecycle tests against a fake presence
backend.
*/

package spoof

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xau-tools/xau/pkg/xbl"
)

type fakeCreds struct{}

func (fakeCreds) AuthToken() string        { return "XBL3.0 x=1;tok" }
func (fakeCreds) CurrentSignature() string { return "" }
func (fakeCreds) SignatureEnabled() bool   { return false }
func (fakeCreds) Language() string         { return "en-US" }

// presenceBackend is an in-memory stand-in for the title, stats, and
// presence services a session talks to.
type presenceBackend struct {
	mu             sync.Mutex
	heartbeats     int
	deletes        int
	failHeartbeats bool
	knownTitle     bool
}

func (b *presenceBackend) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		switch {
		case strings.Contains(r.URL.Path, "/titles/batch"):
			if !b.knownTitle {
				w.Write([]byte(`{"titles":[]}`))
				return
			}
			w.Write([]byte(`{"titles":[{"name":"Sea of Thieves","titleId":"1762045001"}]}`))
		case r.URL.Path == "/batch":
			w.Write([]byte(`{"statlistscollection":[{"stats":[{"name":"MinutesPlayed","value":"1234"}]}]}`))
		case r.Method == http.MethodPost && strings.Contains(r.URL.Path, "/devices/current"):
			if b.failHeartbeats {
				w.WriteHeader(http.StatusConflict)
				return
			}
			b.heartbeats++
			w.Write([]byte(`{}`))
		case r.Method == http.MethodDelete:
			b.deletes++
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func (b *presenceBackend) heartbeatCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.heartbeats
}

func (b *presenceBackend) deleteCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.deletes
}

func (b *presenceBackend) setFailHeartbeats(fail bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failHeartbeats = fail
}

func newTestController(t *testing.T, backend *presenceBackend, interval time.Duration) *Controller {
	t.Helper()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	session := xbl.NewSession(fakeCreds{}, logger, "1.0.0")
	session.SetBaseURL(server.URL)

	controller := NewController(session, logger)
	controller.interval = interval
	return controller
}

func TestStartSendsFirstHeartbeatImmediately(t *testing.T) {
	backend := &presenceBackend{knownTitle: true}
	controller := newTestController(t, backend, time.Hour)

	target, err := controller.Start(context.Background(), "271828", "1762045001", "None")
	require.NoError(t, err)
	defer controller.Stop(context.Background(), "271828")

	// One send before the first ticker interval ever elapses.
	assert.Equal(t, 1, backend.heartbeatCount())
	assert.Equal(t, StateActive, controller.State())
	assert.Equal(t, "Sea of Thieves", target.Info.Name)
	assert.Equal(t, "1234", target.MinutesPlayed)
}

func TestUnknownTitleFailsValidation(t *testing.T) {
	backend := &presenceBackend{knownTitle: false}
	controller := newTestController(t, backend, time.Hour)

	_, err := controller.Start(context.Background(), "271828", "999", "None")
	require.Error(t, err)
	assert.Equal(t, StateIdle, controller.State())
	assert.Equal(t, 0, backend.heartbeatCount())

	// An idle controller accepts a retry with a valid target.
	backend.mu.Lock()
	backend.knownTitle = true
	backend.mu.Unlock()
	_, err = controller.Start(context.Background(), "271828", "1762045001", "None")
	require.NoError(t, err)
	controller.Stop(context.Background(), "271828")
}

func TestSecondStartWhileActiveIsRejected(t *testing.T) {
	backend := &presenceBackend{knownTitle: true}
	controller := newTestController(t, backend, time.Hour)

	_, err := controller.Start(context.Background(), "271828", "1762045001", "None")
	require.NoError(t, err)
	defer controller.Stop(context.Background(), "271828")

	_, err = controller.Start(context.Background(), "271828", "1762045001", "None")
	var stateErr *xbl.StateError
	assert.ErrorAs(t, err, &stateErr)
}

func TestHeartbeatsResendOnCadence(t *testing.T) {
	backend := &presenceBackend{knownTitle: true}
	controller := newTestController(t, backend, 20*time.Millisecond)

	_, err := controller.Start(context.Background(), "271828", "1762045001", "None")
	require.NoError(t, err)
	defer controller.Stop(context.Background(), "271828")

	require.Eventually(t, func() bool {
		return backend.heartbeatCount() >= 3
	}, 2*time.Second, 5*time.Millisecond)
}

func TestHeartbeatFailureEndsTheSession(t *testing.T) {
	backend := &presenceBackend{knownTitle: true}
	controller := newTestController(t, backend, 20*time.Millisecond)

	_, err := controller.Start(context.Background(), "271828", "1762045001", "None")
	require.NoError(t, err)
	backend.setFailHeartbeats(true)

	select {
	case <-controller.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not end after heartbeat failure")
	}

	assert.Equal(t, StateFailed, controller.State())
	require.Error(t, controller.Err())
	assert.Equal(t, http.StatusConflict, xbl.StatusCode(controller.Err()))

	// A failed session tears down for good: no more sends arrive.
	backend.setFailHeartbeats(false)
	before := backend.heartbeatCount()
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, before, backend.heartbeatCount())
}

func TestStopClearsPresence(t *testing.T) {
	backend := &presenceBackend{knownTitle: true}
	controller := newTestController(t, backend, time.Hour)

	_, err := controller.Start(context.Background(), "271828", "1762045001", "None")
	require.NoError(t, err)

	controller.Stop(context.Background(), "271828")
	assert.Equal(t, StateStopped, controller.State())
	assert.Equal(t, 1, backend.deleteCount())

	// Stopping an already stopped session is a no-op.
	controller.Stop(context.Background(), "271828")
	assert.Equal(t, 1, backend.deleteCount())
}

func TestElapsedIsZeroOutsideActiveSessions(t *testing.T) {
	backend := &presenceBackend{knownTitle: true}
	controller := newTestController(t, backend, time.Hour)
	assert.Equal(t, time.Duration(0), controller.Elapsed())

	_, err := controller.Start(context.Background(), "271828", "1762045001", "None")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, controller.Elapsed(), time.Duration(0))

	controller.Stop(context.Background(), "271828")
	assert.Equal(t, time.Duration(0), controller.Elapsed())
}
