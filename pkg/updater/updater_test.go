/*
File: updater_test.go
Description: Update gate, version comparison, and announcement polling
tests against a fake auxiliary API.
*/

package updater

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xau-tools/xau/pkg/settings"
	"github.com/xau-tools/xau/pkg/xbl"
)

type fakeCreds struct{}

func (fakeCreds) AuthToken() string        { return "" }
func (fakeCreds) CurrentSignature() string { return "" }
func (fakeCreds) SignatureEnabled() bool   { return false }
func (fakeCreds) Language() string         { return "en-US" }

func newTestChecker(t *testing.T, version string, handler http.HandlerFunc) (*Checker, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	session := xbl.NewSession(fakeCreds{}, logger, version)
	session.SetBaseURL(server.URL)

	dir := t.TempDir()
	store, err := settings.Open(filepath.Join(dir, "settings.json"))
	require.NoError(t, err)

	return NewChecker(session, store, logger, dir), &calls
}

func statusHandler(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"updates": map[string]string{
				"version":      version,
				"downloadLink": "https://example.test/app.apk",
				"changelog":    "<p>Fixed sign-in</p><li>Faster lists</li>",
			},
		})
	}
}

func TestUpdateCheckDetectsNewVersion(t *testing.T) {
	checker, _ := newTestChecker(t, "1.0.0", statusHandler("1.1.0"))

	info := checker.CheckForUpdate(context.Background(), false)
	require.NotNil(t, info)
	assert.Equal(t, "1.1.0", info.Version)
	assert.Equal(t, "https://example.test/app.apk", info.DownloadURL)
	assert.Equal(t, "Fixed sign-in\nFaster lists", info.Changelog)
}

func TestUpdateCheckMatchingVersionMeansNoUpdate(t *testing.T) {
	checker, _ := newTestChecker(t, "1.1.0", statusHandler("1.1.0"))

	assert.Nil(t, checker.CheckForUpdate(context.Background(), false))
}

func TestUpdateCheckComparesVersionsExactly(t *testing.T) {
	// Any string difference is an update, including what a semantic
	// comparison would call a downgrade.
	checker, _ := newTestChecker(t, "2.0.0", statusHandler("1.9.0"))

	info := checker.CheckForUpdate(context.Background(), false)
	require.NotNil(t, info)
	assert.Equal(t, "1.9.0", info.Version)
}

func TestUpdateCheckRunsAtMostOncePerDay(t *testing.T) {
	checker, calls := newTestChecker(t, "1.0.0", statusHandler("1.1.0"))

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	checker.now = func() time.Time { return base }

	checker.CheckForUpdate(context.Background(), false)
	require.Equal(t, int64(1), calls.Load())

	// Second unforced check inside the window never reaches the network.
	checker.now = func() time.Time { return base.Add(23 * time.Hour) }
	assert.Nil(t, checker.CheckForUpdate(context.Background(), false))
	assert.Equal(t, int64(1), calls.Load())

	// Past the window the check runs again.
	checker.now = func() time.Time { return base.Add(25 * time.Hour) }
	checker.CheckForUpdate(context.Background(), false)
	assert.Equal(t, int64(2), calls.Load())
}

func TestForcedCheckIgnoresTheGate(t *testing.T) {
	checker, calls := newTestChecker(t, "1.0.0", statusHandler("1.1.0"))

	checker.CheckForUpdate(context.Background(), false)
	checker.CheckForUpdate(context.Background(), true)
	assert.Equal(t, int64(2), calls.Load())
}

func TestFailedCheckStillConsumesTheDailySlot(t *testing.T) {
	checker, calls := newTestChecker(t, "1.0.0", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	// A dead backend reads as "no update", never as an error.
	assert.Nil(t, checker.CheckForUpdate(context.Background(), false))
	require.Equal(t, int64(1), calls.Load())

	// The marker was written before the request, so the retry is gated.
	checker.CheckForUpdate(context.Background(), false)
	assert.Equal(t, int64(1), calls.Load())
}

func TestFetchAnnouncementsPersistsAndFlagsNewEntries(t *testing.T) {
	payload := `{"announcements":{"latest":{"id":"a-7","Title":"Maintenance","Body":"<p>Servers down <b>tonight</b></p>"},"previous":[{"Title":"Patch notes","Body":"<p>Minor fixes</p>"}]}}`
	checker, _ := newTestChecker(t, "1.0.0", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	})

	announcements, err := checker.FetchAnnouncements(context.Background())
	require.NoError(t, err)
	require.Len(t, announcements, 2)
	assert.Equal(t, "a-7", announcements[0].ID)
	assert.Equal(t, "Maintenance", announcements[0].Title)
	assert.Equal(t, "Servers down tonight", announcements[0].Body)
	assert.True(t, announcements[0].New)
	assert.Equal(t, "a-7", checker.store.AnnouncementID())

	// Previous entries follow the latest one and carry no id.
	assert.Equal(t, "", announcements[1].ID)
	assert.Equal(t, "Patch notes", announcements[1].Title)
	assert.Equal(t, "Minor fixes", announcements[1].Body)
	assert.False(t, announcements[1].New)

	raw, err := os.ReadFile(filepath.Join(checker.dataDir, "announcements.json"))
	require.NoError(t, err)
	var persisted map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &persisted))
	assert.Contains(t, persisted, "announcements")

	// The same id on the next poll is old news.
	announcements, err = checker.FetchAnnouncements(context.Background())
	require.NoError(t, err)
	require.Len(t, announcements, 2)
	assert.False(t, announcements[0].New)
}

func TestCachedAnnouncementsSurviveTheBackend(t *testing.T) {
	payload := `{"announcements":{"latest":{"id":"a-9","Title":"Downtime","Body":"<p>Back soon</p>"},"previous":[]}}`
	checker, _ := newTestChecker(t, "1.0.0", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	})

	// Nothing persisted yet.
	cached, err := checker.CachedAnnouncements()
	require.NoError(t, err)
	assert.Nil(t, cached)

	_, err = checker.FetchAnnouncements(context.Background())
	require.NoError(t, err)

	cached, err = checker.CachedAnnouncements()
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "Downtime", cached[0].Title)
	assert.Equal(t, "Back soon", cached[0].Body)
}

func TestMarkAnnouncementSeen(t *testing.T) {
	checker, _ := newTestChecker(t, "1.0.0", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"announcements":{"latest":{"id":"a-1","Title":"Hi","Body":"text"}}}`))
	})

	_, err := checker.FetchAnnouncements(context.Background())
	require.NoError(t, err)
	assert.False(t, checker.store.HasSeenAnnouncement())

	checker.MarkAnnouncementSeen()
	assert.True(t, checker.store.HasSeenAnnouncement())
}

func TestFlattenHTML(t *testing.T) {
	assert.Equal(t, "plain text", FlattenHTML("  plain text  "))
	assert.Equal(t, "First\nSecond", FlattenHTML("<p>First</p><p>Second</p>"))
	assert.Equal(t, "inline", FlattenHTML("<span>inline</span>"))
	assert.Equal(t, "", FlattenHTML(""))
}
