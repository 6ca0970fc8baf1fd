/*
File: updater.go
Description: Release update checks and announcement polling against the XAU
auxiliary API. Update checks are rate limited to one network call per day;
the marker is written before the request so a failing backend is not hammered
on every launch.
*/

package updater

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/xau-tools/xau/pkg/jsondoc"
	"github.com/xau-tools/xau/pkg/settings"
	"github.com/xau-tools/xau/pkg/xbl"
)

// checkInterval is the minimum gap between unforced update checks.
const checkInterval = 24 * time.Hour

// announcementsFile is the on-disk copy of the last announcements payload.
const announcementsFile = "announcements.json"

// UpdateInfo describes an available release.
type UpdateInfo struct {
	Version     string
	DownloadURL string
	Changelog   string
}

// Announcement is one flattened announcement entry.
type Announcement struct {
	ID    string
	Title string
	Body  string
	New   bool
}

// Checker polls the auxiliary API for releases and announcements.
type Checker struct {
	session *xbl.Session
	store   *settings.Store
	logger  *logrus.Logger

	// dataDir receives the persisted announcements payload.
	dataDir string

	// now is the clock, overridable in tests.
	now func() time.Time
}

// NewChecker wires a checker to the shared session and settings store.
// dataDir must exist; the announcements payload is written beneath it.
func NewChecker(session *xbl.Session, store *settings.Store, logger *logrus.Logger, dataDir string) *Checker {
	return &Checker{
		session: session,
		store:   store,
		logger:  logger,
		dataDir: dataDir,
		now:     time.Now,
	}
}

// CheckForUpdate asks the status endpoint whether a newer release exists.
// Unforced checks run at most once per checkInterval; within the window the
// call is a no-op. A version string that differs from the running one in
// any way counts as an update. Every failure reads as "no update": the
// check is non-critical and never surfaces an error.
func (c *Checker) CheckForUpdate(ctx context.Context, force bool) *UpdateInfo {
	if !force {
		last := c.store.LastUpdateCheck()
		if !last.IsZero() && c.now().Sub(last) < checkInterval {
			return nil
		}
	}

	// Marker first: a dead backend still counts as today's attempt.
	c.store.SetLastUpdateCheck(c.now())

	doc, err := c.session.Status(ctx)
	if err != nil {
		c.logger.Warnf("Update check failed: %v", err)
		return nil
	}

	// Release details live under the status document's "updates" object.
	updates := doc.Object("updates")
	latest := strings.TrimSpace(updates.String("version", ""))
	if latest == "" || latest == c.session.Version {
		return nil
	}

	info := &UpdateInfo{
		Version:     latest,
		DownloadURL: updates.String("downloadLink", ""),
		Changelog:   FlattenHTML(updates.String("changelog", "")),
	}
	c.logger.WithFields(logrus.Fields{
		"current": c.session.Version,
		"latest":  latest,
	}).Info("Update available")
	return info
}

// FetchAnnouncements pulls the announcement feed, persists the raw payload
// beside the settings file, and marks a changed announcement id as unseen.
func (c *Checker) FetchAnnouncements(ctx context.Context) ([]Announcement, error) {
	doc, err := c.session.Announcements(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := doc.Encode(); err == nil {
		path := filepath.Join(c.dataDir, announcementsFile)
		if err := os.WriteFile(path, raw, 0o644); err != nil {
			c.logger.Warnf("Failed to persist announcements: %v", err)
		}
	}

	announcements := parseAnnouncements(doc)
	if len(announcements) > 0 {
		latest := announcements[0]
		if latest.ID != "" && latest.ID != c.store.AnnouncementID() {
			c.store.SetAnnouncementID(latest.ID)
			c.store.SetHasSeenAnnouncement(false)
			announcements[0].New = true
		}
	}
	return announcements, nil
}

// parseAnnouncements flattens the feed's "announcements" object into a list
// with the latest entry first. The latest entry carries an id; the previous
// ones only carry their capitalized Title/Body pair.
func parseAnnouncements(doc jsondoc.Document) []Announcement {
	feed := doc.Object("announcements")

	var announcements []Announcement
	latest := feed.Object("latest")
	if len(latest) > 0 {
		announcements = append(announcements, Announcement{
			ID:    latest.String("id", ""),
			Title: latest.String("Title", ""),
			Body:  FlattenHTML(latest.String("Body", "")),
		})
	}
	for _, entry := range feed.Array("previous") {
		announcements = append(announcements, Announcement{
			Title: entry.String("Title", ""),
			Body:  FlattenHTML(entry.String("Body", "")),
		})
	}
	return announcements
}

// CachedAnnouncements reads the last persisted announcements payload, for
// display when the feed is unreachable. A missing file is (nil, nil).
func (c *Checker) CachedAnnouncements() ([]Announcement, error) {
	raw, err := os.ReadFile(filepath.Join(c.dataDir, announcementsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	doc, err := jsondoc.Parse(raw)
	if err != nil {
		return nil, err
	}
	return parseAnnouncements(doc), nil
}

// MarkAnnouncementSeen records that the newest announcement was shown.
func (c *Checker) MarkAnnouncementSeen() {
	c.store.SetHasSeenAnnouncement(true)
}

// FlattenHTML strips markup from a changelog or announcement fragment,
// keeping each block element on its own line. Input that is not HTML passes
// through unchanged.
func FlattenHTML(fragment string) string {
	if !strings.Contains(fragment, "<") {
		return strings.TrimSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}

	var lines []string
	blocks := doc.Find("p, li, h1, h2, h3, h4, br")
	if blocks.Length() == 0 {
		text := strings.TrimSpace(doc.Text())
		if text != "" {
			return text
		}
		return strings.TrimSpace(fragment)
	}
	blocks.Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			lines = append(lines, text)
		}
	})
	return strings.Join(lines, "\n")
}
