/*
File: settings.go
Description: Persisted key-value settings for the XAU toolkit. Backed by a
viper instance bound to a single JSON file, mirroring the mobile app's
preference store: auth token, request signature, language, theme color,
privacy toggle, update-check marker, and announcement tracking.
*/

package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Preference keys. Values are read with per-key defaults so a missing file
// behaves like a fresh install.
const (
	keyAuthToken           = "auth_token"
	keySignature           = "user_signature"
	keySignatureEnabled    = "signature_enabled"
	keyPrivacyEnabled      = "privacy_enabled"
	keyPrimaryColor        = "primary_color"
	keyNightMode           = "night_mode"
	keyLanguage            = "selected_language"
	keyLastUpdateCheck     = "last_update_check"
	keyAnnouncementID      = "announcement_id"
	keyHasSeenAnnouncement = "has_seen_announcement"
	keyFabPositionX        = "fab_position_x"
	keyFabPositionY        = "fab_position_y"
)

const (
	// DefaultSignature is the baked-in request signature used when the user
	// has not supplied one or has disabled signing.
	DefaultSignature = "RGFtbklHb3R0YU1ha2VUaGlzU3RyaW5nU3VwZXJMb25nSHVoLkRvbnRFdmVuS25vd1doYXRTaG91bGRCZUhlcmVEcmFmZlN0cmluZw=="

	// DefaultLanguage is the Accept-Language sent until the user picks one.
	DefaultLanguage = "en-US"

	// DefaultPrimaryColor is the stock accent color.
	DefaultPrimaryColor = "#5D9632"
)

// Store is a process-wide settings store. Reads and writes are last-write-wins;
// writes are user-initiated and infrequent, so a single mutex is enough.
type Store struct {
	mu   sync.Mutex
	v    *viper.Viper
	path string
}

// Open loads (or creates) the settings file at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create settings directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		if _, missing := err.(viper.ConfigFileNotFoundError); !missing && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
		// First run: write an empty file so later WriteConfig calls succeed.
		if err := v.WriteConfigAs(path); err != nil {
			return nil, fmt.Errorf("failed to initialize settings file: %w", err)
		}
	}

	return &Store{v: v, path: path}, nil
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

func (s *Store) set(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Set(key, value)
	// Persistence failures are not fatal to the running session; the value
	// stays live in memory for the process lifetime.
	_ = s.v.WriteConfig()
}

// AuthToken returns the stored XBL3.0 authorization value, empty when the
// user has never logged in.
func (s *Store) AuthToken() string { return s.v.GetString(keyAuthToken) }

// SetAuthToken stores a new authorization value.
func (s *Store) SetAuthToken(token string) { s.set(keyAuthToken, token) }

// UserSignature returns the user-supplied signature, falling back to the
// baked-in default.
func (s *Store) UserSignature() string {
	if sig := s.v.GetString(keySignature); sig != "" {
		return sig
	}
	return DefaultSignature
}

// SetUserSignature stores a user-supplied signature value.
func (s *Store) SetUserSignature(sig string) { s.set(keySignature, sig) }

// SignatureEnabled reports whether the Signature header should be attached
// to signing-capable requests. Enabled by default.
func (s *Store) SignatureEnabled() bool {
	if !s.v.IsSet(keySignatureEnabled) {
		return true
	}
	return s.v.GetBool(keySignatureEnabled)
}

// SetSignatureEnabled toggles request signing.
func (s *Store) SetSignatureEnabled(enabled bool) { s.set(keySignatureEnabled, enabled) }

// CurrentSignature returns the signature value requests should carry right
// now: the user signature when signing is enabled, the default otherwise.
func (s *Store) CurrentSignature() string {
	if s.SignatureEnabled() {
		return s.UserSignature()
	}
	return DefaultSignature
}

// PrivacyEnabled reports whether identifying profile fields are masked in
// output.
func (s *Store) PrivacyEnabled() bool { return s.v.GetBool(keyPrivacyEnabled) }

// SetPrivacyEnabled toggles output masking.
func (s *Store) SetPrivacyEnabled(enabled bool) { s.set(keyPrivacyEnabled, enabled) }

// Language returns the selected BCP-47 language tag.
func (s *Store) Language() string {
	if lang := s.v.GetString(keyLanguage); lang != "" {
		return lang
	}
	return DefaultLanguage
}

// SetLanguage stores the selected language tag.
func (s *Store) SetLanguage(lang string) { s.set(keyLanguage, lang) }

// PrimaryColor returns the stored accent color hex string.
func (s *Store) PrimaryColor() string {
	if c := s.v.GetString(keyPrimaryColor); c != "" {
		return c
	}
	return DefaultPrimaryColor
}

// SetPrimaryColor stores the accent color.
func (s *Store) SetPrimaryColor(color string) { s.set(keyPrimaryColor, color) }

// NightMode reports the stored theme flag.
func (s *Store) NightMode() bool { return s.v.GetBool(keyNightMode) }

// SetNightMode stores the theme flag.
func (s *Store) SetNightMode(on bool) { s.set(keyNightMode, on) }

// LastUpdateCheck returns the time of the last update poll, zero when a
// check has never run.
func (s *Store) LastUpdateCheck() time.Time {
	raw := s.v.GetString(keyLastUpdateCheck)
	if raw == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// SetLastUpdateCheck stores the update-check marker.
func (s *Store) SetLastUpdateCheck(ts time.Time) {
	s.set(keyLastUpdateCheck, ts.Format(time.RFC3339))
}

// AnnouncementID returns the id of the most recently seen announcement.
func (s *Store) AnnouncementID() string { return s.v.GetString(keyAnnouncementID) }

// SetAnnouncementID stores the latest announcement id.
func (s *Store) SetAnnouncementID(id string) { s.set(keyAnnouncementID, id) }

// HasSeenAnnouncement reports whether the latest announcement was shown.
// Defaults to true so a fresh install does not flag a phantom unread item.
func (s *Store) HasSeenAnnouncement() bool {
	if !s.v.IsSet(keyHasSeenAnnouncement) {
		return true
	}
	return s.v.GetBool(keyHasSeenAnnouncement)
}

// SetHasSeenAnnouncement stores the seen flag.
func (s *Store) SetHasSeenAnnouncement(seen bool) { s.set(keyHasSeenAnnouncement, seen) }

// FabPosition returns the stored floating-button screen position.
func (s *Store) FabPosition() (x, y float64) {
	return s.v.GetFloat64(keyFabPositionX), s.v.GetFloat64(keyFabPositionY)
}

// SetFabPosition stores the floating-button screen position.
func (s *Store) SetFabPosition(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Set(keyFabPositionX, x)
	s.v.Set(keyFabPositionY, y)
	_ = s.v.WriteConfig()
}
