/*
File: achievements.go
Description: Achievement list and unlock operations. Unlock posts a
progressUpdate for one or more achievement ids and is the only operation
that attaches the optional Signature header.
*/

package xbl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/xau-tools/xau/pkg/jsondoc"
)

// maxAchievementItems matches the page's request cap.
const maxAchievementItems = 1000

// Achievements fetches the achievement list of a title for xuid. The raw
// document is returned for caching and list processing.
func (s *Session) Achievements(ctx context.Context, xuid, titleID string) (jsondoc.Document, error) {
	const op = "load achievements"

	if err := ValidateTitleID(titleID); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/users/xuid(%s)/achievements?titleId=%s&maxItems=%d",
		xuid, titleID, maxAchievementItems)
	req, err := newRequest(ctx, http.MethodGet, s.endpoint(HostAchievements, path), nil)
	if err != nil {
		return nil, err
	}
	s.xboxHeaders(req, ContractVersion4)

	return s.doJSON(DomainXboxLive, op, req)
}

// unlockEntry is one achievement of a progressUpdate body.
type unlockEntry struct {
	ID              string `json:"id"`
	PercentComplete int    `json:"percentComplete"`
}

// unlockBody is the progressUpdate request body.
type unlockBody struct {
	Action          string        `json:"action"`
	ServiceConfigID string        `json:"serviceConfigId"`
	TitleID         string        `json:"titleId"`
	UserID          string        `json:"userId"`
	Achievements    []unlockEntry `json:"achievements"`
}

// UnlockAchievements posts a progressUpdate that marks the given
// achievement ids 100% complete. One id is a regular unlock; several ids
// form a bulk unlock. The success criterion is the response status alone.
func (s *Session) UnlockAchievements(ctx context.Context, xuid, scid, titleID string, achievementIDs []string) error {
	const op = "unlock achievement"

	if len(achievementIDs) == 0 {
		return &ValidationError{Field: "achievement ids", Reason: "must not be empty"}
	}
	if scid == "" {
		return &ValidationError{Field: "service config id", Reason: "must not be empty"}
	}

	entries := make([]unlockEntry, 0, len(achievementIDs))
	for _, id := range achievementIDs {
		entries = append(entries, unlockEntry{ID: id, PercentComplete: 100})
	}
	body, err := json.Marshal(unlockBody{
		Action:          "progressUpdate",
		ServiceConfigID: scid,
		TitleID:         titleID,
		UserID:          xuid,
		Achievements:    entries,
	})
	if err != nil {
		return fmt.Errorf("failed to encode unlock body: %w", err)
	}

	path := fmt.Sprintf("/users/xuid(%s)/achievements/%s/update", xuid, scid)
	req, err := newRequest(ctx, http.MethodPost, s.endpoint(HostAchievements, path), body)
	if err != nil {
		return err
	}
	s.xboxHeaders(req, ContractVersion2)
	req.Header.Set(HeaderUserAgent, unlockUserAgent)
	if s.creds.SignatureEnabled() {
		req.Header.Set(HeaderSignature, s.creds.CurrentSignature())
	}

	_, err = s.do(DomainXboxLive, op, req)
	return err
}
