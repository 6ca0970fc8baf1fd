/*
File: stats.go
Description: User statistics operations: the batch read backing the stats
page, the MinutesPlayed probe used by the spoofing target display, and the
stat write PATCH.
*/

package xbl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/xau-tools/xau/pkg/jsondoc"
)

// statsSchema is the fixed schema URI of the stats write contract.
const statsSchema = "http://stats.xboxlive.com/2017-1/schema#"

// StatsBatch fetches the "Hero" stat group of a title for xuid. The raw
// document is returned for list processing.
func (s *Session) StatsBatch(ctx context.Context, xuid, titleID string) (jsondoc.Document, error) {
	const op = "load stats"

	if err := ValidateTitleID(titleID); err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]interface{}{
		"arrangebyfield": "xuid",
		"xuids":          []string{xuid},
		"groups":         []map[string]string{{"name": "Hero", "titleId": titleID}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode stats batch body: %w", err)
	}

	req, err := newRequest(ctx, http.MethodPost, s.endpoint(HostUserStats, "/batch"), body)
	if err != nil {
		return nil, err
	}
	s.xboxHeaders(req, ContractVersion2)

	return s.doJSON(DomainXboxLive, op, req)
}

// MinutesPlayed fetches the MinutesPlayed stat of a title for xuid.
// Returns the raw value string; "0" when the stat is absent.
func (s *Session) MinutesPlayed(ctx context.Context, xuid, titleID string) (string, error) {
	const op = "fetch time played"

	body, err := json.Marshal(map[string]interface{}{
		"arrangebyfield": "xuid",
		"xuids":          []string{xuid},
		"stats":          []map[string]string{{"name": "MinutesPlayed", "titleId": titleID}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode stats body: %w", err)
	}

	req, err := newRequest(ctx, http.MethodPost, s.endpoint(HostUserStats, "/batch"), body)
	if err != nil {
		return "", err
	}
	s.xboxHeaders(req, ContractVersion2)

	doc, err := s.doJSON(DomainSpoofing, op, req)
	if err != nil {
		return "", err
	}
	return doc.First("statlistscollection").First("stats").String("value", "0"), nil
}

// WriteStat patches a single named stat to value inside its SCID namespace.
// The revision pair derives from the wall clock; the service only requires
// revision > previousRevision.
func (s *Session) WriteStat(ctx context.Context, xuid, scid, statName, value string) error {
	const op = "write stat"

	if statName == "" {
		return &ValidationError{Field: "stat name", Reason: "must not be empty"}
	}
	if scid == "" {
		return &ValidationError{Field: "scid", Reason: "must not be empty"}
	}

	now := time.Now().UTC()
	unix := now.Unix()
	body, err := json.Marshal(map[string]interface{}{
		"schema":           statsSchema,
		"previousRevision": unix,
		"revision":         unix + 1,
		"stats": map[string]interface{}{
			"title": map[string]interface{}{
				statName: map[string]string{"value": value},
			},
		},
		"timestamp": now.Format("2006-01-02T15:04:05.000000Z"),
	})
	if err != nil {
		return fmt.Errorf("failed to encode stat write body: %w", err)
	}

	path := fmt.Sprintf("/stats/users/%s/scids/%s", xuid, scid)
	req, err := newRequest(ctx, http.MethodPatch, s.endpoint(HostStatsWrite, path), body)
	if err != nil {
		return err
	}
	s.xboxHeaders(req, ContractVersion2)

	_, err = s.do(DomainXboxLive, op, req)
	return err
}
