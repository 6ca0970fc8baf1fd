/*
File: titles.go
Description: TitleHub operations: the title-history list backing the games
page and the per-title batch decoration used to validate a spoofing target
and describe it.
*/

package xbl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/xau-tools/xau/pkg/jsondoc"
)

// maxTitleHistoryItems matches the page's request cap.
const maxTitleHistoryItems = 10000

// ValidateTitleID rejects title ids that are not plain decimal numbers
// before any request is built from them.
func ValidateTitleID(titleID string) error {
	titleID = strings.TrimSpace(titleID)
	if titleID == "" {
		return &ValidationError{Field: "title id", Reason: "must not be empty"}
	}
	for _, r := range titleID {
		if r < '0' || r > '9' {
			return &ValidationError{Field: "title id", Reason: "must be numeric"}
		}
	}
	return nil
}

// TitleHistory fetches the played-titles list with achievement decoration
// for xuid. The raw document is returned so it can be cached and fed to the
// list processor unchanged.
func (s *Session) TitleHistory(ctx context.Context, xuid string) (jsondoc.Document, error) {
	const op = "load games"

	path := fmt.Sprintf("/users/xuid(%s)/titles/titleHistory/decoration/Achievement,scid?maxItems=%d",
		xuid, maxTitleHistoryItems)
	req, err := newRequest(ctx, http.MethodGet, s.endpoint(HostTitleHub, path), nil)
	if err != nil {
		return nil, err
	}
	s.xboxHeaders(req, ContractVersion2)

	return s.doJSON(DomainXboxLive, op, req)
}

// TitleInfo describes one title from a batch decoration response.
type TitleInfo struct {
	Name              string
	TitleID           string
	PFN               string
	Type              string
	IsGamePass        bool
	Devices           []string
	DisplayImage      string
	CurrentGamerscore string
	TotalGamerscore   string
}

// TitleBatch fetches GamePass/Achievement/Stats decoration for a single
// title id. Serves as the spoof-target validation fetch: an error or an
// empty titles list means the id is not spoofable.
func (s *Session) TitleBatch(ctx context.Context, xuid, titleID string) (TitleInfo, error) {
	const op = "fetch title info"

	if err := ValidateTitleID(titleID); err != nil {
		return TitleInfo{}, err
	}

	body, err := json.Marshal(map[string]interface{}{
		"pfns":     nil,
		"titleIds": []string{titleID},
	})
	if err != nil {
		return TitleInfo{}, fmt.Errorf("failed to encode title batch body: %w", err)
	}

	path := fmt.Sprintf("/users/xuid(%s)/titles/batch/decoration/GamePass,Achievement,Stats", xuid)
	req, err := newRequest(ctx, http.MethodPost, s.endpoint(HostTitleHub, path), body)
	if err != nil {
		return TitleInfo{}, err
	}
	s.xboxHeaders(req, ContractVersion2)

	doc, err := s.doJSON(DomainSpoofing, op, req)
	if err != nil {
		return TitleInfo{}, err
	}

	titles := doc.Array("titles")
	if len(titles) == 0 {
		return TitleInfo{}, &ParseError{Op: op, Err: fmt.Errorf("no title found for id %s", titleID)}
	}

	title := titles[0]
	achievement := title.Object("achievement")
	return TitleInfo{
		Name:              title.String("name", "Unknown"),
		TitleID:           title.String("titleId", titleID),
		PFN:               title.String("pfn", ""),
		Type:              title.String("type", "Unknown"),
		IsGamePass:        title.Object("gamePass").Bool("isGamePass", false),
		Devices:           title.Strings("devices"),
		DisplayImage:      title.String("displayImage", ""),
		CurrentGamerscore: achievement.String("currentGamerscore", "0"),
		TotalGamerscore:   achievement.String("totalGamerscore", "0"),
	}, nil
}
