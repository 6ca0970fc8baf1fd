/*
File: xauapi.go
Description: Client operations for the XAU auxiliary API: version status,
announcements, and title search. Title search maps the API's special status
codes (426 upgrade required, 429 rate limited, 404 nothing found) to
distinct errors.
*/

package xbl

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xau-tools/xau/pkg/jsondoc"
)

// Errors the search endpoint communicates through status codes.
var (
	ErrUpgradeRequired = errors.New("client version too old for the search API")
	ErrRateLimited     = errors.New("search API rate limit reached")
	ErrNoResults       = errors.New("no games matched the search")
)

// Status fetches /api/status, the document carrying the latest release
// version, download link, and changelog.
func (s *Session) Status(ctx context.Context) (jsondoc.Document, error) {
	const op = "check status"

	req, err := newRequest(ctx, http.MethodGet, s.endpoint(HostXAUAPI, "/api/status"), nil)
	if err != nil {
		return nil, err
	}
	s.xauHeaders(req)

	return s.doJSON(DomainXAU, op, req)
}

// Announcements fetches /api/announcements.
func (s *Session) Announcements(ctx context.Context) (jsondoc.Document, error) {
	const op = "fetch announcements"

	req, err := newRequest(ctx, http.MethodGet, s.endpoint(HostXAUAPI, "/api/announcements"), nil)
	if err != nil {
		return nil, err
	}
	s.xauHeaders(req)

	return s.doJSON(DomainXAU, op, req)
}

// SearchResult is one hit of a title search.
type SearchResult struct {
	Name      string
	ProductID string
	TitleID   string
}

// SearchGames queries the title search endpoint for name.
func (s *Session) SearchGames(ctx context.Context, name string) ([]SearchResult, error) {
	const op = "search games"

	if name == "" {
		return nil, &ValidationError{Field: "game name", Reason: "must not be empty"}
	}

	body, err := json.Marshal(map[string]string{"titleName": name})
	if err != nil {
		return nil, &ParseError{Op: op, Err: err}
	}
	req, err := newRequest(ctx, http.MethodPost, s.endpoint(HostXAUAPI, "/api/search/games"), body)
	if err != nil {
		return nil, err
	}
	s.xauHeaders(req)

	doc, err := s.doJSON(DomainXAU, op, req)
	if err != nil {
		switch StatusCode(err) {
		case http.StatusUpgradeRequired:
			return nil, ErrUpgradeRequired
		case http.StatusTooManyRequests:
			return nil, ErrRateLimited
		case http.StatusNotFound:
			return nil, ErrNoResults
		}
		return nil, err
	}

	if !doc.Bool("success", false) {
		return nil, &ParseError{Op: op, Err: errors.New("API reported an unsuccessful search")}
	}

	raw := doc.Array("results")
	if len(raw) == 0 {
		return nil, ErrNoResults
	}

	results := make([]SearchResult, 0, len(raw))
	for _, hit := range raw {
		results = append(results, SearchResult{
			Name:      hit.String("name", "Unknown"),
			ProductID: hit.String("productId", ""),
			TitleID:   hit.String("xboxTitleId", ""),
		})
	}
	return results, nil
}
