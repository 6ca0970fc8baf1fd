/*
File: profile.go
Description: Profile and presence lookups: the self XUID probe used to
verify a freshly stored token, gamertag search, and the detailed PeopleHub
profile backing the user page.
*/

package xbl

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/xau-tools/xau/pkg/jsondoc"
)

// SelfXUID resolves the XUID of the authenticated account. Doubles as the
// token validity probe: a 401/403 here means the stored token is bad.
func (s *Session) SelfXUID(ctx context.Context) (string, error) {
	const op = "verify sign-in"

	req, err := newRequest(ctx, http.MethodGet,
		s.endpoint(HostProfile, "/users/me/profile/settings?settings=Gamertag"), nil)
	if err != nil {
		return "", err
	}
	s.xboxHeaders(req, ContractVersion2)

	doc, err := s.doJSON(DomainXboxLive, op, req)
	if err != nil {
		return "", err
	}

	xuid := doc.First("profileUsers").String("id", "")
	if xuid == "" {
		return "", &ParseError{Op: op, Err: fmt.Errorf("response carries no profile user id")}
	}
	return xuid, nil
}

// ProfileSetting is one name/value pair of a profile settings response.
type ProfileSetting struct {
	ID    string
	Value string
}

// GamertagProfile looks up the public profile card of a gamertag: display
// picture, gamerscore, and canonical gamertag, plus the account's XUID.
func (s *Session) GamertagProfile(ctx context.Context, gamertag string) (xuid string, settings []ProfileSetting, err error) {
	const op = "search gamertag"

	if gamertag == "" {
		return "", nil, &ValidationError{Field: "gamertag", Reason: "must not be empty"}
	}

	path := fmt.Sprintf("/users/gt(%s)/profile/settings?settings=GameDisplayPicRaw,Gamerscore,Gamertag",
		url.PathEscape(gamertag))
	req, err := newRequest(ctx, http.MethodGet, s.endpoint(HostProfile, path), nil)
	if err != nil {
		return "", nil, err
	}
	s.xboxHeaders(req, ContractVersion2)

	doc, err := s.doJSON(DomainXboxLive, op, req)
	if err != nil {
		return "", nil, err
	}

	user := doc.First("profileUsers")
	for _, raw := range user.Array("settings") {
		settings = append(settings, ProfileSetting{
			ID:    raw.String("id", ""),
			Value: raw.String("value", ""),
		})
	}
	return user.String("id", ""), settings, nil
}

// Profile is the flattened detailed profile shown on the user page. Every
// field degrades to a sentinel when the service omits it.
type Profile struct {
	XUID           string
	Gamertag       string
	Gamerscore     string
	DisplayPic     string
	XboxOneRep     string
	PresenceState  string
	PresenceText   string
	PresenceDevice string
	FollowerCount  int
	FollowingCount int
}

// DetailedProfile fetches the PeopleHub decoration document for xuid and
// flattens it.
func (s *Session) DetailedProfile(ctx context.Context, xuid string) (Profile, error) {
	const op = "load profile"

	path := fmt.Sprintf("/users/me/people/xuids(%s)/decoration/detail,preferredColor,presenceDetail,multiplayerSummary", xuid)
	req, err := newRequest(ctx, http.MethodGet, s.endpoint(HostPeopleHub, path), nil)
	if err != nil {
		return Profile{}, err
	}
	s.xboxHeaders(req, ContractVersion5)

	doc, err := s.doJSON(DomainXboxLive, op, req)
	if err != nil {
		return Profile{}, err
	}
	return flattenProfile(xuid, doc), nil
}

// flattenProfile maps a PeopleHub document to a Profile value.
func flattenProfile(xuid string, doc jsondoc.Document) Profile {
	person := doc.First("people")
	detail := person.Object("detail")
	return Profile{
		XUID:           xuid,
		Gamertag:       person.String("gamertag", "N/A"),
		Gamerscore:     person.String("gamerScore", "N/A"),
		DisplayPic:     person.String("displayPicRaw", ""),
		XboxOneRep:     person.String("xboxOneRep", "N/A"),
		PresenceState:  person.String("presenceState", "N/A"),
		PresenceText:   person.String("presenceText", "N/A"),
		PresenceDevice: person.First("presenceDetails").String("Device", "N/A"),
		FollowerCount:  detail.Int("followerCount", 0),
		FollowingCount: detail.Int("followingCount", 0),
	}
}
