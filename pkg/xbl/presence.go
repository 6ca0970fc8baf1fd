/*
File: presence.go
Description: Presence heartbeat wire operations. A heartbeat claims a title
is actively running for the next 600 seconds; teardown deletes the presence
record for the current device.
*/

package xbl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// heartbeatExpirationSeconds is how long one heartbeat keeps the presence
// record alive on the backend.
const heartbeatExpirationSeconds = 600

// HeartbeatBody renders the fixed presence payload for a title id.
func HeartbeatBody(titleID string) ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"titles": []map[string]interface{}{{
			"expiration": heartbeatExpirationSeconds,
			"id":         titleID,
			"state":      "active",
			"sandbox":    "RETAIL",
		}},
	})
}

// SendHeartbeat posts one presence heartbeat for titleID. userAgent is
// attached when non-empty and not the "None" placeholder.
func (s *Session) SendHeartbeat(ctx context.Context, xuid, titleID, userAgent string) error {
	const op = "send heartbeat"

	body, err := HeartbeatBody(titleID)
	if err != nil {
		return fmt.Errorf("failed to encode heartbeat body: %w", err)
	}

	path := fmt.Sprintf("/users/xuid(%s)/devices/current", xuid)
	req, err := newRequest(ctx, http.MethodPost, s.endpoint(HostPresence, path), body)
	if err != nil {
		return err
	}
	req.Header.Set(HeaderContractVersion, ContractVersion3)
	req.Header.Set(HeaderAccept, acceptJSONValue)
	req.Header.Set(HeaderAuthorization, s.creds.AuthToken())
	if userAgent != "" && userAgent != "None" {
		req.Header.Set(HeaderUserAgent, userAgent)
	}

	_, err = s.do(DomainSpoofing, op, req)
	return err
}

// ClearPresence deletes the presence record for the current device. Used
// as the best-effort teardown when a spoofing session stops.
func (s *Session) ClearPresence(ctx context.Context, xuid string) error {
	const op = "clear presence"

	path := fmt.Sprintf("/users/xuid(%s)/devices/current", xuid)
	req, err := newRequest(ctx, http.MethodDelete, s.endpoint(HostPresence, path), nil)
	if err != nil {
		return err
	}
	req.Header.Set(HeaderContractVersion, ContractVersion3)
	req.Header.Set(HeaderAccept, acceptJSONValue)
	req.Header.Set(HeaderAuthorization, s.creds.AuthToken())

	_, err = s.do(DomainSpoofing, op, req)
	return err
}
