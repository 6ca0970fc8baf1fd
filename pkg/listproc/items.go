/*
File: items.go
Description: Flat value records parsed from Xbox Live list documents. Every
field falls back to a sentinel when the source document omits it; parsing a
list item can never fail. Includes the event-based achievement
classification rule (all-zero requirement UUIDs).
*/

package listproc

import (
	"github.com/google/uuid"

	"github.com/xau-tools/xau/pkg/jsondoc"
)

// GameItem is one entry of a title-history document.
type GameItem struct {
	Name                string
	TitleID             string
	CurrentAchievements string
	CurrentGamerscore   string
	TotalGamerscore     string
	ProgressPercentage  string
	DisplayImage        string
}

// ParseGame maps one "titles" element to a GameItem.
func ParseGame(doc jsondoc.Document) GameItem {
	achievement := doc.Object("achievement")
	return GameItem{
		Name:                doc.String("name", "Unknown"),
		TitleID:             doc.String("titleId", "Unknown"),
		CurrentAchievements: achievement.String("currentAchievements", "0"),
		CurrentGamerscore:   achievement.String("currentGamerscore", "0"),
		TotalGamerscore:     achievement.String("totalGamerscore", "0"),
		ProgressPercentage:  achievement.String("progressPercentage", "0%"),
		DisplayImage:        doc.String("displayImage", "default.png"),
	}
}

// Requirement is one progression requirement of an achievement.
type Requirement struct {
	ID            string
	Current       string
	Target        string
	OperationType string
}

// AchievementItem is one entry of an achievements document.
type AchievementItem struct {
	ID              string
	ServiceConfigID string
	Name            string
	Description     string
	ProgressState   string
	TitleID         string
	GameName        string
	TimeUnlocked    string
	Gamerscore      string
	RarityCategory  string
	RarityPercent   string
	Requirements    []Requirement
}

// ParseAchievement maps one "achievements" element to an AchievementItem.
// The nested progression and rarity structures are optional here even
// though the service usually sends them; their absence degrades to empty
// fields instead of failing the item.
func ParseAchievement(doc jsondoc.Document) AchievementItem {
	association := doc.First("titleAssociations")
	progression := doc.Object("progression")
	rarity := doc.Object("rarity")

	var reqs []Requirement
	for _, raw := range progression.Array("requirements") {
		reqs = append(reqs, Requirement{
			ID:            raw.String("id", ""),
			Current:       raw.String("current", ""),
			Target:        raw.String("target", ""),
			OperationType: raw.String("operationType", ""),
		})
	}

	return AchievementItem{
		ID:              doc.String("id", ""),
		ServiceConfigID: doc.String("serviceConfigId", ""),
		Name:            doc.String("name", ""),
		Description:     doc.String("description", ""),
		ProgressState:   doc.String("progressState", ""),
		TitleID:         association.String("id", ""),
		GameName:        association.String("name", ""),
		TimeUnlocked:    progression.String("timeUnlocked", ""),
		Gamerscore:      doc.First("rewards").String("value", "0"),
		RarityCategory:  rarity.String("currentCategory", ""),
		RarityPercent:   rarity.String("currentPercentage", ""),
		Requirements:    reqs,
	}
}

// Unlocked reports whether the achievement has already been achieved.
func (a AchievementItem) Unlocked() bool {
	return a.ProgressState == "Achieved"
}

// EventBased reports whether any progression requirement carries a non-zero
// id. Such achievements are unlocked by telemetry events rather than
// progress updates and cannot be unlocked through the update endpoint.
// The rule is a heuristic inherited from observed service behavior, not a
// documented contract.
func (a AchievementItem) EventBased() bool {
	for _, req := range a.Requirements {
		id, err := uuid.Parse(req.ID)
		if err != nil || id != uuid.Nil {
			return true
		}
	}
	return false
}

// StatItem is one entry of a stats batch document.
type StatItem struct {
	DisplayName string
	Value       string
	Name        string
	SCID        string
}

// ParseStats extracts the stat list from a stats batch document. Entries
// missing a display name or internal name are dropped, matching the
// service's occasional placeholder rows.
func ParseStats(doc jsondoc.Document) []StatItem {
	stats := doc.First("groups").First("statlistscollection").Array("stats")

	var items []StatItem
	for _, raw := range stats {
		item := StatItem{
			DisplayName: raw.Object("groupproperties").String("DisplayName", ""),
			Value:       raw.String("value", "N/A"),
			Name:        raw.String("name", ""),
			SCID:        raw.String("scid", ""),
		}
		if item.DisplayName == "" || item.Name == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}
