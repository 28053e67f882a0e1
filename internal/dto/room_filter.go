package dto

import (
	"strings"
	"unicode"

	"github.com/yukikurage/teamdesk-api/internal/models"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// RoomFilter selects rooms from an already fetched list. Zero fields do not
// filter.
type RoomFilter struct {
	Text      string              `form:"q"`
	Modality  models.RoomModality `form:"modality"`
	Specialty string              `form:"specialty"`
	MaxPrice  *float64            `form:"max_price"`
	Night     bool                `form:"night"`
	Weekend   bool                `form:"weekend"`
}

// fold lowercases and strips accents so "São Paulo" matches "sao paulo".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// Match reports whether room satisfies every set criterion.
func (f RoomFilter) Match(room RoomDTO) bool {
	if q := fold(f.Text); q != "" {
		haystack := fold(strings.Join([]string{
			room.Name, room.Description, room.Neighborhood, room.City, room.Address,
		}, " "))
		if !strings.Contains(haystack, q) {
			return false
		}
	}

	if f.Modality != "" && !containsModality(room.Modalities, f.Modality) {
		return false
	}

	if s := fold(f.Specialty); s != "" {
		found := false
		for _, sp := range room.Specialties {
			if fold(sp) == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.MaxPrice != nil {
		lowest, ok := room.LowestPrice()
		if !ok || lowest > *f.MaxPrice {
			return false
		}
	}

	if f.Night && !room.NightAvailable {
		return false
	}
	if f.Weekend && !room.WeekendAvailable {
		return false
	}

	return true
}

// Apply returns the matching rooms in their original order.
func (f RoomFilter) Apply(rooms []RoomDTO) []RoomDTO {
	out := make([]RoomDTO, 0, len(rooms))
	for _, r := range rooms {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

func containsModality(values []models.RoomModality, m models.RoomModality) bool {
	for _, v := range values {
		if v == m {
			return true
		}
	}
	return false
}
