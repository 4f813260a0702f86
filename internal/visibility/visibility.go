// Package visibility holds the pure predicates deciding which pins a viewer
// may see, plus the feed filters (scope, text search, distance, hotness)
// screens layer on top. Everything here is side-effect free so the same
// rules serve the HTTP feed, the map view, and the tests.
package visibility

import (
	"math"
	"sort"
	"strings"
	"time"

	"pin-drop/internal/models"
)

// Scope is the selectable privacy-category filter.
type Scope string

const (
	ScopeAll       Scope = "all"
	ScopePrivate   Scope = "private"
	ScopeFriends   Scope = "friends"
	ScopePublic    Scope = "public"
	ScopeFollowing Scope = "following"
)

// ValidScope reports whether s is a known filter scope.
func ValidScope(s Scope) bool {
	switch s {
	case ScopeAll, ScopePrivate, ScopeFriends, ScopePublic, ScopeFollowing:
		return true
	}
	return false
}

// OwnedBy reports whether the viewer owns the pin. Records written before
// the owner field existed carry "me" (or nothing) and belong to the local
// viewer.
func OwnedBy(pin models.Pin, viewer string) bool {
	return pin.Owner == viewer || pin.Owner == "me" || pin.Owner == ""
}

// VisibleTo is the core predicate: a pin is visible to a viewer if the
// viewer owns it, or it is public, or it is friends-only and the viewer
// follows its owner.
func VisibleTo(pin models.Pin, viewer string, following map[string]bool) bool {
	if OwnedBy(pin, viewer) {
		return true
	}
	switch pin.Privacy {
	case models.PrivacyPublic:
		return true
	case models.PrivacyFriends:
		return following[pin.Owner]
	}
	return false
}

// MatchesScope applies the selectable privacy-category filter.
func MatchesScope(pin models.Pin, scope Scope, viewer string, following map[string]bool) bool {
	switch scope {
	case ScopePrivate:
		return pin.Privacy == models.PrivacyPrivate
	case ScopeFriends:
		return pin.Privacy == models.PrivacyFriends
	case ScopePublic:
		return pin.Privacy == models.PrivacyPublic
	case ScopeFollowing:
		return !OwnedBy(pin, viewer) && following[pin.Owner]
	default:
		return true
	}
}

// MatchesQuery is the free-text search over title and description.
func MatchesQuery(pin models.Pin, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(pin.Title), q) ||
		strings.Contains(strings.ToLower(pin.Description), q)
}

// HaversineMiles is the great-circle distance between two coordinates.
func HaversineMiles(a, b models.Coords) float64 {
	const earthRadiusMiles = 3958.8
	dLat := toRad(b.Latitude - a.Latitude)
	dLon := toRad(b.Longitude - a.Longitude)
	lat1 := toRad(a.Latitude)
	lat2 := toRad(b.Latitude)
	h := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLon/2), 2)
	return earthRadiusMiles * 2 * math.Asin(math.Sqrt(h))
}

func toRad(v float64) float64 {
	return v * math.Pi / 180
}

// HotnessScore ranks a pin for the explore feed: recency plus likes plus
// weighted comment count, newer and busier pins first.
func HotnessScore(pin models.Pin, now time.Time) float64 {
	ageDays := math.Max(0.01, float64(now.UnixMilli()-pin.CreatedAt)/86400000)
	recency := 10 / ageDays
	return recency + float64(pin.LikesCount) + 1.5*float64(len(pin.Comments))
}

// ExploreOptions are the feed filters a viewer can combine.
type ExploreOptions struct {
	Query string
	// RadiusMiles limits results to pins within this distance of Location.
	// Nil means anywhere. Ignored when Location is nil (a superseded
	// location query may still be in flight).
	RadiusMiles *float64
	Location    *models.Coords
}

// Explore computes the social feed for a viewer: pins of followed users
// (public or friends) plus public pins by others, filtered by the options
// and sorted by hotness. When the filtered set is empty the feed falls back
// to all public pins rather than rendering nothing.
func Explore(pins []models.Pin, viewer string, following map[string]bool, opts ExploreOptions, now time.Time) []models.Pin {
	seen := make(map[string]bool)
	var feed []models.Pin
	for _, p := range pins {
		mine := OwnedBy(p, viewer)
		follows := following[p.Owner]
		include := false
		if follows && (p.Privacy == models.PrivacyPublic || p.Privacy == models.PrivacyFriends) {
			include = true
		}
		if p.Privacy == models.PrivacyPublic && !mine {
			include = true
		}
		if include && !seen[p.ID] {
			seen[p.ID] = true
			feed = append(feed, p)
		}
	}

	filtered := feed[:0:0]
	for _, p := range feed {
		if !MatchesQuery(p, opts.Query) {
			continue
		}
		if opts.RadiusMiles != nil && opts.Location != nil &&
			HaversineMiles(*opts.Location, p.Coords) > *opts.RadiusMiles {
			continue
		}
		filtered = append(filtered, p)
	}

	if len(filtered) == 0 {
		for _, p := range pins {
			if p.Privacy == models.PrivacyPublic {
				filtered = append(filtered, p)
			}
		}
	}

	sorted := make([]models.Pin, len(filtered))
	copy(sorted, filtered)
	sort.SliceStable(sorted, func(i, j int) bool {
		return HotnessScore(sorted[i], now) > HotnessScore(sorted[j], now)
	})
	return sorted
}

// FilterVisible returns the subset of pins the viewer may see, preserving
// order, with an optional scope and text query applied on top.
func FilterVisible(pins []models.Pin, viewer string, following map[string]bool, scope Scope, query string) []models.Pin {
	var out []models.Pin
	for _, p := range pins {
		if !VisibleTo(p, viewer, following) {
			continue
		}
		if !MatchesScope(p, scope, viewer, following) {
			continue
		}
		if !MatchesQuery(p, query) {
			continue
		}
		out = append(out, p)
	}
	return out
}
