package visibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pin-drop/internal/models"
)

func pin(id, owner string, privacy models.Privacy) models.Pin {
	return models.Pin{
		ID:        id,
		Title:     "Pin " + id,
		Owner:     owner,
		Privacy:   privacy,
		Coords:    models.Coords{Latitude: 37.77, Longitude: -122.41},
		CreatedAt: time.Now().UnixMilli(),
	}
}

func TestOwnedBy(t *testing.T) {
	assert.True(t, OwnedBy(pin("a", "alex", models.PrivacyPrivate), "alex"))
	assert.False(t, OwnedBy(pin("a", "alex", models.PrivacyPrivate), "sam"))

	// Records from before the owner field existed belong to the viewer.
	assert.True(t, OwnedBy(pin("b", "me", models.PrivacyPrivate), "anyone"))
	assert.True(t, OwnedBy(pin("c", "", models.PrivacyPrivate), "anyone"))
}

func TestVisibleToFriendsRule(t *testing.T) {
	p := pin("a", "alex", models.PrivacyFriends)

	// Not visible until the viewer follows the owner.
	assert.False(t, VisibleTo(p, "sam", map[string]bool{}))
	assert.True(t, VisibleTo(p, "sam", map[string]bool{"alex": true}))

	// The owner always sees their own pins.
	assert.True(t, VisibleTo(p, "alex", map[string]bool{}))
}

func TestVisibleToPrivateAndPublic(t *testing.T) {
	private := pin("a", "alex", models.PrivacyPrivate)
	public := pin("b", "alex", models.PrivacyPublic)

	assert.False(t, VisibleTo(private, "sam", map[string]bool{"alex": true}))
	assert.True(t, VisibleTo(public, "sam", nil))
}

func TestMatchesScope(t *testing.T) {
	followed := pin("a", "alex", models.PrivacyPublic)
	mine := pin("b", "me", models.PrivacyPublic)
	following := map[string]bool{"alex": true}

	assert.True(t, MatchesScope(followed, ScopeFollowing, "sam", following))
	assert.False(t, MatchesScope(mine, ScopeFollowing, "sam", following))
	assert.True(t, MatchesScope(mine, ScopeAll, "sam", following))
	assert.True(t, MatchesScope(pin("c", "x", models.PrivacyFriends), ScopeFriends, "sam", nil))
	assert.False(t, MatchesScope(pin("c", "x", models.PrivacyFriends), ScopePublic, "sam", nil))
}

func TestMatchesQuery(t *testing.T) {
	p := models.Pin{Title: "Blue Bottle Hayes", Description: "Best pour-over in town"}

	assert.True(t, MatchesQuery(p, ""))
	assert.True(t, MatchesQuery(p, "  blue "))
	assert.True(t, MatchesQuery(p, "POUR-OVER"))
	assert.False(t, MatchesQuery(p, "matcha"))
}

func TestHaversineMiles(t *testing.T) {
	sf := models.Coords{Latitude: 37.7749, Longitude: -122.4194}
	la := models.Coords{Latitude: 34.0522, Longitude: -118.2437}

	d := HaversineMiles(sf, la)
	assert.InDelta(t, 347.0, d, 5.0)
	assert.InDelta(t, 0.0, HaversineMiles(sf, sf), 0.001)
}

func TestHotnessScoreOrdering(t *testing.T) {
	now := time.Now()
	fresh := models.Pin{CreatedAt: now.Add(-1 * time.Hour).UnixMilli()}
	stale := models.Pin{CreatedAt: now.Add(-30 * 24 * time.Hour).UnixMilli()}

	assert.Greater(t, HotnessScore(fresh, now), HotnessScore(stale, now))

	// Engagement lifts an old pin.
	stale.LikesCount = 50
	assert.Greater(t, HotnessScore(stale, now), HotnessScore(fresh, now))
}

func TestExploreFeedComposition(t *testing.T) {
	now := time.Now()
	pins := []models.Pin{
		pin("own", "me", models.PrivacyPublic),
		pin("followed-friends", "alex", models.PrivacyFriends),
		pin("followed-private", "alex", models.PrivacyPrivate),
		pin("stranger-public", "sam", models.PrivacyPublic),
		pin("stranger-friends", "sam", models.PrivacyFriends),
	}
	following := map[string]bool{"alex": true}

	feed := Explore(pins, "viewer", following, ExploreOptions{}, now)

	ids := make(map[string]bool)
	for _, p := range feed {
		ids[p.ID] = true
	}
	assert.True(t, ids["followed-friends"])
	assert.True(t, ids["stranger-public"])
	assert.False(t, ids["followed-private"])
	assert.False(t, ids["stranger-friends"])
	assert.False(t, ids["own"])
}

func TestExploreRadiusFilter(t *testing.T) {
	now := time.Now()
	near := pin("near", "alex", models.PrivacyPublic)
	far := pin("far", "alex", models.PrivacyPublic)
	far.Coords = models.Coords{Latitude: 40.7128, Longitude: -74.0060}

	radius := 50.0
	loc := models.Coords{Latitude: 37.7749, Longitude: -122.4194}
	feed := Explore([]models.Pin{near, far}, "viewer", map[string]bool{"alex": true},
		ExploreOptions{RadiusMiles: &radius, Location: &loc}, now)

	assert.Len(t, feed, 1)
	assert.Equal(t, "near", feed[0].ID)
}

func TestExploreFallsBackToPublic(t *testing.T) {
	now := time.Now()
	pins := []models.Pin{
		pin("pub", "alex", models.PrivacyPublic),
		pin("priv", "alex", models.PrivacyPrivate),
	}

	// The query matches nothing, so the feed falls back to all public pins.
	feed := Explore(pins, "viewer", nil, ExploreOptions{Query: "no-such-pin"}, now)
	assert.Len(t, feed, 1)
	assert.Equal(t, "pub", feed[0].ID)
}

func TestExploreSortsByHotness(t *testing.T) {
	now := time.Now()
	cold := pin("cold", "alex", models.PrivacyPublic)
	cold.CreatedAt = now.Add(-40 * 24 * time.Hour).UnixMilli()
	hot := pin("hot", "alex", models.PrivacyPublic)
	hot.LikesCount = 25

	feed := Explore([]models.Pin{cold, hot}, "viewer", map[string]bool{"alex": true}, ExploreOptions{}, now)
	assert.Len(t, feed, 2)
	assert.Equal(t, "hot", feed[0].ID)
}

func TestFilterVisible(t *testing.T) {
	pins := []models.Pin{
		pin("mine", "me", models.PrivacyPrivate),
		pin("friend", "alex", models.PrivacyFriends),
		pin("hidden", "sam", models.PrivacyFriends),
	}
	following := map[string]bool{"alex": true}

	visible := FilterVisible(pins, "viewer", following, ScopeAll, "")
	assert.Len(t, visible, 2)
	assert.Equal(t, "mine", visible[0].ID)
	assert.Equal(t, "friend", visible[1].ID)

	// Scope narrows further.
	friendsOnly := FilterVisible(pins, "viewer", following, ScopeFriends, "")
	assert.Len(t, friendsOnly, 1)
	assert.Equal(t, "friend", friendsOnly[0].ID)
}

func TestValidScope(t *testing.T) {
	assert.True(t, ValidScope(ScopeAll))
	assert.True(t, ValidScope(ScopeFollowing))
	assert.False(t, ValidScope(Scope("nearby")))
}
