package mock

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pin-drop/internal/schema"
)

func TestUsersRosterIsSeedable(t *testing.T) {
	users := Users()
	assert.NotEmpty(t, users)

	seen := make(map[string]bool)
	for _, u := range users {
		assert.NotEmpty(t, u.Username)
		assert.False(t, seen[u.Username], "duplicate username %s", u.Username)
		seen[u.Username] = true

		for _, p := range u.Pins {
			// Owners are stamped from the author before seeding.
			assert.Equal(t, u.Username, p.Owner)

			// Every bundled pin must survive the same validation as live input.
			parsed, err := schema.ParsePin(p.Raw())
			assert.NoError(t, err, "seed pin %s failed validation", p.ID)
			assert.Equal(t, p.ID, parsed.ID)
			assert.Equal(t, u.Username, parsed.Owner)
		}
	}
}

func TestSeedPinRawOmitsAbsentFields(t *testing.T) {
	p := SeedPin{ID: "x"}
	raw := p.Raw()

	assert.Nil(t, raw.Title)
	assert.Nil(t, raw.Privacy)
	assert.Nil(t, raw.CreatedAt)
	assert.NotNil(t, raw.Coords)
}
