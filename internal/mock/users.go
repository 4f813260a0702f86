// Package mock holds the bundled demo roster used to seed an empty pin
// store on first run. A users.json document is embedded at build time; if
// it is missing or unusable the compiled-in fallback roster takes over.
package mock

import (
	_ "embed"
	"encoding/json"
	"time"

	"pin-drop/internal/models"
	"pin-drop/internal/schema"
)

//go:embed users.json
var usersJSON []byte

// SeedUser is one demo user and the pins they author.
type SeedUser struct {
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	Bio         string    `json:"bio,omitempty"`
	Pins        []SeedPin `json:"pins"`
}

// SeedPin is the roster's pin shape. It converts to a schema.RawPin so
// seeding runs through the same validator as every other ingress path.
type SeedPin struct {
	ID          string        `json:"id"`
	Title       string        `json:"title,omitempty"`
	Description string        `json:"description,omitempty"`
	Categories  []string      `json:"categories,omitempty"`
	Privacy     string        `json:"privacy,omitempty"`
	CreatedAt   int64         `json:"createdAt,omitempty"`
	Coords      models.Coords `json:"coords"`
	Owner       string        `json:"owner,omitempty"`
}

// Raw converts the seed pin to the unvalidated ingress shape. Zero-valued
// optional fields stay absent so schema defaults apply.
func (p SeedPin) Raw() schema.RawPin {
	raw := schema.RawPin{
		Coords: &schema.RawCoords{
			Latitude:  f64(p.Coords.Latitude),
			Longitude: f64(p.Coords.Longitude),
		},
	}
	if p.ID != "" {
		raw.ID = str(p.ID)
	}
	if p.Title != "" {
		raw.Title = str(p.Title)
	}
	if p.Description != "" {
		raw.Description = str(p.Description)
	}
	if len(p.Categories) > 0 {
		raw.Categories = p.Categories
	}
	if p.Privacy != "" {
		raw.Privacy = str(p.Privacy)
	}
	if p.CreatedAt != 0 {
		created := float64(p.CreatedAt)
		raw.CreatedAt = &created
	}
	if p.Owner != "" {
		raw.Owner = str(p.Owner)
	}
	return raw
}

// Users returns the seed roster, every pin stamped with its author as
// owner. The embedded users.json wins; the fallback roster is used when the
// document is absent or malformed.
func Users() []SeedUser {
	users := coerceUsers(usersJSON)
	if users == nil {
		users = fallbackUsers()
	}
	for ui := range users {
		for pi := range users[ui].Pins {
			if users[ui].Pins[pi].Owner == "" {
				users[ui].Pins[pi].Owner = users[ui].Username
			}
		}
	}
	return users
}

func coerceUsers(data []byte) []SeedUser {
	if len(data) == 0 {
		return nil
	}
	var doc struct {
		Users []SeedUser `json:"users"`
	}
	if err := json.Unmarshal(data, &doc); err != nil || len(doc.Users) == 0 {
		return nil
	}
	for _, u := range doc.Users {
		if u.Username == "" {
			return nil
		}
	}
	return doc.Users
}

// fallbackUsers mirrors the bundled roster with creation times computed
// relative to now so the demo feed always looks recent.
func fallbackUsers() []SeedUser {
	now := time.Now().UnixMilli()
	days := func(n int64) int64 { return now - n*86400000 }

	return []SeedUser{
		{
			Username:    "alex",
			DisplayName: "Alex Kim",
			Bio:         "Coffee and city walks.",
			Pins: []SeedPin{
				{ID: "alex-1", Title: "Blue Bottle Hayes", Description: "Best pour-over.", Categories: []string{"cafe"}, Privacy: "public", CreatedAt: days(1), Coords: models.Coords{Latitude: 37.7763, Longitude: -122.4231}},
				{ID: "alex-2", Title: "Study nook @ Library", Description: "Quiet weekday mornings", Categories: []string{"study"}, Privacy: "friends", CreatedAt: days(5), Coords: models.Coords{Latitude: 37.7793, Longitude: -122.4155}},
			},
		},
		{
			Username:    "sam",
			DisplayName: "Sam Patel",
			Bio:         "Hiking and matcha.",
			Pins: []SeedPin{
				{ID: "sam-1", Title: "Lands End lookout", Categories: []string{"nature"}, Privacy: "public", CreatedAt: days(2), Coords: models.Coords{Latitude: 37.7802, Longitude: -122.513}},
				{ID: "sam-2", Title: "Secret matcha spot", Categories: []string{"cafe"}, Privacy: "friends", CreatedAt: days(12), Coords: models.Coords{Latitude: 37.7922, Longitude: -122.407}},
			},
		},
		{
			Username:    "taylor",
			DisplayName: "Taylor Rowe",
			Bio:         "Art & galleries",
			Pins: []SeedPin{
				{ID: "taylor-1", Title: "Local mural", Categories: []string{"art"}, Privacy: "public", CreatedAt: days(7), Coords: models.Coords{Latitude: 37.7602, Longitude: -122.414}},
				{ID: "taylor-2", Title: "Studio hang", Categories: []string{"art"}, Privacy: "private", CreatedAt: days(8), Coords: models.Coords{Latitude: 37.7569, Longitude: -122.42}},
			},
		},
		{
			Username:    "jordan",
			DisplayName: "Jordan Lee",
			Bio:         "Nature escapes on weekends",
			Pins: []SeedPin{
				{ID: "jordan-1", Title: "Twin Peaks sunset", Categories: []string{"landmark"}, Privacy: "public", CreatedAt: days(3), Coords: models.Coords{Latitude: 37.7544, Longitude: -122.4477}},
			},
		},
		{
			Username:    "casey",
			DisplayName: "Casey Nguyen",
			Bio:         "Cafes and co-working",
			Pins: []SeedPin{
				{ID: "casey-1", Title: "Neighborhood roasters", Categories: []string{"cafe"}, Privacy: "friends", CreatedAt: days(4), Coords: models.Coords{Latitude: 37.7707, Longitude: -122.441}},
			},
		},
	}
}

func str(s string) *string { return &s }

func f64(f float64) *float64 { return &f }
