package schema

import (
	"encoding/json"
	"math"
	"strconv"

	"pin-drop/internal/models"
)

// RawPin is the unvalidated shape accepted at every ingress boundary (API
// input and disk read-back). Pointer fields distinguish "absent" from
// zero-valued so declared defaults only apply when a field is missing.
type RawPin struct {
	ID          *string      `json:"id"`
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Photos      []string     `json:"photos"`
	Categories  []string     `json:"categories"`
	Coords      *RawCoords   `json:"coords"`
	Privacy     *string      `json:"privacy"`
	CreatedAt   *float64     `json:"createdAt"`
	Owner       *string      `json:"owner"`
	Comments    []RawComment `json:"comments"`
	LikesCount  *int         `json:"likesCount"`
	MyLiked     *bool        `json:"myLiked"`
}

type RawCoords struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type RawComment struct {
	ID        *string  `json:"id"`
	User      *string  `json:"user"`
	Text      *string  `json:"text"`
	CreatedAt *float64 `json:"createdAt"`
}

// ParsePin validates raw against the pin schema and produces a normalized
// Pin with defaults applied: empty title/description, empty photo and
// category lists, privacy=private, owner="me", no comments, likesCount=0,
// myLiked=false. Required fields are a non-empty id, finite coords and a
// numeric createdAt; a record missing any of them fails with a
// *ValidationError listing every offending field.
func ParsePin(raw RawPin) (models.Pin, error) {
	verr := &ValidationError{}

	var pin models.Pin

	if raw.ID == nil || *raw.ID == "" {
		verr.Add("id", "required non-empty string")
	} else {
		pin.ID = *raw.ID
	}

	if raw.Coords == nil {
		verr.Add("coords", "required")
	} else {
		if raw.Coords.Latitude == nil || !finite(*raw.Coords.Latitude) {
			verr.Add("coords.latitude", "required finite number")
		} else {
			pin.Coords.Latitude = *raw.Coords.Latitude
		}
		if raw.Coords.Longitude == nil || !finite(*raw.Coords.Longitude) {
			verr.Add("coords.longitude", "required finite number")
		} else {
			pin.Coords.Longitude = *raw.Coords.Longitude
		}
	}

	if raw.CreatedAt == nil || !finite(*raw.CreatedAt) {
		verr.Add("createdAt", "required numeric timestamp")
	} else {
		pin.CreatedAt = int64(*raw.CreatedAt)
	}

	if raw.Title != nil {
		pin.Title = *raw.Title
	}
	if raw.Description != nil {
		pin.Description = *raw.Description
	}

	pin.Photos = make([]string, 0, len(raw.Photos))
	pin.Photos = append(pin.Photos, raw.Photos...)

	pin.Categories = make([]models.Category, 0, len(raw.Categories))
	for _, c := range raw.Categories {
		cat := models.Category(c)
		if !models.ValidCategory(cat) {
			verr.Add("categories", "unknown category: "+c)
			continue
		}
		pin.Categories = append(pin.Categories, cat)
	}

	pin.Privacy = models.PrivacyPrivate
	if raw.Privacy != nil {
		p := models.Privacy(*raw.Privacy)
		if !models.ValidPrivacy(p) {
			verr.Add("privacy", "unknown privacy level: "+*raw.Privacy)
		} else {
			pin.Privacy = p
		}
	}

	// Older records predate the owner field; they belong to the local viewer.
	pin.Owner = "me"
	if raw.Owner != nil && *raw.Owner != "" {
		pin.Owner = *raw.Owner
	}

	pin.Comments = make([]models.Comment, 0, len(raw.Comments))
	for i, rc := range raw.Comments {
		c, ok := parseComment(rc)
		if !ok {
			verr.Add("comments", "malformed comment at index "+strconv.Itoa(i))
			continue
		}
		pin.Comments = append(pin.Comments, c)
	}

	if raw.LikesCount != nil && *raw.LikesCount > 0 {
		pin.LikesCount = *raw.LikesCount
	}
	if raw.MyLiked != nil {
		pin.MyLiked = *raw.MyLiked
	}

	if !verr.Empty() {
		return models.Pin{}, verr
	}
	return pin, nil
}

// ParsePinJSON decodes a single raw JSON record and validates it.
func ParsePinJSON(data []byte) (models.Pin, error) {
	var raw RawPin
	if err := json.Unmarshal(data, &raw); err != nil {
		verr := &ValidationError{}
		verr.Add("", "malformed JSON: "+err.Error())
		return models.Pin{}, verr
	}
	return ParsePin(raw)
}

func parseComment(rc RawComment) (models.Comment, bool) {
	if rc.ID == nil || *rc.ID == "" || rc.User == nil || rc.Text == nil ||
		rc.CreatedAt == nil || !finite(*rc.CreatedAt) {
		return models.Comment{}, false
	}
	return models.Comment{
		ID:        *rc.ID,
		User:      *rc.User,
		Text:      *rc.Text,
		CreatedAt: int64(*rc.CreatedAt),
	}, true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
