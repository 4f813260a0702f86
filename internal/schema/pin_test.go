package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }
func intPtr(i int) *int         { return &i }
func boolPtr(b bool) *bool      { return &b }

func validRaw() RawPin {
	return RawPin{
		ID:        strPtr("pin-1"),
		Coords:    &RawCoords{Latitude: f64Ptr(37.77), Longitude: f64Ptr(-122.41)},
		CreatedAt: f64Ptr(1700000000000),
	}
}

func TestParsePinDefaults(t *testing.T) {
	pin, err := ParsePin(validRaw())
	assert.NoError(t, err)

	assert.Equal(t, "pin-1", pin.ID)
	assert.Equal(t, "", pin.Title)
	assert.Equal(t, "private", string(pin.Privacy))
	assert.Equal(t, "me", pin.Owner)
	assert.Equal(t, 0, pin.LikesCount)
	assert.False(t, pin.MyLiked)
	assert.NotNil(t, pin.Photos)
	assert.NotNil(t, pin.Categories)
	assert.NotNil(t, pin.Comments)
	assert.Equal(t, int64(1700000000000), pin.CreatedAt)
}

func TestParsePinFullRecord(t *testing.T) {
	raw := validRaw()
	raw.Title = strPtr("Mural wall")
	raw.Description = strPtr("Worth a detour")
	raw.Photos = []string{"a.jpg", "b.jpg"}
	raw.Categories = []string{"art", "landmark"}
	raw.Privacy = strPtr("public")
	raw.Owner = strPtr("alex")
	raw.LikesCount = intPtr(3)
	raw.MyLiked = boolPtr(true)
	raw.Comments = []RawComment{
		{ID: strPtr("c1"), User: strPtr("sam"), Text: strPtr("nice"), CreatedAt: f64Ptr(1700000001000)},
	}

	pin, err := ParsePin(raw)
	assert.NoError(t, err)

	assert.Equal(t, "Mural wall", pin.Title)
	assert.Equal(t, "public", string(pin.Privacy))
	assert.Equal(t, "alex", pin.Owner)
	assert.Equal(t, 3, pin.LikesCount)
	assert.True(t, pin.MyLiked)
	assert.Len(t, pin.Categories, 2)
	assert.Len(t, pin.Comments, 1)
	assert.Equal(t, "sam", pin.Comments[0].User)
}

func TestParsePinMissingRequiredFields(t *testing.T) {
	_, err := ParsePin(RawPin{})
	assert.Error(t, err)

	verr, ok := err.(*ValidationError)
	assert.True(t, ok)

	fields := make(map[string]bool)
	for _, fe := range verr.Fields {
		fields[fe.Field] = true
	}
	assert.True(t, fields["id"])
	assert.True(t, fields["coords"])
	assert.True(t, fields["createdAt"])
}

func TestParsePinRejectsNonFiniteCoords(t *testing.T) {
	raw := validRaw()
	nan := 0.0
	nan = nan / nan
	raw.Coords.Latitude = &nan

	_, err := ParsePin(raw)
	assert.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestParsePinRejectsUnknownCategory(t *testing.T) {
	raw := validRaw()
	raw.Categories = []string{"cafe", "spelunking"}

	_, err := ParsePin(raw)
	assert.Error(t, err)
}

func TestParsePinRejectsUnknownPrivacy(t *testing.T) {
	raw := validRaw()
	raw.Privacy = strPtr("secret")

	_, err := ParsePin(raw)
	assert.Error(t, err)
}

func TestParsePinClampsNegativeLikes(t *testing.T) {
	raw := validRaw()
	raw.LikesCount = intPtr(-5)

	pin, err := ParsePin(raw)
	assert.NoError(t, err)
	assert.Equal(t, 0, pin.LikesCount)
}

func TestParsePinRejectsMalformedComment(t *testing.T) {
	raw := validRaw()
	raw.Comments = []RawComment{{Text: strPtr("no id or user")}}

	_, err := ParsePin(raw)
	assert.Error(t, err)
}

func TestParsePinJSON(t *testing.T) {
	pin, err := ParsePinJSON([]byte(`{
		"id": "p1",
		"coords": {"latitude": 37.7, "longitude": -122.4},
		"createdAt": 1700000000000,
		"privacy": "friends"
	}`))
	assert.NoError(t, err)
	assert.Equal(t, "p1", pin.ID)
	assert.Equal(t, "friends", string(pin.Privacy))

	_, err = ParsePinJSON([]byte(`{not json`))
	assert.Error(t, err)
	assert.True(t, IsValidationError(err))
}
