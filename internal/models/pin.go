package models

// Coords is a latitude/longitude pair in decimal degrees.
type Coords struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// Privacy is the visibility scope of a pin.
type Privacy string

const (
	PrivacyPrivate Privacy = "private"
	PrivacyFriends Privacy = "friends"
	PrivacyPublic  Privacy = "public"
)

// ValidPrivacy reports whether p is one of the known privacy levels.
func ValidPrivacy(p Privacy) bool {
	switch p {
	case PrivacyPrivate, PrivacyFriends, PrivacyPublic:
		return true
	}
	return false
}

// Category is a tag from the fixed pin vocabulary.
type Category string

const (
	CategoryArt      Category = "art"
	CategoryCafe     Category = "cafe"
	CategoryStudy    Category = "study"
	CategorySmoke    Category = "smoke"
	CategoryLandmark Category = "landmark"
	CategoryNature   Category = "nature"
	CategoryOther    Category = "other"
)

// ValidCategory reports whether c belongs to the fixed vocabulary.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryArt, CategoryCafe, CategoryStudy, CategorySmoke,
		CategoryLandmark, CategoryNature, CategoryOther:
		return true
	}
	return false
}

// Pin is a user-created geotagged point of interest.
type Pin struct {
	ID          string     `json:"id" bson:"id"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description" bson:"description"`
	Photos      []string   `json:"photos" bson:"photos"`
	Categories  []Category `json:"categories" bson:"categories"`
	Coords      Coords     `json:"coords" bson:"coords"`
	Privacy     Privacy    `json:"privacy" bson:"privacy"`
	CreatedAt   int64      `json:"createdAt" bson:"createdAt"` // epoch ms
	Owner       string     `json:"owner" bson:"owner"`
	Comments    []Comment  `json:"comments" bson:"comments"`
	LikesCount  int        `json:"likesCount" bson:"likesCount"`
	MyLiked     bool       `json:"myLiked" bson:"myLiked"`
}
