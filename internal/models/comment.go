package models

// Comment is a local comment attached to a pin. Comments are created through
// the add-comment operation and never mutated or deleted afterwards.
type Comment struct {
	ID        string `json:"id" bson:"id"`
	User      string `json:"user" bson:"user"`
	Text      string `json:"text" bson:"text"`
	CreatedAt int64  `json:"createdAt" bson:"createdAt"` // epoch ms
}
