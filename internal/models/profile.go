package models

// Profile is the local viewer's identity. There is exactly one profile per
// device; it is mutated only through the profile actor's setters.
type Profile struct {
	DisplayName  string `json:"displayName" bson:"displayName"`
	Username     string `json:"username" bson:"username"`
	Bio          string `json:"bio" bson:"bio"`
	Email        string `json:"email" bson:"email"`
	PasscodeHash string `json:"-" bson:"passcodeHash"`
}
