package actors

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"regexp"
	"strings"

	"github.com/asynkron/protoactor-go/actor"
	"golang.org/x/crypto/bcrypt"

	"pin-drop/internal/models"
	"pin-drop/internal/storage"
	"pin-drop/internal/utils"
)

// Message types for profile operations
type (
	GetProfileMsg struct{}

	SetDisplayNameMsg struct {
		Name string
	}

	SetUsernameMsg struct {
		Username string
	}

	SetBioMsg struct {
		Bio string
	}

	SetEmailMsg struct {
		Email string
	}

	// SetPasscodeMsg sets or clears the optional local passcode gate used
	// by session login. Empty passcode clears it.
	SetPasscodeMsg struct {
		Passcode string
	}

	VerifyPasscodeMsg struct {
		Passcode string
	}
)

// defaultUsernamePattern matches the auto-generated first-run username so
// setting a display name can opportunistically re-slug it once.
var defaultUsernamePattern = regexp.MustCompile(`^traveler-[a-z0-9]{4}$`)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// ProfileActor owns the local viewer's singleton identity. Every mutation
// persists immediately; there is no debounce on the profile path.
type ProfileActor struct {
	state models.Profile
	kv    storage.KV
}

func NewProfileActor(kv storage.KV) actor.Actor {
	return &ProfileActor{kv: kv}
}

func (a *ProfileActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		a.load()

	case *GetProfileMsg:
		ctx.Respond(a.state)

	case *SetDisplayNameMsg:
		a.state.DisplayName = msg.Name
		// One-time convenience: refresh a still-default username from the
		// new display name.
		if defaultUsernamePattern.MatchString(a.state.Username) {
			if next := Slugify(msg.Name); next != "" && next != "me" {
				a.state.Username = next + "-" + randomSuffix(4)
			}
		}
		a.persist()
		ctx.Respond(a.state)

	case *SetUsernameMsg:
		slug := Slugify(msg.Username)
		if slug == "" {
			slug = "me"
		}
		a.state.Username = slug
		a.persist()
		ctx.Respond(a.state)

	case *SetBioMsg:
		a.state.Bio = msg.Bio
		a.persist()
		ctx.Respond(a.state)

	case *SetEmailMsg:
		a.state.Email = msg.Email
		a.persist()
		ctx.Respond(a.state)

	case *SetPasscodeMsg:
		if msg.Passcode == "" {
			a.state.PasscodeHash = ""
			a.persist()
			ctx.Respond(true)
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(msg.Passcode), bcrypt.DefaultCost)
		if err != nil {
			ctx.Respond(utils.NewAppError(utils.ErrInvalidInput, "Failed to hash passcode", err))
			return
		}
		a.state.PasscodeHash = string(hash)
		a.persist()
		ctx.Respond(true)

	case *VerifyPasscodeMsg:
		if a.state.PasscodeHash == "" {
			ctx.Respond(true)
			return
		}
		err := bcrypt.CompareHashAndPassword([]byte(a.state.PasscodeHash), []byte(msg.Passcode))
		ctx.Respond(err == nil)
	}
}

type persistedProfile struct {
	DisplayName  string `json:"displayName"`
	Username     string `json:"username"`
	Bio          string `json:"bio"`
	Email        string `json:"email"`
	PasscodeHash string `json:"passcodeHash,omitempty"`
}

func (a *ProfileActor) load() {
	a.state = models.Profile{
		DisplayName: "Traveler",
		Username:    "traveler-" + randomSuffix(4),
	}

	if a.kv == nil {
		return
	}
	blob, err := a.kv.Get(context.Background(), storage.NamespaceProfile)
	if err != nil {
		log.Printf("ProfileActor: profile load failed, using defaults: %v", err)
		return
	}
	if blob == nil {
		// First run: persist the generated identity so the random suffix
		// stays stable across restarts.
		a.persist()
		return
	}

	var p persistedProfile
	if err := json.Unmarshal(blob, &p); err != nil {
		log.Printf("ProfileActor: malformed profile blob, using defaults: %v", err)
		return
	}
	if p.Username != "" {
		a.state.Username = p.Username
	}
	if p.DisplayName != "" {
		a.state.DisplayName = p.DisplayName
	}
	a.state.Bio = p.Bio
	a.state.Email = p.Email
	a.state.PasscodeHash = p.PasscodeHash
}

func (a *ProfileActor) persist() {
	if a.kv == nil {
		return
	}
	blob, err := json.Marshal(persistedProfile{
		DisplayName:  a.state.DisplayName,
		Username:     a.state.Username,
		Bio:          a.state.Bio,
		Email:        a.state.Email,
		PasscodeHash: a.state.PasscodeHash,
	})
	if err != nil {
		return
	}
	if err := a.kv.Put(context.Background(), storage.NamespaceProfile, blob); err != nil {
		log.Printf("ProfileActor: profile write failed: %v", err)
	}
}

// Slugify lowercases input, collapses runs of non-alphanumerics to single
// hyphens, trims leading/trailing hyphens and caps the result at 24 runes.
func Slugify(input string) string {
	s := strings.ToLower(input)
	s = nonSlugChars.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 24 {
		s = strings.Trim(s[:24], "-")
	}
	return s
}

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = suffixAlphabet[rand.Intn(len(suffixAlphabet))]
	}
	return string(b)
}
