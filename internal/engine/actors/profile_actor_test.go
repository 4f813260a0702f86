package actors

import (
	"regexp"
	"testing"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"

	"pin-drop/internal/models"
	"pin-drop/internal/storage"
)

func spawnProfileActor(t *testing.T, kv storage.KV) (*actor.ActorSystem, *actor.PID) {
	t.Helper()
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewProfileActor(kv)
	})
	return system, system.Root.Spawn(props)
}

func getProfile(t *testing.T, system *actor.ActorSystem, pid *actor.PID) models.Profile {
	t.Helper()
	future := system.Root.RequestFuture(pid, &GetProfileMsg{}, 5*time.Second)
	result, err := future.Result()
	assert.NoError(t, err)
	profile, ok := result.(models.Profile)
	assert.True(t, ok, "expected a profile, got %T", result)
	return profile
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "jane-doe", Slugify("Jane Doe"))
	assert.Equal(t, "cafe-hopper", Slugify("  Cafe hopper!  "))
	assert.Equal(t, "a-b-c", Slugify("a__b--c"))
	assert.Equal(t, "", Slugify("!!!"))
	assert.LessOrEqual(t, len(Slugify("a very long display name that keeps going")), 24)
}

func TestProfileActorDefaults(t *testing.T) {
	system, pid := spawnProfileActor(t, nil)

	profile := getProfile(t, system, pid)
	assert.Equal(t, "Traveler", profile.DisplayName)
	assert.Regexp(t, regexp.MustCompile(`^traveler-[a-z0-9]{4}$`), profile.Username)
}

func TestProfileActorDisplayNameReslugsDefaultUsername(t *testing.T) {
	system, pid := spawnProfileActor(t, nil)

	future := system.Root.RequestFuture(pid, &SetDisplayNameMsg{Name: "Jane Doe"}, 5*time.Second)
	result, err := future.Result()
	assert.NoError(t, err)

	profile := result.(models.Profile)
	assert.Equal(t, "Jane Doe", profile.DisplayName)
	assert.Regexp(t, regexp.MustCompile(`^jane-doe-[a-z0-9]{4}$`), profile.Username)

	// A second rename leaves the no-longer-default username alone.
	future = system.Root.RequestFuture(pid, &SetDisplayNameMsg{Name: "Someone Else"}, 5*time.Second)
	result, err = future.Result()
	assert.NoError(t, err)
	assert.Equal(t, profile.Username, result.(models.Profile).Username)
}

func TestProfileActorSetUsernameSlugifies(t *testing.T) {
	system, pid := spawnProfileActor(t, nil)

	future := system.Root.RequestFuture(pid, &SetUsernameMsg{Username: "My Cool Name!!"}, 5*time.Second)
	result, err := future.Result()
	assert.NoError(t, err)
	assert.Equal(t, "my-cool-name", result.(models.Profile).Username)

	// An unusable username falls back to "me".
	future = system.Root.RequestFuture(pid, &SetUsernameMsg{Username: "???"}, 5*time.Second)
	result, err = future.Result()
	assert.NoError(t, err)
	assert.Equal(t, "me", result.(models.Profile).Username)
}

func TestProfileActorBioAndEmail(t *testing.T) {
	system, pid := spawnProfileActor(t, nil)

	future := system.Root.RequestFuture(pid, &SetBioMsg{Bio: "Coffee walks"}, 5*time.Second)
	result, err := future.Result()
	assert.NoError(t, err)
	assert.Equal(t, "Coffee walks", result.(models.Profile).Bio)

	future = system.Root.RequestFuture(pid, &SetEmailMsg{Email: "jane@example.com"}, 5*time.Second)
	result, err = future.Result()
	assert.NoError(t, err)
	assert.Equal(t, "jane@example.com", result.(models.Profile).Email)
}

func TestProfileActorPasscode(t *testing.T) {
	system, pid := spawnProfileActor(t, nil)

	// Without a passcode configured, any verification succeeds.
	future := system.Root.RequestFuture(pid, &VerifyPasscodeMsg{Passcode: "whatever"}, 5*time.Second)
	result, err := future.Result()
	assert.NoError(t, err)
	assert.Equal(t, true, result)

	future = system.Root.RequestFuture(pid, &SetPasscodeMsg{Passcode: "1234"}, 5*time.Second)
	result, err = future.Result()
	assert.NoError(t, err)
	assert.Equal(t, true, result)

	future = system.Root.RequestFuture(pid, &VerifyPasscodeMsg{Passcode: "wrong"}, 5*time.Second)
	result, err = future.Result()
	assert.NoError(t, err)
	assert.Equal(t, false, result)

	future = system.Root.RequestFuture(pid, &VerifyPasscodeMsg{Passcode: "1234"}, 5*time.Second)
	result, err = future.Result()
	assert.NoError(t, err)
	assert.Equal(t, true, result)

	// Empty passcode clears the gate.
	future = system.Root.RequestFuture(pid, &SetPasscodeMsg{Passcode: ""}, 5*time.Second)
	result, err = future.Result()
	assert.NoError(t, err)
	assert.Equal(t, true, result)

	future = system.Root.RequestFuture(pid, &VerifyPasscodeMsg{Passcode: "anything"}, 5*time.Second)
	result, err = future.Result()
	assert.NoError(t, err)
	assert.Equal(t, true, result)
}

func TestProfileActorPersistsAcrossRestarts(t *testing.T) {
	kv := storage.NewMemoryStore()

	system, pid := spawnProfileActor(t, kv)
	future := system.Root.RequestFuture(pid, &SetUsernameMsg{Username: "jane"}, 5*time.Second)
	_, err := future.Result()
	assert.NoError(t, err)
	future = system.Root.RequestFuture(pid, &SetBioMsg{Bio: "Hello"}, 5*time.Second)
	_, err = future.Result()
	assert.NoError(t, err)

	// A fresh actor over the same store comes back with the saved identity.
	system2, pid2 := spawnProfileActor(t, kv)
	profile := getProfile(t, system2, pid2)
	assert.Equal(t, "jane", profile.Username)
	assert.Equal(t, "Hello", profile.Bio)
}

func TestProfileActorFirstRunIdentityIsStable(t *testing.T) {
	kv := storage.NewMemoryStore()

	system, pid := spawnProfileActor(t, kv)
	first := getProfile(t, system, pid)

	system2, pid2 := spawnProfileActor(t, kv)
	second := getProfile(t, system2, pid2)

	// The generated random suffix survives restarts.
	assert.Equal(t, first.Username, second.Username)
}
