package actors

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/asynkron/protoactor-go/actor"

	"pin-drop/internal/mock"
	"pin-drop/internal/models"
	"pin-drop/internal/storage"
	"pin-drop/internal/utils"
)

// Message types for social graph operations
type (
	FollowMsg struct {
		Username string
	}

	UnfollowMsg struct {
		Username string
	}

	IsFollowingMsg struct {
		Username string
	}

	// GetFollowersMsg returns the follower usernames recorded for a user.
	GetFollowersMsg struct {
		Username string
	}

	// GetFollowingMsg returns who a user follows. Empty username means the
	// local viewer; for anyone else the list is not tracked and comes back
	// empty.
	GetFollowingMsg struct {
		Username string
	}

	FollowerCountMsg struct {
		Username string
	}

	FollowingCountMsg struct {
		Username string
	}

	ListUsersMsg struct{}

	// GetSocialViewMsg returns the viewer identity plus following set in
	// one round trip, for visibility filtering.
	GetSocialViewMsg struct{}
)

// UserInfo is a roster entry exposed to the UI.
type UserInfo struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio,omitempty"`
}

// SocialView is the snapshot handlers need to evaluate visibility.
type SocialView struct {
	Me        string
	Following map[string]bool
}

// SocialActor tracks the local "following" list and a best-effort followers
// map. The graph is a one-sided, me-centric simulation: following someone
// updates only this device's state, and follower lists exist only as a side
// effect of local follow/unfollow actions. The user roster is seeded once
// from the mock roster and never mutated at runtime.
type SocialActor struct {
	users      []UserInfo
	following  map[string]bool
	followers  map[string][]string
	kv         storage.KV
	profilePID *actor.PID
	notifier   Notifier
}

func NewSocialActor(kv storage.KV, profilePID *actor.PID, seed []mock.SeedUser, notifier Notifier) actor.Actor {
	users := make([]UserInfo, 0, len(seed))
	for _, u := range seed {
		users = append(users, UserInfo{Username: u.Username, DisplayName: u.DisplayName, Bio: u.Bio})
	}
	return &SocialActor{
		users:      users,
		following:  make(map[string]bool),
		followers:  make(map[string][]string),
		kv:         kv,
		profilePID: profilePID,
		notifier:   notifier,
	}
}

func (a *SocialActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		a.load()

	case *FollowMsg:
		me := a.me(ctx)
		if msg.Username == "" || msg.Username == me {
			ctx.Respond(utils.NewAppError(utils.ErrSelfFollow, "Cannot follow yourself", nil))
			return
		}
		a.following[msg.Username] = true
		a.addFollower(msg.Username, me)
		a.persist()
		if a.notifier != nil {
			a.notifier.Publish("social.followed", msg.Username)
		}
		ctx.Respond(true)

	case *UnfollowMsg:
		me := a.me(ctx)
		delete(a.following, msg.Username)
		a.removeFollower(msg.Username, me)
		a.persist()
		if a.notifier != nil {
			a.notifier.Publish("social.unfollowed", msg.Username)
		}
		ctx.Respond(true)

	case *IsFollowingMsg:
		ctx.Respond(a.following[msg.Username])

	case *GetFollowersMsg:
		list := a.followers[msg.Username]
		out := make([]string, len(list))
		copy(out, list)
		ctx.Respond(out)

	case *GetFollowingMsg:
		me := a.me(ctx)
		if msg.Username != "" && msg.Username != me {
			// Other users' following lists are not tracked locally.
			ctx.Respond([]string{})
			return
		}
		out := make([]string, 0, len(a.following))
		for u := range a.following {
			out = append(out, u)
		}
		ctx.Respond(out)

	case *FollowerCountMsg:
		ctx.Respond(len(a.followers[msg.Username]))

	case *FollowingCountMsg:
		me := a.me(ctx)
		if msg.Username == "" || msg.Username == me {
			ctx.Respond(len(a.following))
			return
		}
		// No global state to consult for other users; fall back to their
		// follower list. Not precise, but consistent for the demo.
		ctx.Respond(len(a.followers[msg.Username]))

	case *ListUsersMsg:
		out := make([]UserInfo, len(a.users))
		copy(out, a.users)
		ctx.Respond(out)

	case *GetSocialViewMsg:
		following := make(map[string]bool, len(a.following))
		for u := range a.following {
			following[u] = true
		}
		ctx.Respond(&SocialView{Me: a.me(ctx), Following: following})
	}
}

// me resolves the viewer's current username from the profile actor so
// username changes take effect without extra bookkeeping here.
func (a *SocialActor) me(ctx actor.Context) string {
	if a.profilePID == nil {
		return "me"
	}
	future := ctx.RequestFuture(a.profilePID, &GetProfileMsg{}, 5*time.Second)
	result, err := future.Result()
	if err != nil {
		log.Printf("SocialActor: profile lookup failed: %v", err)
		return "me"
	}
	profile, ok := result.(models.Profile)
	if !ok || profile.Username == "" {
		return "me"
	}
	return profile.Username
}

func (a *SocialActor) addFollower(target, follower string) {
	for _, f := range a.followers[target] {
		if f == follower {
			return
		}
	}
	a.followers[target] = append(a.followers[target], follower)
}

func (a *SocialActor) removeFollower(target, follower string) {
	list := a.followers[target]
	for i, f := range list {
		if f == follower {
			a.followers[target] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// persistedSocial mirrors what the source app partializes: only the graph,
// never the roster.
type persistedSocial struct {
	Following []string            `json:"following"`
	Followers map[string][]string `json:"followers"`
}

func (a *SocialActor) load() {
	if a.kv == nil {
		return
	}
	blob, err := a.kv.Get(context.Background(), storage.NamespaceSocial)
	if err != nil {
		log.Printf("SocialActor: graph load failed, starting empty: %v", err)
		return
	}
	if blob == nil {
		return
	}
	var p persistedSocial
	if err := json.Unmarshal(blob, &p); err != nil {
		log.Printf("SocialActor: malformed graph blob, starting empty: %v", err)
		return
	}
	for _, u := range p.Following {
		a.following[u] = true
	}
	if p.Followers != nil {
		a.followers = p.Followers
	}
}

func (a *SocialActor) persist() {
	if a.kv == nil {
		return
	}
	p := persistedSocial{
		Following: make([]string, 0, len(a.following)),
		Followers: a.followers,
	}
	for u := range a.following {
		p.Following = append(p.Following, u)
	}
	blob, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := a.kv.Put(context.Background(), storage.NamespaceSocial, blob); err != nil {
		log.Printf("SocialActor: graph write failed: %v", err)
	}
}
