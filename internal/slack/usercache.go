package slack

import (
	"sync"

	slackapi "github.com/slack-go/slack"
)

// User is the part of a workspace member the CLI displays.
type User struct {
	ID       string
	Name     string
	RealName string
}

// NewUser converts an API user.
func NewUser(u slackapi.User) User {
	realName := u.RealName
	if realName == "" {
		realName = u.Profile.RealName
	}
	return User{ID: u.ID, Name: u.Name, RealName: realName}
}

// Label returns the handle, falling back to the real name and then the ID.
func (u User) Label() string {
	switch {
	case u.Name != "":
		return u.Name
	case u.RealName != "":
		return u.RealName
	default:
		return u.ID
	}
}

// UserCache memoizes user lookups for the lifetime of one Client.
// Nothing is persisted. Thread-safe for concurrent access.
type UserCache struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewUserCache creates an empty UserCache.
func NewUserCache() *UserCache {
	return &UserCache{users: make(map[string]*User)}
}

// Get returns a cached user by ID, or nil if not found.
func (c *UserCache) Get(id string) *User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.users[id]
}

// Set adds or updates a user in the cache.
func (c *UserCache) Set(user *User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[user.ID] = user
}

// Len returns the number of cached users.
func (c *UserCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.users)
}
