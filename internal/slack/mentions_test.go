package slack

import (
	"context"
	"errors"
	"strings"
	"testing"

	slackapi "github.com/slack-go/slack"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func apiUser(id, name string) *slackapi.User {
	return &slackapi.User{ID: id, Name: name}
}

func TestExtractMentionedUserIDs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "none", text: "hello world", want: nil},
		{name: "single", text: "hi <@U123>", want: []string{"U123"}},
		{name: "order and duplicates", text: "<@U2> and <@U1> then <@U2>", want: []string{"U2", "U1", "U2"}},
		{name: "labelled", text: "cc <@U9ABC|bob>", want: []string{"U9ABC"}},
		{name: "empty id", text: "<@>", want: nil},
		{name: "lowercase", text: "<@u123>", want: nil},
		{name: "unterminated", text: "<@U123 oops", want: nil},
		{name: "channel link", text: "<#C123|general>", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractMentionedUserIDs(tt.text)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("ExtractMentionedUserIDs(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestCollectUserIDs(t *testing.T) {
	messages := []Message{
		{User: "U1", Text: "hey <@U2> and <@U3>"},
		{User: "U2", Text: "<@U1> ok"},
		{BotID: "B1", Text: "deploy done <@U4>"},
		{User: "U3"},
	}

	got := CollectUserIDs(messages)
	if strings.Join(got, ",") != "U1,U2,U3,U4" {
		t.Errorf("CollectUserIDs() = %v, want [U1 U2 U3 U4]", got)
	}
}

func TestMentionResolver_UsernameFromCache(t *testing.T) {
	cache := NewUserCache()
	cache.Set(&User{ID: "U456", Name: "cacheduser"})
	api := &fakeAPI{}
	g, _ := newTestGateway(3)

	r := NewMentionResolver(api, g, cache, nil)

	name, err := r.Username(context.Background(), "U456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "cacheduser" {
		t.Errorf("expected cacheduser, got %s", name)
	}
	if len(api.calls) > 0 {
		t.Error("should not call the API for cached user")
	}
}

func TestMentionResolver_UsernameFromAPI(t *testing.T) {
	cache := NewUserCache()
	api := &fakeAPI{users: map[string]*slackapi.User{"U789": apiUser("U789", "externaluser")}}
	g, _ := newTestGateway(3)

	r := NewMentionResolver(api, g, cache, nil)

	name, err := r.Username(context.Background(), "U789")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "externaluser" {
		t.Errorf("expected externaluser, got %s", name)
	}
	if cached := cache.Get("U789"); cached == nil {
		t.Error("user should be cached after fetch")
	}

	// Second lookup is served from the cache
	if _, err := r.Username(context.Background(), "U789"); err != nil {
		t.Fatal(err)
	}
	if n := api.count("users.info:U789"); n != 1 {
		t.Errorf("users.info calls = %d, want 1", n)
	}
}

func TestMentionResolver_NilAPI(t *testing.T) {
	r := NewMentionResolver(nil, nil, NewUserCache(), nil)

	name, err := r.Username(context.Background(), "U999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Falls back to ID when there is no API
	if name != "U999" {
		t.Errorf("expected U999 fallback, got %s", name)
	}
}

func TestMentionResolver_EmptyID(t *testing.T) {
	r := NewMentionResolver(nil, nil, nil, nil)

	name, err := r.Username(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "unknown" {
		t.Errorf("expected unknown for empty ID, got %s", name)
	}
}

func TestMentionResolver_ResolveDisplayNamesFallback(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	api := &fakeAPI{users: map[string]*slackapi.User{
		"U1": apiUser("U1", "alice"),
		"U3": {ID: "U3", RealName: "Carol C"},
	}}
	g, _ := newTestGateway(3)
	r := NewMentionResolver(api, g, NewUserCache(), zap.New(core))

	got := r.ResolveDisplayNames(context.Background(), []string{"U1", "U2", "U3", "U1"})

	want := map[string]string{"U1": "alice", "U2": "U2", "U3": "Carol C"}
	if len(got) != len(want) {
		t.Fatalf("ResolveDisplayNames() = %v, want %v", got, want)
	}
	for id, name := range want {
		if got[id] != name {
			t.Errorf("names[%s] = %q, want %q", id, got[id], name)
		}
	}
	if n := api.count("users.info:U1"); n != 1 {
		t.Errorf("users.info:U1 calls = %d, want 1", n)
	}
	if logs.FilterMessage("user lookup failed, using ID").Len() != 1 {
		t.Error("expected one fallback log entry")
	}
}

func TestMentionResolver_AllLookupsFail(t *testing.T) {
	api := &fakeAPI{userErr: errors.New("invalid_auth")}
	g, _ := newTestGateway(3)
	r := NewMentionResolver(api, g, nil, nil)

	got := r.UsersFor(context.Background(), []Message{{User: "U1", Text: "<@U2>"}})
	if got["U1"] != "U1" || got["U2"] != "U2" {
		t.Errorf("UsersFor() = %v, want IDs mapped to themselves", got)
	}
}
