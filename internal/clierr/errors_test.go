package clierr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestChannelNotFoundError_WithSuggestions(t *testing.T) {
	err := &ChannelNotFoundError{Channel: "genera", Suggestions: []string{"general", "general-2"}}

	want := "Channel 'genera' not found. Did you mean one of these? general, general-2"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestChannelNotFoundError_NoSuggestions(t *testing.T) {
	err := &ChannelNotFoundError{Channel: "zzz"}

	msg := err.Error()
	if !strings.Contains(msg, "Make sure you are a member") {
		t.Errorf("Error() = %q, should advise checking membership", msg)
	}
	if strings.Contains(msg, "Did you mean") {
		t.Errorf("Error() = %q, should not offer suggestions", msg)
	}
}

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
		{name: "api error", err: &APIError{Op: "conversations.list", Err: errors.New("boom")}, want: false},
		{name: "rate limited", err: &APIError{Op: "conversations.list", RateLimited: true, Err: errors.New("slow down")}, want: true},
		{
			name: "wrapped rate limited",
			err:  fmt.Errorf("scan: %w", &APIError{Op: "conversations.info", RateLimited: true, Err: errors.New("429")}),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRateLimited(tt.err); got != tt.want {
				t.Errorf("IsRateLimited(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestNoConfig_WrapsProfileNotFound(t *testing.T) {
	err := NoConfig("work")

	if !errors.Is(err, ErrProfileNotFound) {
		t.Error("NoConfig() should wrap ErrProfileNotFound")
	}
	if !strings.Contains(err.Error(), `--profile work`) {
		t.Errorf("NoConfig() = %q, should include setup hint", err.Error())
	}
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("inner")

	wrapped := []error{
		&CryptoError{Op: "decrypt", Err: inner},
		&APIError{Op: "chat.postMessage", Err: inner},
		&FileError{Path: "/tmp/msg.txt", Err: inner},
		&ConfigurationError{Msg: "bad", Err: inner},
	}
	for _, err := range wrapped {
		if !errors.Is(err, inner) {
			t.Errorf("%T should unwrap to inner error", err)
		}
	}
}
