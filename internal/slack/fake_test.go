package slack

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	slackapi "github.com/slack-go/slack"
)

// fakeAPI implements API for testing. Each hook is optional; calls records
// the method names in order.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	pages     [][]slackapi.Channel // conversations.list pages, in cursor order
	listErr   error
	listTypes [][]string

	info    map[string]*slackapi.Channel
	infoErr map[string]error

	history       func(*slackapi.GetConversationHistoryParameters) (*slackapi.GetConversationHistoryResponse, error)
	historyParams []slackapi.GetConversationHistoryParameters

	users   map[string]*slackapi.User
	userErr error

	posted    []url.Values
	scheduled []url.Values
	postAt    []string
	postErr   error

	scheduledList []slackapi.ScheduledMessage
	scheduledReq  []slackapi.GetScheduledMessagesParameters

	marked map[string]string
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeAPI) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeAPI) GetConversationsContext(_ context.Context, p *slackapi.GetConversationsParameters) ([]slackapi.Channel, string, error) {
	f.record("conversations.list")
	f.listTypes = append(f.listTypes, p.Types)
	if f.listErr != nil {
		return nil, "", f.listErr
	}
	idx := 0
	if p.Cursor != "" {
		if _, err := fmt.Sscanf(p.Cursor, "page-%d", &idx); err != nil {
			return nil, "", err
		}
	}
	if idx >= len(f.pages) {
		return nil, "", nil
	}
	next := ""
	if idx+1 < len(f.pages) {
		next = fmt.Sprintf("page-%d", idx+1)
	}
	return f.pages[idx], next, nil
}

func (f *fakeAPI) GetConversationInfoContext(_ context.Context, in *slackapi.GetConversationInfoInput) (*slackapi.Channel, error) {
	f.record("conversations.info")
	if err := f.infoErr[in.ChannelID]; err != nil {
		return nil, err
	}
	if ch, ok := f.info[in.ChannelID]; ok {
		return ch, nil
	}
	return nil, errors.New("channel_not_found")
}

func (f *fakeAPI) GetConversationHistoryContext(_ context.Context, p *slackapi.GetConversationHistoryParameters) (*slackapi.GetConversationHistoryResponse, error) {
	f.record("conversations.history")
	f.historyParams = append(f.historyParams, *p)
	if f.history == nil {
		return &slackapi.GetConversationHistoryResponse{}, nil
	}
	return f.history(p)
}

func (f *fakeAPI) PostMessageContext(_ context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	f.record("chat.postMessage")
	if f.postErr != nil {
		return "", "", f.postErr
	}
	_, values, err := slackapi.UnsafeApplyMsgOptions("", channelID, "", options...)
	if err != nil {
		return "", "", err
	}
	f.posted = append(f.posted, values)
	return channelID, "1700000000.000100", nil
}

func (f *fakeAPI) ScheduleMessageContext(_ context.Context, channelID, postAt string, options ...slackapi.MsgOption) (string, string, error) {
	f.record("chat.scheduleMessage")
	if f.postErr != nil {
		return "", "", f.postErr
	}
	_, values, err := slackapi.UnsafeApplyMsgOptions("", channelID, "", options...)
	if err != nil {
		return "", "", err
	}
	f.scheduled = append(f.scheduled, values)
	f.postAt = append(f.postAt, postAt)
	return channelID, "Q123", nil
}

func (f *fakeAPI) GetScheduledMessagesContext(_ context.Context, p *slackapi.GetScheduledMessagesParameters) ([]slackapi.ScheduledMessage, string, error) {
	f.record("chat.scheduledMessages.list")
	f.scheduledReq = append(f.scheduledReq, *p)
	return f.scheduledList, "", nil
}

func (f *fakeAPI) MarkConversationContext(_ context.Context, channel, ts string) error {
	f.record("conversations.mark")
	if f.marked == nil {
		f.marked = make(map[string]string)
	}
	f.marked[channel] = ts
	return nil
}

func (f *fakeAPI) GetUserInfoContext(_ context.Context, id string) (*slackapi.User, error) {
	f.record("users.info:" + id)
	if f.userErr != nil {
		return nil, f.userErr
	}
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("user_not_found")
}

func apiChannel(id, name string) slackapi.Channel {
	var ch slackapi.Channel
	ch.ID = id
	ch.Name = name
	ch.IsChannel = true
	return ch
}

func apiMessage(ts, user, text string) slackapi.Message {
	var m slackapi.Message
	m.Type = "message"
	m.Timestamp = ts
	m.User = user
	m.Text = text
	return m
}

func historyOf(msgs ...slackapi.Message) *slackapi.GetConversationHistoryResponse {
	resp := &slackapi.GetConversationHistoryResponse{Messages: msgs}
	resp.Ok = true
	return resp
}
