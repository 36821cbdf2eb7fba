package slack

import (
	"context"
	"net/http"
	"strings"
	"time"

	slackapi "github.com/slack-go/slack"
)

const (
	// DefaultBaseURL is the base URL for Slack's Web API.
	DefaultBaseURL = "https://slack.com/api/"

	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second
)

// API is the subset of the Web API the CLI calls. *slackapi.Client
// satisfies it; tests substitute fakes.
type API interface {
	GetConversationsContext(ctx context.Context, params *slackapi.GetConversationsParameters) ([]slackapi.Channel, string, error)
	GetConversationInfoContext(ctx context.Context, input *slackapi.GetConversationInfoInput) (*slackapi.Channel, error)
	GetConversationHistoryContext(ctx context.Context, params *slackapi.GetConversationHistoryParameters) (*slackapi.GetConversationHistoryResponse, error)
	PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
	ScheduleMessageContext(ctx context.Context, channelID, postAt string, options ...slackapi.MsgOption) (string, string, error)
	GetScheduledMessagesContext(ctx context.Context, params *slackapi.GetScheduledMessagesParameters) ([]slackapi.ScheduledMessage, string, error)
	MarkConversationContext(ctx context.Context, channel, ts string) error
	GetUserInfoContext(ctx context.Context, user string) (*slackapi.User, error)
}

var _ API = (*slackapi.Client)(nil)

// Endpoint describes where and how to reach the Web API.
type Endpoint struct {
	token      string
	httpClient *http.Client
	baseURL    string
}

// NewEndpoint creates an Endpoint for the given token with default settings.
func NewEndpoint(token string) *Endpoint {
	return &Endpoint{
		token:      token,
		httpClient: &http.Client{Timeout: DefaultHTTPTimeout},
		baseURL:    DefaultBaseURL,
	}
}

// WithBaseURL returns a new Endpoint with the specified base URL.
// Useful for testing with mock servers.
func (e *Endpoint) WithBaseURL(baseURL string) *Endpoint {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Endpoint{
		token:      e.token,
		httpClient: e.httpClient,
		baseURL:    baseURL,
	}
}

// WithHTTPClient returns a new Endpoint with the specified HTTP client.
func (e *Endpoint) WithHTTPClient(client *http.Client) *Endpoint {
	return &Endpoint{
		token:      e.token,
		httpClient: client,
		baseURL:    e.baseURL,
	}
}

// WithTimeout returns a new Endpoint whose HTTP client uses timeout.
func (e *Endpoint) WithTimeout(timeout time.Duration) *Endpoint {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return e.WithHTTPClient(&http.Client{Timeout: timeout})
}

// API builds a Web API client for the endpoint.
func (e *Endpoint) API() API {
	baseURL := e.baseURL
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return slackapi.New(e.token,
		slackapi.OptionAPIURL(baseURL),
		slackapi.OptionHTTPClient(e.httpClient),
	)
}
