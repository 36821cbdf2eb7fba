package main

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/chrisedwards/slack-cli/internal/config"
	"github.com/chrisedwards/slack-cli/internal/profile"
	"github.com/chrisedwards/slack-cli/internal/render"
	"github.com/chrisedwards/slack-cli/internal/slack"
)

// app carries what every command needs after settings are loaded.
type app struct {
	cfg    *config.Config
	loc    *time.Location
	logger *zap.Logger
	store  *profile.Store
	out    io.Writer
}

func newLogger(level zapcore.Level) *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stderr), level)
	return zap.New(core)
}

func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	level := cfg.Level()
	if verbose {
		level = zapcore.DebugLevel
	}
	logger := newLogger(level)
	logger.Debug("settings loaded",
		zap.String("file", cfg.ConfigFile()),
		zap.String("config_dir", cfg.ConfigDir),
		zap.String("timezone", loc.String()))

	return &app{
		cfg:    cfg,
		loc:    loc,
		logger: logger,
		store:  profile.NewStore(cfg.ConfigDir, nil, logger.Named("profile")),
		out:    cmd.OutOrStdout(),
	}, nil
}

// token prefers SLACK_CLI_TOKEN over the profile store.
func (a *app) token() (string, error) {
	if tok := strings.TrimSpace(os.Getenv(config.TokenEnv)); tok != "" {
		a.logger.Debug("using token from environment")
		return tok, nil
	}
	return a.store.Token(profileName)
}

func (a *app) client() (*slack.Client, error) {
	tok, err := a.token()
	if err != nil {
		return nil, err
	}
	return slack.NewClient(tok, slack.Options{
		BaseURL:     a.cfg.APIURL,
		HTTPTimeout: a.cfg.HTTPTimeout,
		Concurrency: a.cfg.Concurrency,
		Cooldown:    a.cfg.RateLimitCooldown,
		UnreadDelay: a.cfg.UnreadDelay,
		UnreadCap:   a.cfg.UnreadCap,
		MaxPages:    a.cfg.MaxPages,
		PageSize:    a.cfg.ChannelsPageSize,
		Logger:      a.logger,
	}), nil
}

func (a *app) renderer() *render.Renderer {
	return render.New(a.out, a.loc)
}

// channelLabel shows a channel argument the way users typed it, with a
// leading '#' for names.
func channelLabel(channel string) string {
	if slack.IsChannelID(channel) || strings.HasPrefix(channel, "#") {
		return channel
	}
	return "#" + channel
}
