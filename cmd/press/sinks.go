package main

import (
	"fmt"
	"time"

	"github.com/zulandar/pressyard/internal/config"
	"github.com/zulandar/pressyard/internal/notify"
	"github.com/zulandar/pressyard/internal/notify/discord"
	"github.com/zulandar/pressyard/internal/notify/slack"
)

// newSink builds the configured notification sink behind a circuit breaker.
func newSink(cfg config.NotifyConfig) (notify.Sink, error) {
	var (
		sink notify.Sink
		err  error
	)
	switch cfg.Platform {
	case "slack":
		sink, err = slack.New(slack.SinkOpts{BotToken: cfg.Slack.BotToken, ChannelID: cfg.Slack.Channel})
	case "discord":
		sink, err = discord.New(discord.SinkOpts{BotToken: cfg.Discord.BotToken, ChannelID: cfg.Discord.ChannelID})
	case "log", "":
		sink = notify.LogSink{}
	default:
		return nil, fmt.Errorf("unsupported notify platform %q", cfg.Platform)
	}
	if err != nil {
		return nil, err
	}
	return notify.NewBreaker(sink, notify.BreakerOpts{
		Name:        cfg.Platform,
		MaxFailures: cfg.Breaker.MaxFailures,
		Timeout:     time.Duration(cfg.Breaker.TimeoutSeconds) * time.Second,
	}), nil
}
