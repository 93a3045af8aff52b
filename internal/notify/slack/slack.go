// Package slack posts notification records to a Slack channel.
package slack

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/golang/glog"
	slackapi "github.com/slack-go/slack"
	"github.com/zulandar/pressyard/internal/notify"
)

// maxRetries bounds the retries of a rate-limited post.
const maxRetries = 3

// slackClient is the part of the Slack API a Sink posts through.
type slackClient interface {
	PostMessage(channelID string, options ...slackapi.MsgOption) (string, string, error)
}

// Sink implements notify.Sink for Slack.
type Sink struct {
	client    slackClient
	channelID string
}

// SinkOpts holds parameters for creating a Slack Sink.
type SinkOpts struct {
	BotToken  string
	ChannelID string
	// Client replaces the API client built from BotToken.
	Client slackClient
}

// New creates a Slack Sink.
func New(opts SinkOpts) (*Sink, error) {
	if opts.Client == nil && opts.BotToken == "" {
		return nil, fmt.Errorf("slack: bot token is required")
	}
	if opts.ChannelID == "" {
		return nil, fmt.Errorf("slack: channel is required")
	}
	client := opts.Client
	if client == nil {
		client = slackapi.New(opts.BotToken)
	}
	return &Sink{client: client, channelID: opts.ChannelID}, nil
}

// Send posts rec as one attachment.
func (s *Sink) Send(ctx context.Context, rec notify.Record) error {
	options := []slackapi.MsgOption{
		slackapi.MsgOptionText(rec.Subject, false),
		slackapi.MsgOptionAttachments(recordToAttachment(rec)),
	}
	err := retryOnRateLimit(ctx, func() error {
		_, _, postErr := s.client.PostMessage(s.channelID, options...)
		return postErr
	})
	if err != nil {
		return fmt.Errorf("slack: post message: %w", err)
	}
	return nil
}

func recordToAttachment(rec notify.Record) slackapi.Attachment {
	att := slackapi.Attachment{
		Title:    rec.Subject,
		Text:     rec.Body(),
		Color:    rec.Color,
		Fallback: rec.Subject,
	}
	for _, f := range rec.Fields() {
		att.Fields = append(att.Fields, slackapi.AttachmentField{
			Title: f.Name,
			Value: f.Value,
			Short: true,
		})
	}
	return att
}

// retryOnRateLimit retries fn while Slack answers with a rate limit,
// waiting RetryAfter or an exponential backoff between attempts.
func retryOnRateLimit(ctx context.Context, fn func() error) error {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		var rle *slackapi.RateLimitedError
		if !errors.As(err, &rle) {
			return err
		}
		if attempt == maxRetries {
			return err
		}

		wait := rle.RetryAfter
		if wait <= 0 {
			wait = time.Duration(math.Pow(2, float64(attempt))) * time.Second
		}
		glog.Warningf("slack: rate limited, retry %d of %d in %v", attempt+1, maxRetries, wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil
}
