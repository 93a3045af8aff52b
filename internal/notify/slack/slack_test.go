package slack

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	slackapi "github.com/slack-go/slack"
	"github.com/zulandar/pressyard/internal/identity"
	"github.com/zulandar/pressyard/internal/notify"
)

type mockSlackClient struct {
	mu     sync.Mutex
	posted []string
	errs   []error
	calls  int
}

func (m *mockSlackClient) PostMessage(channelID string, options ...slackapi.MsgOption) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		if err != nil {
			return "", "", err
		}
	}
	m.posted = append(m.posted, channelID)
	return channelID, "1234567890.123456", nil
}

func TestNew_RequiresToken(t *testing.T) {
	if _, err := New(SinkOpts{ChannelID: "C1"}); err == nil {
		t.Error("expected error without token")
	}
	if _, err := New(SinkOpts{BotToken: "xoxb-1"}); err == nil {
		t.Error("expected error without channel")
	}
}

func TestSend(t *testing.T) {
	client := &mockSlackClient{}
	s, err := New(SinkOpts{ChannelID: "C-PRESS", Client: client})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rec := notify.Record{From: identity.System("a@b.c"), To: identity.User{ID: 2, Name: "Op"}, Subject: "s", Logs: []string{"l"}}
	if err := s.Send(context.Background(), rec); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(client.posted) != 1 || client.posted[0] != "C-PRESS" {
		t.Errorf("posted = %v", client.posted)
	}
}

func TestSend_RetriesRateLimit(t *testing.T) {
	client := &mockSlackClient{errs: []error{&slackapi.RateLimitedError{RetryAfter: time.Millisecond}}}
	s, _ := New(SinkOpts{ChannelID: "C1", Client: client})
	if err := s.Send(context.Background(), notify.Record{Subject: "s"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if client.calls != 2 {
		t.Errorf("calls = %d, want 2", client.calls)
	}
}

func TestSend_NonRateLimitError(t *testing.T) {
	client := &mockSlackClient{errs: []error{errors.New("channel_not_found")}}
	s, _ := New(SinkOpts{ChannelID: "C1", Client: client})
	err := s.Send(context.Background(), notify.Record{Subject: "s"})
	if err == nil || !strings.Contains(err.Error(), "channel_not_found") {
		t.Errorf("err = %v", err)
	}
	if client.calls != 1 {
		t.Errorf("calls = %d, want 1", client.calls)
	}
}

func TestRecordToAttachment(t *testing.T) {
	rec := notify.Record{
		From:    identity.User{ID: 1, Name: "Ivan", Email: "ivan@example.com"},
		To:      identity.User{ID: 2, Name: "Maria"},
		Subject: "ID: 7 / Title: Atlas - deleted",
		Logs:    []string{"first", "second"},
		Color:   notify.ColorDanger,
	}
	att := recordToAttachment(rec)
	if att.Title != rec.Subject || att.Fallback != rec.Subject {
		t.Errorf("title = %q, fallback = %q", att.Title, att.Fallback)
	}
	if att.Text != "first\nsecond" {
		t.Errorf("text = %q", att.Text)
	}
	if att.Color != notify.ColorDanger {
		t.Errorf("color = %q", att.Color)
	}
	if len(att.Fields) != 2 || att.Fields[0].Value != "Ivan <ivan@example.com>" {
		t.Errorf("fields = %+v", att.Fields)
	}
}
