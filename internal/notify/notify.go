// Package notify delivers workflow notifications (revert, delete, digest) to
// station operators over a chat platform or the log.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang/glog"
	"github.com/zulandar/pressyard/internal/identity"
)

// Sidebar colors of the chat renderings.
const (
	ColorWarning = "#E8A33D"
	ColorDanger  = "#D9534F"
	ColorInfo    = "#4C6ECE"
)

// Record is one notification addressed to one user.
type Record struct {
	From    identity.User `json:"from"`
	To      identity.User `json:"to"`
	Subject string        `json:"subject"`
	Logs    []string      `json:"logs"`
	Color   string        `json:"color,omitempty"`
}

// Body joins the log lines of the record.
func (r Record) Body() string {
	return strings.Join(r.Logs, "\n")
}

// Field is a labelled value shown beside the body.
type Field struct {
	Name  string
	Value string
}

// Fields returns the sender and recipient labels of the record.
func (r Record) Fields() []Field {
	return []Field{
		{Name: "From", Value: party(r.From)},
		{Name: "To", Value: party(r.To)},
	}
}

func party(u identity.User) string {
	if u.Email == "" {
		return u.Name
	}
	return fmt.Sprintf("%s <%s>", u.Name, u.Email)
}

// Sink delivers records.
type Sink interface {
	Send(ctx context.Context, rec Record) error
}

// SendAll delivers every record and returns the first error. Delivery
// continues past failures.
func SendAll(ctx context.Context, sink Sink, recs []Record) error {
	var first error
	for _, rec := range recs {
		if err := sink.Send(ctx, rec); err != nil {
			glog.Warningf("notify: %q to %s: %v", rec.Subject, party(rec.To), err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

// LogSink writes records to the log.
type LogSink struct{}

// Send logs the record.
func (LogSink) Send(_ context.Context, rec Record) error {
	glog.Infof("notify: %s -> %s: %s: %s", party(rec.From), party(rec.To), rec.Subject, strings.Join(rec.Logs, " | "))
	return nil
}
