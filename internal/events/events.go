// Package events publishes object lifecycle events. Publication is
// synchronous and best-effort: a failed publish is reported to the caller
// but never undoes the committed change.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
)

// SubjectPrefix is the root of every subject published by the service.
const SubjectPrefix = "infra.objects"

// Type names a lifecycle event.
type Type string

const (
	TypeCreated           Type = "created"
	TypeUpdated           Type = "updated"
	TypeStatusChanged     Type = "status_changed"
	TypeDeactivated       Type = "deactivated"
	TypeConflictsAnalyzed Type = "conflicts_analyzed"
)

// Event is the payload published for a committed change.
type Event struct {
	ID        string         `json:"id"`
	Type      Type           `json:"type"`
	TenantID  string         `json:"tenant_id"`
	PlanID    string         `json:"plan_id,omitempty"`
	ObjectID  string         `json:"object_id,omitempty"`
	Status    string         `json:"status,omitempty"`
	Actor     string         `json:"actor"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

func token(s string) string {
	if s == "" {
		return "_"
	}
	return strings.NewReplacer(".", "_", "*", "_", ">", "_", " ", "_").Replace(s)
}

// Subject returns the subject an event is published on:
// infra.objects.<tenant>.<type>.
func Subject(tenantID string, t Type) string {
	return fmt.Sprintf("%s.%s.%s", SubjectPrefix, token(tenantID), t)
}

func prepare(e *Event) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
}

// NATSPublisher publishes events on a core NATS connection.
type NATSPublisher struct {
	nc     *nats.Conn
	logger *slog.Logger
}

// Connect dials url and returns a publisher that owns the connection.
func Connect(url string, logger *slog.Logger) (*NATSPublisher, error) {
	logger = logger.With("module", "events")
	nc, err := nats.Connect(url,
		nats.Name("infra-object-service"),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to NATS")
	}
	return &NATSPublisher{nc: nc, logger: logger}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	prepare(&e)
	payload, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}
	msg := nats.NewMsg(Subject(e.TenantID, e.Type))
	msg.Header.Set(nats.MsgIdHdr, e.ID)
	msg.Data = payload
	if err := p.nc.PublishMsg(msg); err != nil {
		return errors.Wrapf(err, "publish %s", msg.Subject)
	}
	return nil
}

// Close drains the connection.
func (p *NATSPublisher) Close() error {
	return p.nc.Drain()
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	Err    error
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	prepare(&e)
	r.events = append(r.events, e)
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// OfType returns the recorded events of type t.
func (r *Recorder) OfType(t Type) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
