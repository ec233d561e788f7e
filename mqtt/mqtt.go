// mqtt.go - Publishes journal/record lifecycle events to an MQTT broker
//
// Events only carry ids and a timestamp; entry content never leaves the
// database. Publishing is best effort: failures are logged and swallowed.

package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"

	"go-journal-backend/config"
)

const (
	KindJournal = "journal"
	KindRecord  = "record"

	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"

	qosAtLeastOnce    = 1
	publishTimeout    = 2 * time.Second
	connectTimeout    = 5 * time.Second
	disconnectQuiesce = 250 // ms
)

type Event struct {
	Kind    string    `json:"-"`
	Action  string    `json:"-"`
	Name    string    `json:"event"`
	UserID  string    `json:"userId"`
	EntryID string    `json:"entryId"`
	At      time.Time `json:"at"`
}

// NewEvent builds an event stamped with the current time.
func NewEvent(kind, action, userID, entryID string) Event {
	return Event{
		Kind:    kind,
		Action:  action,
		Name:    kind + "." + action,
		UserID:  userID,
		EntryID: entryID,
		At:      time.Now().UTC(),
	}
}

// Publisher is what handlers depend on.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
	Close()
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
func (Nop) Close()                         {}

// conn is the subset of paho.Client we use.
type conn interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Disconnect(quiesce uint)
}

type Client struct {
	conn    conn
	prefix  string
	timeout time.Duration
	log     *logrus.Logger
}

// New returns Nop when cfg has no broker, otherwise a connected Client.
func New(cfg config.MQTT, log *logrus.Logger) (Publisher, error) {
	if cfg.Broker == "" {
		return Nop{}, nil
	}
	c, err := Connect(cfg, log)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func Connect(cfg config.MQTT, log *logrus.Logger) (*Client, error) {
	const op = "mqtt.Connect"

	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.WithError(err).Warn("mqtt connection lost")
		})

	c := paho.NewClient(opts)
	tok := c.Connect()
	if !tok.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("%s: timed out connecting to %s", op, cfg.Broker)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.WithField("broker", cfg.Broker).Info("connected to mqtt broker")
	return newClient(c, cfg.TopicPrefix, log), nil
}

func newClient(c conn, prefix string, log *logrus.Logger) *Client {
	return &Client{conn: c, prefix: prefix, timeout: publishTimeout, log: log}
}

// Topic is <prefix>/users/<userId>/<kind>.
func (c *Client) Topic(ev Event) string {
	return fmt.Sprintf("%s/users/%s/%s", c.prefix, ev.UserID, ev.Kind)
}

func (c *Client) Publish(ctx context.Context, ev Event) {
	entry := c.log.WithFields(logrus.Fields{"event": ev.Name, "user_id": ev.UserID, "entry_id": ev.EntryID})

	if err := c.publish(ctx, ev); err != nil {
		entry.WithError(err).Warn("failed to publish event")
		return
	}
	entry.Debug("event published")
}

func (c *Client) publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	tok := c.conn.Publish(c.Topic(ev), qosAtLeastOnce, false, payload)

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case <-tok.Done():
		return tok.Error()
	case <-timer.C:
		return errors.New("publish timed out")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) Close() {
	c.conn.Disconnect(disconnectQuiesce)
}
