package notify

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/relloyd/costpipe/constants"
	"github.com/relloyd/costpipe/costbyeq"
	"github.com/relloyd/costpipe/logger"
)

const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Publisher is the part of *nats.Conn used to send messages.
type Publisher interface {
	Publish(subj string, data []byte) error
}

// RunMessage is the payload published after each run.
type RunMessage struct {
	Status  string           `json:"status"`
	Error   string           `json:"error,omitempty"`
	Summary costbyeq.Summary `json:"summary"`
}

// Notifier publishes run results to a subject.
type Notifier struct {
	Log     logger.Logger
	Conn    Publisher
	Subject string
	close   func()
}

// NewNatsNotifier connects to the NATS server at url.
// An empty subject uses the default run subject.
func NewNatsNotifier(log logger.Logger, url string, subject string) (*Notifier, error) {
	nc, err := nats.Connect(url,
		nats.Name(constants.AppName),
		nats.Timeout(10*time.Second),
		nats.MaxReconnects(5),
		nats.ReconnectWait(time.Second))
	if err != nil {
		return nil, errors.Wrapf(err, "unable to connect to NATS at %v", url)
	}
	n := NewNotifier(log, nc, subject)
	n.close = nc.Close
	return n, nil
}

func NewNotifier(log logger.Logger, p Publisher, subject string) *Notifier {
	if subject == "" {
		subject = constants.CostByEqNotifySubject
	}
	return &Notifier{Log: log, Conn: p, Subject: subject}
}

// NotifyRun publishes the summary and error, if any, of a run.
func (n *Notifier) NotifyRun(s costbyeq.Summary, runErr error) error {
	m := RunMessage{Status: StatusSucceeded, Summary: s}
	if runErr != nil {
		m.Status = StatusFailed
		m.Error = runErr.Error()
	}
	b, err := json.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "unable to marshal run message")
	}
	if err = n.Conn.Publish(n.Subject, b); err != nil {
		return errors.Wrapf(err, "unable to publish run message to subject %v", n.Subject)
	}
	n.Log.Debug("published run ", s.RunID, " to subject ", n.Subject)
	return nil
}

// Close closes the connection opened by NewNatsNotifier.
func (n *Notifier) Close() {
	if n.close != nil {
		n.close()
	}
}
