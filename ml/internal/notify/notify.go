// Package notify publishes model lifecycle events to the message bus so
// the storage registry can record trained models. Publishing is
// best-effort: a failed or dropped notification is logged and otherwise
// ignored, because the model artifact on disk is the source of truth.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/loghound-systems/loghound-stack/common/logging"
	"github.com/loghound-systems/loghound-stack/common/messaging"
)

// ModelTrained is the payload published on messaging.SubjectModelsTrained.
type ModelTrained struct {
	Name      string    `json:"name"`
	Version   string    `json:"version"`
	Path      string    `json:"path"`
	Rows      int       `json:"rows"`
	Dim       int       `json:"dim"`
	Notes     string    `json:"notes,omitempty"`
	TrainedAt time.Time `json:"trained_at"`
}

// Notifier publishes training events. A nil publisher disables
// notification entirely, which keeps the service usable without a
// broker.
type Notifier struct {
	pub    messaging.Publisher
	logger *logging.Logger
}

func New(pub messaging.Publisher, logger *logging.Logger) *Notifier {
	return &Notifier{pub: pub, logger: logger}
}

// ModelTrained announces a freshly persisted model. The version is a
// time-ordered UUID so registry rows sort in training order.
func (n *Notifier) ModelTrained(ctx context.Context, name, path, notes string, rows, dim int) {
	if n == nil || n.pub == nil {
		return
	}

	version, err := uuid.NewV7()
	if err != nil {
		version = uuid.New()
	}

	event := ModelTrained{
		Name:      name,
		Version:   version.String(),
		Path:      path,
		Rows:      rows,
		Dim:       dim,
		Notes:     notes,
		TrainedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		n.logger.ErrorContext(ctx, "marshal model trained event", logging.Error(err))
		return
	}

	if err := n.pub.Publish(ctx, messaging.SubjectModelsTrained, data); err != nil {
		n.logger.WarnContext(ctx, "publish model trained event",
			logging.Model(name), logging.Error(err))
	}
}
