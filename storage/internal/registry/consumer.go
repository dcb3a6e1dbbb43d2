// Package registry records trained-model announcements from the
// message bus into the models table. Consumers share a queue group so
// each announcement is written once even with several storage replicas.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/loghound-systems/loghound-stack/common/logging"
	"github.com/loghound-systems/loghound-stack/common/messaging"
	"github.com/loghound-systems/loghound-stack/storage/internal/models"
	"github.com/loghound-systems/loghound-stack/storage/internal/repository"
)

// trainedEvent mirrors the payload published on models.trained.
type trainedEvent struct {
	Name      string    `json:"name"`
	Version   string    `json:"version"`
	Path      string    `json:"path"`
	Rows      int       `json:"rows"`
	Dim       int       `json:"dim"`
	Notes     string    `json:"notes"`
	TrainedAt time.Time `json:"trained_at"`
}

// Consumer subscribes to model lifecycle events.
type Consumer struct {
	repo   repository.Repository
	logger *logging.Logger
	sub    messaging.Subscription
}

func NewConsumer(repo repository.Repository, logger *logging.Logger) *Consumer {
	return &Consumer{repo: repo, logger: logger}
}

// Start begins consuming in the registry-writers queue group.
func (c *Consumer) Start(sub messaging.Subscriber) error {
	s, err := sub.QueueSubscribe(messaging.SubjectModelsTrained, messaging.QueueRegistryWriters, c.handle)
	if err != nil {
		return fmt.Errorf("registry: subscribe: %w", err)
	}
	c.sub = s
	return nil
}

// Stop unsubscribes; in-flight handlers finish on their own.
func (c *Consumer) Stop() {
	if c.sub != nil {
		_ = c.sub.Unsubscribe()
	}
}

func (c *Consumer) handle(ctx context.Context, msg *messaging.Message) error {
	var event trainedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		// A malformed event is dropped, not retried.
		c.logger.WarnContext(ctx, "malformed model trained event", logging.Error(err))
		return nil
	}

	entry := &models.ModelEntry{
		Name:    event.Name,
		Version: event.Version,
		Path:    event.Path,
		Notes:   event.Notes,
	}
	if _, err := c.repo.CreateModel(ctx, entry); err != nil {
		c.logger.ErrorContext(ctx, "record trained model",
			logging.Model(event.Name), logging.Error(err))
		return err
	}

	c.logger.InfoContext(ctx, "recorded trained model",
		logging.Model(event.Name), "version", event.Version)
	return nil
}
