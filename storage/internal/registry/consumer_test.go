package registry

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loghound-systems/loghound-stack/common/logging"
	"github.com/loghound-systems/loghound-stack/common/messaging"
	"github.com/loghound-systems/loghound-stack/common/paging"
	"github.com/loghound-systems/loghound-stack/storage/internal/models"
)

// fakeSubscriber records the queue subscription and lets tests deliver
// messages straight to the handler.
type fakeSubscriber struct {
	subject string
	queue   string
	handler messaging.MessageHandler
}

func (f *fakeSubscriber) Subscribe(subject string, handler messaging.MessageHandler) (messaging.Subscription, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeSubscriber) QueueSubscribe(subject, queue string, handler messaging.MessageHandler) (messaging.Subscription, error) {
	f.subject = subject
	f.queue = queue
	f.handler = handler
	return fakeSubscription{subject: subject}, nil
}

func (f *fakeSubscriber) Close() error { return nil }

type fakeSubscription struct{ subject string }

func (fakeSubscription) Unsubscribe() error { return nil }
func (s fakeSubscription) Subject() string  { return s.subject }
func (fakeSubscription) IsValid() bool      { return true }

// registryRepo only implements the calls the consumer makes.
type registryRepo struct {
	entries   []models.ModelEntry
	createErr error
}

func (r *registryRepo) CreateModel(_ context.Context, entry *models.ModelEntry) (int64, error) {
	if r.createErr != nil {
		return 0, r.createErr
	}
	entry.ID = int64(len(r.entries) + 1)
	r.entries = append(r.entries, *entry)
	return entry.ID, nil
}

func (r *registryRepo) InsertLog(context.Context, *models.BGLLog) (int64, error) { return 0, nil }
func (r *registryRepo) BulkInsertLogs(context.Context, []models.BGLLog) (int, error) {
	return 0, nil
}
func (r *registryRepo) GetLog(context.Context, int64) (*models.BGLLog, error) { return nil, nil }
func (r *registryRepo) ListLogs(context.Context, paging.Params, bool) ([]models.BGLLog, int, error) {
	return nil, 0, nil
}
func (r *registryRepo) BulkInsertVectors(context.Context, []models.EventVector) (int, error) {
	return 0, nil
}
func (r *registryRepo) ListVectors(context.Context, paging.Params, bool) ([]models.EventVector, int, error) {
	return nil, 0, nil
}
func (r *registryRepo) ReplaceTemplates(context.Context, []models.Template) (int, error) {
	return 0, nil
}
func (r *registryRepo) ListTemplates(context.Context) ([]models.Template, error) { return nil, nil }
func (r *registryRepo) ListModels(context.Context) ([]models.ModelEntry, error)  { return nil, nil }
func (r *registryRepo) Ping(context.Context) error                               { return nil }
func (r *registryRepo) Close()                                                   {}

func TestConsumerRecordsTrainedModel(t *testing.T) {
	repo := &registryRepo{}
	sub := &fakeSubscriber{}
	consumer := NewConsumer(repo, logging.Default())

	require.NoError(t, consumer.Start(sub))
	defer consumer.Stop()

	assert.Equal(t, messaging.SubjectModelsTrained, sub.subject)
	assert.Equal(t, messaging.QueueRegistryWriters, sub.queue)

	payload, err := json.Marshal(trainedEvent{
		Name:      "ocsvm_raw_vectors",
		Version:   "0198f2a0-7b1c-7def-8000-0123456789ab",
		Path:      "/models/ocsvm_raw_vectors.gob",
		Rows:      1200,
		Dim:       64,
		Notes:     "rows=1200 dim=64",
		TrainedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	err = sub.handler(context.Background(), &messaging.Message{
		Subject: messaging.SubjectModelsTrained,
		Data:    payload,
	})
	require.NoError(t, err)

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	assert.Equal(t, "ocsvm_raw_vectors", entry.Name)
	assert.Equal(t, "/models/ocsvm_raw_vectors.gob", entry.Path)
	assert.Equal(t, "rows=1200 dim=64", entry.Notes)
}

func TestConsumerDropsMalformedEvent(t *testing.T) {
	repo := &registryRepo{}
	sub := &fakeSubscriber{}
	consumer := NewConsumer(repo, logging.Default())
	require.NoError(t, consumer.Start(sub))
	defer consumer.Stop()

	// Garbage is logged and dropped, never retried.
	err := sub.handler(context.Background(), &messaging.Message{Data: []byte("{not json")})
	assert.NoError(t, err)
	assert.Empty(t, repo.entries)
}

func TestConsumerPropagatesWriteFailure(t *testing.T) {
	repo := &registryRepo{createErr: errors.New("connection reset")}
	sub := &fakeSubscriber{}
	consumer := NewConsumer(repo, logging.Default())
	require.NoError(t, consumer.Start(sub))
	defer consumer.Stop()

	payload, err := json.Marshal(trainedEvent{Name: "ocsvm_text", Version: "v1", Path: "/models/a.gob"})
	require.NoError(t, err)

	err = sub.handler(context.Background(), &messaging.Message{Data: payload})
	assert.Error(t, err)
}
