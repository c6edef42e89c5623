package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"skill-assess/internal/config"
	"skill-assess/internal/domain"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	declared   []string
	declareErr error
	publishErr error
	keys       []string
	published  []amqp.Publishing
	closed     bool
}

func (f *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	if f.declareErr != nil {
		return amqp.Queue{}, f.declareErr
	}
	f.declared = append(f.declared, name)
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestRabbitMQPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p, err := newPublisher(ch, "evaluation.completed")
	require.NoError(t, err)
	assert.Equal(t, []string{"evaluation.completed"}, ch.declared)

	event := domain.EvaluationCompletedEvent{
		SessionID:       "s1",
		Learner:         "alice",
		ItemName:        "Soudure",
		TotalQuestions:  4,
		CorrectAnswers:  3,
		ScorePercentage: 75,
		CompletedAt:     time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC),
	}
	require.NoError(t, p.PublishEvaluationCompleted(context.Background(), event))

	require.Len(t, ch.published, 1)
	msg := ch.published[0]
	assert.Equal(t, "evaluation.completed", ch.keys[0])
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, "s1", msg.MessageId)

	var decoded domain.EvaluationCompletedEvent
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, event, decoded)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestRabbitMQPublisher_Errors(t *testing.T) {
	_, err := newPublisher(&fakeChannel{declareErr: errors.New("access refused")}, "q")
	assert.ErrorContains(t, err, "access refused")

	p, err := newPublisher(&fakeChannel{publishErr: errors.New("channel closed")}, "q")
	require.NoError(t, err)
	err = p.PublishEvaluationCompleted(context.Background(), domain.EvaluationCompletedEvent{SessionID: "s1"})
	assert.ErrorContains(t, err, "s1")
}

func TestNewPublisher_NoBroker(t *testing.T) {
	p, err := NewPublisher(config.RabbitMQConfig{Queue: "q"})
	require.NoError(t, err)
	assert.IsType(t, NoopPublisher{}, p)
	assert.NoError(t, p.PublishEvaluationCompleted(context.Background(), domain.EvaluationCompletedEvent{}))
	assert.NoError(t, p.Close())
}
