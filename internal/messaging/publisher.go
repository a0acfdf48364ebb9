package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// AssessmentEvent is published after every stored assessment.
type AssessmentEvent struct {
	AssessmentID string    `json:"assessmentId"`
	Kind         string    `json:"kind"`
	Score        int       `json:"score"`
	Category     string    `json:"category"`
	Fingerprint  string    `json:"fingerprint"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Publisher wraps a kafka-go writer for assessment events.
type Publisher struct {
	mu      sync.Mutex
	writer  *kafkago.Writer
	brokers []string
	topic   string
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{brokers: brokers, topic: topic}
}

// PublishAssessment sends one event keyed by assessment id.
func (p *Publisher) PublishAssessment(ctx context.Context, ev AssessmentEvent) error {
	msg, err := toMessage(ev)
	if err != nil {
		return err
	}
	if err := p.getOrCreateWriter().WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka publish to %s: %w", p.topic, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.writer == nil {
		return nil
	}
	err := p.writer.Close()
	p.writer = nil
	if err != nil {
		return fmt.Errorf("closing writer for topic %s: %w", p.topic, err)
	}
	return nil
}

func toMessage(ev AssessmentEvent) (kafkago.Message, error) {
	value, err := json.Marshal(ev)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("failed to encode event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(ev.AssessmentID),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "kind", Value: []byte(ev.Kind)},
		},
	}, nil
}

// getOrCreateWriter lazily creates the topic writer.
func (p *Publisher) getOrCreateWriter() *kafkago.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.writer == nil {
		p.writer = &kafkago.Writer{
			Addr:         kafkago.TCP(p.brokers...),
			Topic:        p.topic,
			Balancer:     &kafkago.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: kafkago.RequireAll,
		}
	}
	return p.writer
}
