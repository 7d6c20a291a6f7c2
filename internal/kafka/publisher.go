package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ariefcatur/go-course-market/internal/events"
	"github.com/segmentio/kafka-go"
)

const (
	HeaderEventType    = "x-event-type"
	HeaderEventVersion = "x-event-version"
)

// Publisher sends envelopes through a Producer, keyed by device id so the
// events of one device stay in order.
type Publisher struct {
	Producer *Producer
}

func (p Publisher) Publish(ctx context.Context, deviceID string, ev events.Envelope) error {
	msg, err := EncodeEnvelope(deviceID, ev)
	if err != nil {
		return err
	}
	return p.Producer.Publish(ctx, msg.Topic, msg.Key, msg.Value, msg.Headers...)
}

// EncodeEnvelope builds the message for ev without sending it.
func EncodeEnvelope(deviceID string, ev events.Envelope) (kafka.Message, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode envelope: %w", err)
	}
	return kafka.Message{
		Topic: events.TopicFor(ev.EventType),
		Key:   []byte(deviceID),
		Value: b,
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(ev.EventType)},
			{Key: HeaderEventVersion, Value: []byte(strconv.Itoa(ev.EventVersion))},
		},
	}, nil
}

func DecodeEnvelope(m kafka.Message) (events.Envelope, error) {
	var ev events.Envelope
	if err := json.Unmarshal(m.Value, &ev); err != nil {
		return events.Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return ev, nil
}

// Header returns the value of header key, or "".
func Header(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
