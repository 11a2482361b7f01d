package event_bus

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Topic identifies a kind of notification.
type Topic string

// Message is the envelope delivered to subscribers. Payload is kept as any so
// that one bus can carry every notification type.
type Message struct {
	ctx       context.Context
	Topic     Topic
	Timestamp time.Time
	Payload   any
}

func NewMessage(ctx context.Context, topic Topic, payload any) Message {
	return Message{
		ctx:       ctx,
		Topic:     topic,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

func (m Message) Context() context.Context {
	if m.ctx == nil {
		return context.Background()
	}
	return m.ctx
}

// TypedMessage is what typed subscribers receive.
type TypedMessage[T any] struct {
	ctx       context.Context
	Topic     Topic
	Timestamp time.Time
	Payload   T
}

func (m TypedMessage[T]) Context() context.Context {
	if m.ctx == nil {
		return context.Background()
	}
	return m.ctx
}

type subscriber func(Message) error

// EventBus is a synchronous dispatcher safe for concurrent use. Subscribers
// run one after another, in subscription order, inside Publish.
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[Topic]map[uint64]subscriber
	nextID      uint64
}

func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[Topic]map[uint64]subscriber),
	}
}

// Subscribe registers fn for topic and returns a function removing it again.
func (eb *EventBus) Subscribe(topic Topic, fn func(Message) error) (unsubscribe func()) {
	eb.mu.Lock()
	eb.nextID++
	id := eb.nextID
	if eb.subscribers[topic] == nil {
		eb.subscribers[topic] = make(map[uint64]subscriber)
	}
	eb.subscribers[topic][id] = fn
	eb.mu.Unlock()

	return func() {
		eb.mu.Lock()
		defer eb.mu.Unlock()
		if subs := eb.subscribers[topic]; subs != nil {
			delete(subs, id)
			if len(subs) == 0 {
				delete(eb.subscribers, topic)
			}
		}
	}
}

// SubscribeTyped registers fn for messages whose payload is a T. Messages
// carrying anything else are skipped.
//
//	event_bus.SubscribeTyped(bus, event_bus.TopicEventCreated,
//	    func(m event_bus.TypedMessage[event_bus.EventCreated]) error {
//	        log.Infof("created %s", m.Payload.Title)
//	        return nil
//	    })
func SubscribeTyped[T any](eb *EventBus, topic Topic, fn func(TypedMessage[T]) error) (unsubscribe func()) {
	return eb.Subscribe(topic, func(m Message) error {
		payload, ok := m.Payload.(T)
		if !ok {
			log.Debugf("EventBus: skipping %s, expected %T payload, got %T", topic, *new(T), m.Payload)
			return nil
		}
		return fn(TypedMessage[T]{
			ctx:       m.ctx,
			Topic:     m.Topic,
			Timestamp: m.Timestamp,
			Payload:   payload,
		})
	})
}

// Publish delivers m to every subscriber of m.Topic. A failing or panicking
// subscriber does not stop the others; all failures are joined into the
// returned error. A cancelled context stops delivery.
func (eb *EventBus) Publish(m Message) error {
	if err := m.Context().Err(); err != nil {
		return fmt.Errorf("publish %s: %w", m.Topic, err)
	}

	eb.mu.RLock()
	ids := make([]uint64, 0, len(eb.subscribers[m.Topic]))
	subs := make(map[uint64]subscriber, len(eb.subscribers[m.Topic]))
	for id, s := range eb.subscribers[m.Topic] {
		ids = append(ids, id)
		subs[id] = s
	}
	eb.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var errs []error
	for _, id := range ids {
		if err := m.Context().Err(); err != nil {
			errs = append(errs, fmt.Errorf("delivery of %s interrupted: %w", m.Topic, err))
			break
		}
		if err := deliver(id, subs[id], m); err != nil {
			log.Errorf("EventBus: subscriber %d failed on %s: %v", id, m.Topic, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func deliver(id uint64, s subscriber, m Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("subscriber %d panicked on %s: %v", id, m.Topic, r)
		}
	}()
	return s(m)
}
