// Package notify delivers change events to observers.
//
// Events carry a dot-separated topic. The editor publishes document changes
// under "document.<kind>" and the configuration watcher publishes reloads
// under "config". Observers subscribe to everything or to a topic prefix.
package notify

import (
	"strings"
	"sync"
)

// Well-known topics.
const (
	TopicDocument = "document"
	TopicConfig   = "config"
)

// Event is a single change notification.
type Event struct {
	// Topic is the dot-separated topic, e.g. "document.paste".
	Topic string

	// Value is the payload; its type depends on the topic.
	Value any

	// Source identifies the publisher.
	Source string
}

// Observer is called for each delivered event.
type Observer func(ev Event)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes this subscription. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

type subscriber struct {
	topic    string // empty matches everything
	observer Observer
}

// Notifier manages subscriptions and delivers events.
type Notifier struct {
	mu sync.RWMutex

	subs   map[uint64]subscriber
	nextID uint64

	// Asynchronous delivery
	async  bool
	buffer chan Event
	done   chan struct{}
	wg     sync.WaitGroup

	closed bool
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithAsync delivers events from a background goroutine through a buffer
// of the given size. Publish blocks when the buffer is full.
func WithAsync(bufferSize int) Option {
	return func(n *Notifier) {
		if bufferSize > 0 {
			n.async = true
			n.buffer = make(chan Event, bufferSize)
		}
	}
}

// New creates a new Notifier.
func New(opts ...Option) *Notifier {
	n := &Notifier{
		subs: make(map[uint64]subscriber),
		done: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.async {
		n.wg.Add(1)
		go n.processAsync()
	}
	return n
}

// Subscribe registers an observer for all events.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	return n.SubscribeTopic("", observer)
}

// SubscribeTopic registers an observer for a topic and its subtopics.
// Subscribing to "document" receives "document.paste".
func (n *Notifier) SubscribeTopic(topic string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.subs[id] = subscriber{topic: topic, observer: observer}
	return &Subscription{id: id, notifier: n}
}

// Publish sends ev to every matching observer. Events published after
// Close are dropped.
func (n *Notifier) Publish(ev Event) {
	n.mu.RLock()
	closed := n.closed
	n.mu.RUnlock()
	if closed {
		return
	}

	if n.async {
		select {
		case n.buffer <- ev:
		case <-n.done:
		}
		return
	}
	n.deliver(ev)
}

// Len returns the number of active subscriptions.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subs)
}

// Close shuts down the notifier, draining buffered events first.
// It is safe to call Close multiple times.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	n.mu.Unlock()

	close(n.done)
	n.wg.Wait()
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.subs, id)
}

func (n *Notifier) deliver(ev Event) {
	n.mu.RLock()
	var observers []Observer
	for _, s := range n.subs {
		if matches(s.topic, ev.Topic) {
			observers = append(observers, s.observer)
		}
	}
	n.mu.RUnlock()

	// Call observers outside the lock
	for _, obs := range observers {
		obs(ev)
	}
}

func (n *Notifier) processAsync() {
	defer n.wg.Done()

	for {
		select {
		case ev := <-n.buffer:
			n.deliver(ev)
		case <-n.done:
			for {
				select {
				case ev := <-n.buffer:
					n.deliver(ev)
				default:
					return
				}
			}
		}
	}
}

// matches reports whether topic equals want or is one of its subtopics.
func matches(want, topic string) bool {
	if want == "" || want == topic {
		return true
	}
	return strings.HasPrefix(topic, want) && topic[len(want)] == '.'
}
