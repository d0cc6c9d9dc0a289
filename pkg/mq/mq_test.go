package mq

import (
	"context"
	"errors"
	"sync"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChannel 记录调用的内存Channel
type fakeChannel struct {
	mu         sync.Mutex
	exchanges  map[string]string
	bindings   []string
	published  []amqp.Publishing
	keys       []string
	deliveries chan amqp.Delivery
	publishErr error
	closed     bool
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{
		exchanges:  map[string]string{},
		deliveries: make(chan amqp.Delivery, 16),
	}
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	f.exchanges[name] = kind
	return nil
}

func (f *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error {
	f.bindings = append(f.bindings, exchange+":"+key+"->"+name)
	return nil
}

func (f *fakeChannel) Qos(prefetchCount, prefetchSize int, global bool) error { return nil }

func (f *fakeChannel) Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error) {
	return f.deliveries, nil
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, msg)
	f.keys = append(f.keys, key)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

// fakeAcker 记录Ack/Nack
type fakeAcker struct {
	acked    []uint64
	nacked   []uint64
	requeued []bool
}

func (a *fakeAcker) Ack(tag uint64, multiple bool) error {
	a.acked = append(a.acked, tag)
	return nil
}

func (a *fakeAcker) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked = append(a.nacked, tag)
	a.requeued = append(a.requeued, requeue)
	return nil
}

func (a *fakeAcker) Reject(tag uint64, requeue bool) error { return nil }

type testEvent struct {
	BookID uint   `json:"bookId"`
	Action string `json:"action"`
}

func TestPublisher_Publish(t *testing.T) {
	ch := newFakeChannel()
	p, err := NewPublisherWithChannel(ch, "library.events", "topic", nil)
	require.NoError(t, err)
	assert.Equal(t, "topic", ch.exchanges["library.events"])

	err = p.Publish(context.Background(), "book.borrowed", testEvent{BookID: 1, Action: "borrowed"})
	require.NoError(t, err)

	require.Len(t, ch.published, 1)
	msg := ch.published[0]
	assert.Equal(t, "book.borrowed", ch.keys[0])
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.NotEmpty(t, msg.MessageId)
	assert.JSONEq(t, `{"bookId":1,"action":"borrowed"}`, string(msg.Body))

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestPublisher_PublishError(t *testing.T) {
	ch := newFakeChannel()
	ch.publishErr = amqp.ErrClosed
	p, err := NewPublisherWithChannel(ch, "library.events", "topic", nil)
	require.NoError(t, err)

	err = p.Publish(context.Background(), "book.borrowed", testEvent{BookID: 1})
	assert.ErrorIs(t, err, amqp.ErrClosed)
}

func TestConsumer_Consume(t *testing.T) {
	ch := newFakeChannel()
	c, err := NewConsumerWithChannel(ch, "library.events", "topic", "library.audit", []string{"book.*"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"library.events:book.*->library.audit"}, ch.bindings)

	acker := &fakeAcker{}
	ch.deliveries <- amqp.Delivery{Acknowledger: acker, DeliveryTag: 1, RoutingKey: "book.borrowed", Body: []byte(`{"bookId":1}`)}
	ch.deliveries <- amqp.Delivery{Acknowledger: acker, DeliveryTag: 2, RoutingKey: "book.borrowed", Body: []byte(`bad`)}
	ch.deliveries <- amqp.Delivery{Acknowledger: acker, DeliveryTag: 3, RoutingKey: "book.borrowed", Body: []byte(`bad`), Redelivered: true}
	close(ch.deliveries)

	var got []uint
	err = c.Consume(context.Background(), func(ctx context.Context, routingKey string, body []byte) error {
		var ev testEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return err
		}
		got = append(got, ev.BookID)
		return nil
	})

	assert.True(t, errors.Is(err, ErrChannelClosed))
	assert.Equal(t, []uint{1}, got)
	assert.Equal(t, []uint64{1}, acker.acked)
	assert.Equal(t, []uint64{2, 3}, acker.nacked)
	// 首次失败重新入队，重复投递失败直接丢弃
	assert.Equal(t, []bool{true, false}, acker.requeued)
}

func TestConsumer_StopsOnContextCancel(t *testing.T) {
	ch := newFakeChannel()
	c, err := NewConsumerWithChannel(ch, "library.events", "topic", "library.audit", []string{"book.#"}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = c.Consume(ctx, func(ctx context.Context, routingKey string, body []byte) error { return nil })
	assert.NoError(t, err)
}
