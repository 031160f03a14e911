package amqp

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finboard/internal/core"
)

type fakeChannel struct {
	published  []amqp091.Publishing
	keys       []string
	publishErr error
	deliveries chan amqp091.Delivery
	closed     bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp091.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Consume(string, string, bool, bool, bool, bool, amqp091.Table) (<-chan amqp091.Delivery, error) {
	return f.deliveries, nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

type ackRecorder struct {
	mu       sync.Mutex
	acks     int
	requeued int
	dropped  int
}

func (a *ackRecorder) Ack(uint64, bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acks++
	return nil
}

func (a *ackRecorder) Nack(_ uint64, _ bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if requeue {
		a.requeued++
	} else {
		a.dropped++
	}
	return nil
}

func (a *ackRecorder) Reject(uint64, bool) error { return nil }

func overspent() core.Budget {
	return core.Budget{
		ID:              "b1",
		Name:            "Food",
		Amount:          decimal.NewFromInt(200),
		Limit:           decimal.NewFromInt(150),
		CurrentSpending: decimal.NewFromInt(180),
	}
}

func TestNewBudgetAlertMessage(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	msg := NewBudgetAlertMessage(overspent(), now)

	assert.Equal(t, "b1", msg.BudgetID)
	assert.Equal(t, 100.0, msg.Percent)
	assert.Equal(t, "100.0%", msg.Label)
	assert.Equal(t, now, msg.Timestamp)

	b := overspent()
	b.Name = ""
	assert.Equal(t, core.UnnamedBudget, NewBudgetAlertMessage(b, now).Name)
}

func TestPublishBudgetAlert(t *testing.T) {
	ch := &fakeChannel{}
	c := newClient(ch, "finboard", "budget_alerts", nil)

	err := c.PublishBudgetAlert(context.Background(), NewBudgetAlertMessage(overspent(), time.Now()))
	require.NoError(t, err)

	require.Len(t, ch.published, 1)
	assert.Equal(t, "budget_alerts", ch.keys[0])
	assert.Equal(t, amqp091.Persistent, ch.published[0].DeliveryMode)
	assert.Equal(t, "application/json", ch.published[0].ContentType)

	decoded, err := BudgetAlertMessageFromJSON(ch.published[0].Body)
	require.NoError(t, err)
	assert.Equal(t, "Food", decoded.Name)
	assert.True(t, decoded.CurrentSpending.Equal(decimal.NewFromInt(180)))
}

func TestPublishBudgetAlert_Error(t *testing.T) {
	ch := &fakeChannel{publishErr: errors.New("channel closed")}
	c := newClient(ch, "finboard", "budget_alerts", nil)

	err := c.PublishBudgetAlert(context.Background(), NewBudgetAlertMessage(overspent(), time.Now()))
	assert.ErrorContains(t, err, "channel closed")
}

func TestConsumeBudgetAlerts(t *testing.T) {
	ch := &fakeChannel{deliveries: make(chan amqp091.Delivery, 3)}
	acks := &ackRecorder{}
	c := newClient(ch, "finboard", "budget_alerts", nil)

	good, _ := NewBudgetAlertMessage(overspent(), time.Now()).ToJSON()
	ch.deliveries <- amqp091.Delivery{Acknowledger: acks, Body: good}
	ch.deliveries <- amqp091.Delivery{Acknowledger: acks, Body: []byte("not json")}
	ch.deliveries <- amqp091.Delivery{Acknowledger: acks, Body: good}
	close(ch.deliveries)

	calls := 0
	err := c.ConsumeBudgetAlerts(context.Background(), func(_ context.Context, msg *BudgetAlertMessage) error {
		calls++
		if calls == 2 {
			return errors.New("handler failed")
		}
		assert.Equal(t, "b1", msg.BudgetID)
		return nil
	})

	assert.ErrorContains(t, err, "message channel closed")
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, acks.acks)
	assert.Equal(t, 1, acks.requeued)
	assert.Equal(t, 1, acks.dropped)
}

func TestConsumeBudgetAlerts_StopsOnCancel(t *testing.T) {
	ch := &fakeChannel{deliveries: make(chan amqp091.Delivery)}
	c := newClient(ch, "finboard", "budget_alerts", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.ConsumeBudgetAlerts(ctx, func(context.Context, *BudgetAlertMessage) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClose(t *testing.T) {
	ch := &fakeChannel{}
	c := newClient(ch, "x", "y", nil)
	require.NoError(t, c.Close())
	assert.True(t, ch.closed)
}
