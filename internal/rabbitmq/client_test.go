package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/GoArmGo/SalesApp/internal/domain"
	"github.com/GoArmGo/SalesApp/internal/logger"
	"github.com/GoArmGo/SalesApp/internal/messaging/payloads"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAcknowledger struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (a *fakeAcknowledger) Ack(uint64, bool) error {
	a.acked = true
	return nil
}

func (a *fakeAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked, a.requeue = true, requeue
	return nil
}

func (a *fakeAcknowledger) Reject(_ uint64, requeue bool) error {
	a.nacked, a.requeue = true, requeue
	return nil
}

func delivery(t *testing.T, ack *fakeAcknowledger, body []byte) amqp.Delivery {
	t.Helper()
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: body}
}

func TestHandleDelivery(t *testing.T) {
	event := payloads.NewSaleEvent(payloads.SaleCreated, domain.Sale{ID: 3, TotalValue: 7.5})
	body, err := json.Marshal(event)
	require.NoError(t, err)

	t.Run("ack on success", func(t *testing.T) {
		ack := &fakeAcknowledger{}
		var got payloads.SaleEvent
		handleDelivery(context.Background(), delivery(t, ack, body), func(_ context.Context, e payloads.SaleEvent) error {
			got = e
			return nil
		}, logger.Discard())

		assert.True(t, ack.acked)
		assert.False(t, ack.nacked)
		assert.Equal(t, event.ID, got.ID)
		assert.Equal(t, 7.5, got.Sale.TotalValue)
	})

	t.Run("requeue on handler error", func(t *testing.T) {
		ack := &fakeAcknowledger{}
		handleDelivery(context.Background(), delivery(t, ack, body), func(context.Context, payloads.SaleEvent) error {
			return errors.New("s3 down")
		}, logger.Discard())

		assert.True(t, ack.nacked)
		assert.True(t, ack.requeue)
	})

	t.Run("drop malformed body", func(t *testing.T) {
		ack := &fakeAcknowledger{}
		called := false
		handleDelivery(context.Background(), delivery(t, ack, []byte("{oops")), func(context.Context, payloads.SaleEvent) error {
			called = true
			return nil
		}, logger.Discard())

		assert.False(t, called)
		assert.True(t, ack.nacked)
		assert.False(t, ack.requeue)
	})
}

func TestConsumeFinishesInFlightDelivery(t *testing.T) {
	body, err := json.Marshal(payloads.NewSaleEvent(payloads.SaleUpdated, domain.Sale{ID: 9}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	msgs := make(chan amqp.Delivery, 1)
	done := make(chan struct{})
	started := make(chan struct{})
	release := make(chan struct{})
	ack := &fakeAcknowledger{}
	var handlerErr error

	go consume(ctx, msgs, func(hctx context.Context, _ payloads.SaleEvent) error {
		close(started)
		<-release
		handlerErr = hctx.Err()
		return nil
	}, logger.Discard(), done)

	msgs <- delivery(t, ack, body)
	<-started
	cancel()

	select {
	case <-done:
		t.Fatal("consumer stopped before the delivery was acknowledged")
	default:
	}

	close(release)
	<-done
	assert.True(t, ack.acked)
	assert.NoError(t, handlerErr)
}

func TestConsumeStopsWhenDeliveriesClose(t *testing.T) {
	msgs := make(chan amqp.Delivery)
	done := make(chan struct{})
	close(msgs)

	consume(context.Background(), msgs, func(context.Context, payloads.SaleEvent) error { return nil }, logger.Discard(), done)

	_, open := <-done
	assert.False(t, open)
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.PublishSaleEvent(context.Background(), payloads.SaleEvent{}))
}
