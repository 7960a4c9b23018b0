package eventbus_test

import (
	"context"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sharvarianand/tasktuner/internal/shared/infrastructure/eventbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRabbitMQPublisher_Integration(t *testing.T) {
	url := os.Getenv("TEST_RABBITMQ_URL")
	if url == "" {
		t.Skip("TEST_RABBITMQ_URL not set")
	}

	exchange := "tasktuner.test.events"
	publisher, err := eventbus.NewRabbitMQPublisher(eventbus.RabbitMQConfig{URL: url, Exchange: exchange, AppID: "tasktuner-test"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = publisher.Close() })

	conn, err := amqp.Dial(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	ch, err := conn.Channel()
	require.NoError(t, err)

	queue, err := ch.QueueDeclare("", false, true, true, false, nil)
	require.NoError(t, err)
	require.NoError(t, ch.QueueBind(queue.Name, "productivity.tasks.#", exchange, false, nil))
	deliveries, err := ch.Consume(queue.Name, "", true, true, false, false, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	event := newRankedEvent()
	require.NoError(t, eventbus.PublishEvent(ctx, publisher, event))

	select {
	case d := <-deliveries:
		assert.Equal(t, "application/json", d.ContentType)
		assert.Equal(t, "productivity.tasks.prioritized", d.RoutingKey)
		assert.Equal(t, "tasktuner-test", d.AppId)
		assert.Contains(t, string(d.Body), event.EventID().String())
	case <-ctx.Done():
		t.Fatal("no message received")
	}
}
