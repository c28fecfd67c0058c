package diagnostics

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPProbe dials the broker and opens a channel.
type AMQPProbe struct {
	URL string
}

func (p *AMQPProbe) Name() string { return "amqp" }

func (p *AMQPProbe) Run(ctx context.Context) Result {
	timeout := 5 * time.Second
	if dl, ok := ctx.Deadline(); ok {
		timeout = timeUntil(dl)
	}

	conn, err := amqp.DialConfig(p.URL, amqp.Config{Dial: amqp.DefaultDial(timeout)})
	if err != nil {
		return result(p.Name(), StatusUnreachable, "dial: %v", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return result(p.Name(), StatusDegraded, "channel: %v", err)
	}
	_ = ch.Close()
	return result(p.Name(), StatusOK, "broker accepted connection")
}
