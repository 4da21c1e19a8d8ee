package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/inkwell/blog-api/internal/api/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// OutboundMail is one transactional message waiting for delivery.
type OutboundMail struct {
	To       string
	Subject  string
	HTMLBody string
	// Kind labels the message for logs and metrics: "verification",
	// "password_reset", "password_changed".
	Kind string
}

// Sender delivers a single message. Implemented by mail.Mailer.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Dispatcher routes outbound mail to a fixed set of workers using consistent
// hashing on the recipient, so messages to the same address are delivered in
// order. Enqueue never blocks the request path beyond channel capacity.
type Dispatcher struct {
	workers []chan OutboundMail
	sender  Sender
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sender Sender, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan OutboundMail, numWorkers),
		sender:  sender,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan OutboundMail, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a message to the worker responsible for its recipient.
func (d *Dispatcher) Enqueue(msg OutboundMail) {
	d.workers[d.shardIndex(msg.To)] <- msg
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipient))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan OutboundMail) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := d.sender.Send(ctx, msg.To, msg.Subject, msg.HTMLBody); err != nil {
				metrics.EmailsSentTotal.WithLabelValues(msg.Kind, "error").Inc()
				d.log.Error().Err(err).
					Str("kind", msg.Kind).
					Int("worker_id", id).
					Msg("mail delivery failed")
				continue
			}
			metrics.EmailsSentTotal.WithLabelValues(msg.Kind, "ok").Inc()
			d.log.Debug().Str("kind", msg.Kind).Msg("mail delivered")
		}
	}
}
