package events

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	reconnectDelay = 5 * time.Second
	publishTimeout = 5 * time.Second
	mailboxSize    = 256
)

var (
	ErrPublisherClosed = errors.New("publisher closed")
	ErrMailboxFull     = errors.New("publisher mailbox full")
	errNotConnected    = errors.New("not connected to a server")
)

// RabbitMQPublisher is an actor: one goroutine owns the connection and
// channel and drains a mailbox of encoded events. Callers only enqueue.
type RabbitMQPublisher struct {
	queueName string
	addr      string
	mailbox   chan Event
	quit      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
	logger    *log.Logger

	// owned by run()
	conn            *amqp.Connection
	channel         *amqp.Channel
	notifyConnClose chan *amqp.Error
	notifyChanClose chan *amqp.Error
}

// NewRabbitMQPublisher starts the actor. Connecting happens in the background,
// so a broker that is down at startup does not block the server.
func NewRabbitMQPublisher(queueName, addr string) *RabbitMQPublisher {
	p := &RabbitMQPublisher{
		queueName: queueName,
		addr:      addr,
		mailbox:   make(chan Event, mailboxSize),
		quit:      make(chan struct{}),
		logger:    log.New(os.Stdout, "[RabbitMQPublisher] ", log.LstdFlags),
	}
	p.wg.Add(1)
	go p.run()
	return p
}

// Publish enqueues ev without waiting for the broker.
func (p *RabbitMQPublisher) Publish(ctx context.Context, ev Event) error {
	select {
	case <-p.quit:
		return ErrPublisherClosed
	default:
	}

	select {
	case p.mailbox <- ev:
		return nil
	case <-p.quit:
		return ErrPublisherClosed
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrMailboxFull
	}
}

// Close stops the actor and closes the broker connection.
func (p *RabbitMQPublisher) Close() error {
	p.closeOnce.Do(func() { close(p.quit) })
	p.wg.Wait()
	p.logger.Println("Publisher stopped.")
	return nil
}

func (p *RabbitMQPublisher) run() {
	defer p.wg.Done()

	retry := time.After(0)
	for {
		select {
		case <-p.quit:
			p.drain()
			p.closeConnection()
			return
		case <-retry:
			retry = nil
			if err := p.connect(); err != nil {
				p.logger.Printf("Failed to connect: %s. Retrying in %s...", err, reconnectDelay)
				retry = time.After(reconnectDelay)
			}
		case err := <-p.notifyConnClose:
			p.logger.Printf("Connection closed (%v). Reconnecting...", err)
			p.closeConnection()
			retry = time.After(reconnectDelay)
		case err := <-p.notifyChanClose:
			p.logger.Printf("Channel closed (%v). Reconnecting...", err)
			p.closeConnection()
			retry = time.After(reconnectDelay)
		case ev := <-p.mailbox:
			p.handlePush(ev)
		}
	}
}

// drain flushes whatever is already queued when Close is called.
func (p *RabbitMQPublisher) drain() {
	for {
		select {
		case ev := <-p.mailbox:
			p.handlePush(ev)
		default:
			return
		}
	}
}

func (p *RabbitMQPublisher) handlePush(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		p.logger.Printf("Dropping %s: %v", ev.Type, err)
		return
	}
	if err := p.unsafePush(ev, data); err != nil {
		p.logger.Printf("Dropping %s %s: %v", ev.Type, ev.ID, err)
	}
}

func (p *RabbitMQPublisher) unsafePush(ev Event, data []byte) error {
	if p.channel == nil {
		return errNotConnected
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	return p.channel.PublishWithContext(
		ctx,
		"",          // exchange
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    ev.ID,
			Type:         ev.Type,
			Timestamp:    ev.OccurredAt,
			Body:         data,
		},
	)
}

func (p *RabbitMQPublisher) connect() error {
	conn, err := amqp.Dial(p.addr)
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}

	_, err = ch.QueueDeclare(
		p.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return err
	}

	p.conn = conn
	p.channel = ch
	p.notifyConnClose = conn.NotifyClose(make(chan *amqp.Error, 1))
	p.notifyChanClose = ch.NotifyClose(make(chan *amqp.Error, 1))
	p.logger.Println("Connected to RabbitMQ, queue declared.")
	return nil
}

func (p *RabbitMQPublisher) closeConnection() {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			p.logger.Printf("Error closing channel: %s", err)
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			p.logger.Printf("Error closing connection: %s", err)
		}
	}
	p.channel = nil
	p.conn = nil
	// nil channels block forever in select, which disables those cases
	p.notifyConnClose = nil
	p.notifyChanClose = nil
}
