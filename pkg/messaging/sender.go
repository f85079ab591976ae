package messaging

import (
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher owns one prefixed topic: the exchange and durable queue are
// declared on construction, Send publishes json payloads to it.
type Publisher struct {
	connection *amqp.Connection
	name       string
}

func NewPublisher(conn *amqp.Connection, prefix string, topic ChangeTopic) (*Publisher, error) {
	p := &Publisher{
		connection: conn,
		name:       topicName(prefix, topic),
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	defer ch.Close()
	if err := declareTopic(ch, p.name); err != nil {
		return nil, err
	}
	return p, nil
}

func topicName(prefix string, topic ChangeTopic) string {
	return fmt.Sprintf("%s_%s", prefix, topic)
}

func declareTopic(ch *amqp.Channel, name string) error {
	err := ch.ExchangeDeclare(
		name,    // name
		"topic", // type
		true,    // durable
		false,   // auto-delete
		false,   // internal
		false,   // noWait
		nil,     // arguments
	)
	if err != nil {
		return err
	}
	_, err = ch.QueueDeclare(
		name,  // name of the queue
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // noWait
		nil,   // arguments
	)
	return err
}

// Send publishes one payload on a short-lived channel, the connection is
// shared and long-lived.
func (p *Publisher) Send(data any) error {
	body, err := json.Marshal(data)
	if err != nil {
		return err
	}
	ch, err := p.connection.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	return ch.Publish(
		p.name,
		p.name,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
