// cmd/worker/main.go
package main

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/streadway/amqp"

	"github.com/voicebridge/voicebridge-backend/internal/config"
	"github.com/voicebridge/voicebridge-backend/internal/db"
	"github.com/voicebridge/voicebridge-backend/internal/external"
	"github.com/voicebridge/voicebridge-backend/internal/queue"
	"github.com/voicebridge/voicebridge-backend/internal/repository"
	"github.com/voicebridge/voicebridge-backend/internal/service"
)

const maxDeliveryRetries = 3

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	cfg := config.Load()
	db.Init(cfg)

	platform := external.NewClient(cfg.External.BaseURL, cfg.External.Username, cfg.External.Password,
		&http.Client{Timeout: cfg.External.Timeout})

	dispatcher := &service.CallDispatcher{
		CallRepo: &repository.CallRepository{DB: db.DB},
		External: platform,
	}

	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		log.Fatal("Failed to connect to RabbitMQ:", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal("Failed to open a channel:", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		queue.CallDispatchTopic, // name
		true,                    // durable
		false,                   // delete when unused
		false,                   // exclusive
		false,                   // no-wait
		nil,                     // arguments
	)
	if err != nil {
		log.Fatal("Failed to declare queue:", err)
	}

	msgs, err := ch.Consume(
		q.Name,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Fatal("Failed to register consumer:", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var job service.DispatchJob
			if err := json.Unmarshal(d.Body, &job); err != nil {
				log.Println("Invalid job:", err)
				d.Ack(false)
				continue
			}

			if err := dispatcher.Process(job); err != nil {
				log.Println("Failed to dispatch call:", err)
				// Nack(requeue) redelivers the message with its original
				// headers, so the retry count must be carried by an explicit
				// republish.
				if deliveryRetries(d) < maxDeliveryRetries {
					if pubErr := ch.Publish("", q.Name, false, false, nextRetryPublishing(d)); pubErr != nil {
						log.Println("Failed to requeue job:", pubErr)
						d.Nack(false, true)
						continue
					}
				} else {
					log.Println("Dropping job after", maxDeliveryRetries, "attempts:", job.CampaignID, job.ToNumber)
				}
			}

			d.Ack(false)
		}
	}()

	log.Println("Worker running, waiting for call dispatch jobs...")
	<-forever
}

// nextRetryPublishing rebuilds the message for requeueing with the retry
// counter bumped; other headers carry over unchanged.
func nextRetryPublishing(d amqp.Delivery) amqp.Publishing {
	headers := amqp.Table{}
	for k, v := range d.Headers {
		headers[k] = v
	}
	headers["x-retry-count"] = int32(deliveryRetries(d) + 1)

	return amqp.Publishing{
		ContentType: "application/json",
		Headers:     headers,
		Body:        d.Body,
	}
}

func deliveryRetries(d amqp.Delivery) int {
	if d.Headers == nil {
		return 0
	}
	if raw, ok := d.Headers["x-retry-count"]; ok {
		if n, ok := raw.(int); ok {
			return n
		}
		if n, ok := raw.(int32); ok {
			return int(n)
		}
	}
	return 0
}
