package rabbitmq

import (
	"context"
	"fmt"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/clinicare-bj/maternity-reminder-engine/internal/config"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/ports/in"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/ports/out"
)

type TriggerJob string

const (
	TriggerJobReminders     TriggerJob = "reminders"
	TriggerJobDailySummary  TriggerJob = "dailysummary"
	TriggerJobWeeklySummary TriggerJob = "weeklysummary"
)

// TriggerListener consomme les messages de déclenchement publiés par le
// backend du tableau de bord. Clé de routage attendue:
// <source>.<receveur>.<job>.run, par exemple:
// dashboard.reminder-engine.reminders.run
// dashboard.reminder-engine.dailysummary.run
type TriggerListener struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	useCase in.ReminderUseCase
	cfg     *config.Config
	logger  out.LoggerPort
}

func NewTriggerListener(useCase in.ReminderUseCase, cfg *config.Config, logger out.LoggerPort) (*TriggerListener, error) {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("rabbitmq.disabled", out.LogFields{
			"message": "RabbitMQ is disabled, listener will not be started",
		})
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Error("rabbitmq.connect_failed", out.LogFields{
			"error": err.Error(),
			"url":   cfg.RabbitMQ.URL,
		})
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		logger.Error("rabbitmq.channel_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	return &TriggerListener{
		conn:    conn,
		channel: channel,
		useCase: useCase,
		cfg:     cfg,
		logger:  logger.WithModule("TriggerListener"),
	}, nil
}

func (l *TriggerListener) Start(ctx context.Context) error {
	queue, err := l.channel.QueueDeclare(
		l.cfg.RabbitMQ.Queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	deliveries, err := l.channel.Consume(
		queue.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return err
	}

	l.logger.Info("rabbitmq.queue_started", out.LogFields{
		"queue": queue.Name,
	})

	go l.consume(ctx, deliveries)

	return nil
}

func (l *TriggerListener) Stop() error {
	if l == nil || l.channel == nil {
		return nil
	}

	if err := l.channel.Close(); err != nil {
		return err
	}
	return l.conn.Close()
}

func (l *TriggerListener) consume(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, open := <-deliveries:
			if !open {
				l.logger.Warn("rabbitmq.channel_closed", out.LogFields{})
				return
			}
			l.handle(ctx, msg)
		}
	}
}

func (l *TriggerListener) handle(ctx context.Context, msg amqp.Delivery) {
	job, err := parseTriggerRoutingKey(msg.RoutingKey)
	if err != nil {
		l.logger.Warn("rabbitmq.invalid_routing_key", out.LogFields{
			"routingKey": msg.RoutingKey,
			"error":      err.Error(),
		})
		msg.Nack(false, false)
		return
	}

	l.logger.Info("rabbitmq.trigger_received", out.LogFields{
		"job": job,
	})

	switch job {
	case TriggerJobReminders:
		_, err = l.useCase.RunReminderPass(ctx)
	case TriggerJobDailySummary:
		err = l.useCase.RunDailySummary(ctx)
	case TriggerJobWeeklySummary:
		err = l.useCase.RunWeeklySummary(ctx)
	}

	if err != nil {
		l.logger.Error("rabbitmq.trigger_failed", out.LogFields{
			"job":   job,
			"error": err.Error(),
		})
		// Pas de redélivrance: une passe rejetée ou échouée sera
		// rattrapée par la prochaine exécution planifiée
		msg.Nack(false, false)
		return
	}

	msg.Ack(false)
}

func parseTriggerRoutingKey(routingKey string) (TriggerJob, error) {
	parts := strings.Split(routingKey, ".")
	if len(parts) < 4 || parts[len(parts)-1] != "run" {
		return "", fmt.Errorf("invalid routing key: %s", routingKey)
	}

	job := TriggerJob(parts[len(parts)-2])
	switch job {
	case TriggerJobReminders, TriggerJobDailySummary, TriggerJobWeeklySummary:
		return job, nil
	}

	return "", fmt.Errorf("unknown trigger job: %s", routingKey)
}
