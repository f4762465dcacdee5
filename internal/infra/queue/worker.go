package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/tvdoutor/contratos/internal/entity"
)

// DocumentProcessor handles one contract.generated event.
type DocumentProcessor interface {
	Execute(ctx context.Context, event entity.ContractGeneratedEvent) error
}

// Consumer is the part of *amqp.Channel the worker needs.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel   Consumer
	Processor DocumentProcessor
}

func NewWorker(ch Consumer, processor DocumentProcessor) *Worker {
	return &Worker{Channel: ch, Processor: processor}
}

// Start consome a fila até o ctx ser cancelado ou o canal fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",
		false, // auto-ack (manual é mais seguro)
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	log.Info().Str("queue", queueName).Msg("worker aguardando mensagens")
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				log.Warn().Str("queue", queueName).Msg("canal de mensagens fechado")
				return nil
			}
			w.handle(ctx, d)
		}
	}
}

// handle acks on success. Malformed or failed messages are rejected without
// requeue so they end up in the DLQ.
func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var event entity.ContractGeneratedEvent
	if err := json.Unmarshal(d.Body, &event); err != nil || event.ContractID == "" {
		log.Error().Err(err).Msg("mensagem inválida, enviando para DLQ")
		_ = d.Nack(false, false)
		return
	}

	logger := log.With().Str("contract_id", event.ContractID).Logger()
	logger.Info().Msg("gerando documento do contrato")

	if err := w.Processor.Execute(ctx, event); err != nil {
		logger.Error().Err(err).Msg("falha na geração do documento")
		_ = d.Nack(false, false)
		return
	}

	logger.Info().Msg("documento gerado")
	_ = d.Ack(false)
}
