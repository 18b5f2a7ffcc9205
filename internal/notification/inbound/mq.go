package inbound

import (
	"context"
	"log/slog"

	"github.com/samber/lo"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/messaging"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
	"github.com/shandysiswandi/otpgate/internal/shared/event"
)

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enabledConsumerNames := cfg.GetArray("modules.notification.consumer_names")

	var consumers = []struct {
		name              string
		topic             string // destination where publisher sent message
		nsqConsumerName   string // for nsq
		natsConsumerName  string // for nats
		kafkaConsumerName string // for kafka
		handler           messaging.Handler
	}{
		{
			name:              event.CodeIssuedNotificationConsumer,
			topic:             event.CodeIssuedDestination,
			nsqConsumerName:   event.CodeIssuedNotificationConsumer,
			natsConsumerName:  event.CodeIssuedNotificationConsumer,
			kafkaConsumerName: event.CodeIssuedNotificationConsumer,
			handler:           mqHandler.CodeIssuedNotification,
		},
		{
			name:              event.UserVerifiedNotificationConsumer,
			topic:             event.UserVerifiedDestination,
			nsqConsumerName:   event.UserVerifiedNotificationConsumer,
			natsConsumerName:  event.UserVerifiedNotificationConsumer,
			kafkaConsumerName: event.UserVerifiedNotificationConsumer,
			handler:           mqHandler.UserVerifiedNotification,
		},
	}

	for _, consumer := range consumers {
		if len(enabledConsumerNames) > 0 && lo.Contains(enabledConsumerNames, consumer.name) {
			routine.Go(ctx, func(pCtx context.Context) error {
				slog.InfoContext(ctx, "Running job for handling consumer", "consumer", consumer.name)
				return messenger.Consume(pCtx,
					consumer.topic,
					consumer.handler,
					messaging.WithChannel(consumer.nsqConsumerName),
					messaging.WithQueueGroup(consumer.natsConsumerName),
					messaging.WithGroup(consumer.kafkaConsumerName),
					messaging.WithAutoAck(true),
					messaging.WithConcurrency(10),
					messaging.WithMaxInFlight(10),
				)
			})
		}
	}
}
