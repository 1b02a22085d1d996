package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/shortify/internal/events"
	"github.com/serroba/shortify/internal/messaging"
	"go.uber.org/zap"
)

// AuditConsumerGroup is the Redis stream consumer group of the audit consumer.
const AuditConsumerGroup = "audit"

// PublisherGroupPackage provides the link created publish function. With
// events disabled it is a no-op and no Redis connection is made.
func PublisherGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		logger := do.MustInvoke[*zap.Logger](i)
		client := do.MustInvoke[redis.UniversalClient](i)

		publisher, err := messaging.NewRedisPublisher(client, messaging.NewZapLogger(logger))
		if err != nil {
			return nil, err
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(i, func(i *do.Injector) (messaging.Publish[events.LinkCreated], error) {
		opts := do.MustInvoke[*Options](i)
		if !opts.Events {
			return messaging.NoopPublish[events.LinkCreated](), nil
		}

		group, err := do.Invoke[*messaging.PublisherGroup](i)
		if err != nil {
			return nil, err
		}

		return messaging.NewPublishFunc[events.LinkCreated](group.Publisher(), events.TopicLinkCreated), nil
	})
}

// ConsumerGroupPackage provides the consumers that write the link audit trail.
func ConsumerGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (events.AuditSink, error) {
		return events.NewLogAuditSink(do.MustInvoke[*zap.Logger](i).Named("audit")), nil
	})

	do.Provide(i, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		logger := do.MustInvoke[*zap.Logger](i)
		client := do.MustInvoke[redis.UniversalClient](i)
		sink := do.MustInvoke[events.AuditSink](i)

		subscriber, err := messaging.NewRedisSubscriber(client, AuditConsumerGroup, messaging.NewZapLogger(logger))
		if err != nil {
			return nil, err
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer(
			subscriber,
			events.TopicLinkCreated,
			messaging.Handler[events.LinkCreated](sink.Record),
			logger,
		))

		return group, nil
	})
}
