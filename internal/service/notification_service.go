package service

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Behnamfe76/expense-ledger/internal/events"
)

// ChannelPublisher is the slice of the go-redis client used for fan-out.
type ChannelPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// NotificationService logs ledger events and forwards them to a Redis channel.
type NotificationService struct {
	dispatcher events.Dispatcher
	publisher  ChannelPublisher
	channel    string
	logger     *zap.Logger
}

// NewNotificationService creates the service. A nil publisher only logs.
func NewNotificationService(dispatcher events.Dispatcher, publisher ChannelPublisher, channel string, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		publisher:  publisher,
		channel:    channel,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventDepartmentCreated, n.handle)
	n.dispatcher.Subscribe(events.EventExpenseGenerated, n.handle)
	n.dispatcher.Subscribe(events.EventExpensePaymentUpdated, n.handle)
}

func (n *NotificationService) handle(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.Int64("id_depa", event.DepartmentID),
		zap.Any("payload", event.Payload))

	if n.publisher == nil || n.channel == "" {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := n.publisher.Publish(ctx, n.channel, body).Err(); err != nil {
		n.logger.Warn("redis publish failed",
			zap.String("channel", n.channel),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		return err
	}
	return nil
}
