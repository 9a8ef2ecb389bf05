package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"dompet_api/internal/services"
	"dompet_api/pkg/utils"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	TransferEventsChannel = "transfer_events"

	EventTransferCompleted = "transfer.completed"
)

// Publisher is the subset of *redis.Client used for pub/sub.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

type TransferEvent struct {
	EventType    string    `json:"event_type"`
	UserID       string    `json:"user_id"`
	Reference    string    `json:"reference"`
	FromWalletID int       `json:"from_wallet_id"`
	ToWalletID   int       `json:"to_wallet_id"`
	Amount       string    `json:"amount"`
	Description  string    `json:"description,omitempty"`
	CompletedAt  time.Time `json:"completed_at"`
	Timestamp    time.Time `json:"timestamp"`
}

type TransferEventPublisher struct {
	rdb     Publisher
	channel string
	now     func() time.Time
}

func NewTransferEventPublisher(rdb Publisher) *TransferEventPublisher {
	return &TransferEventPublisher{rdb: rdb, channel: TransferEventsChannel, now: time.Now}
}

// PublishTransferEvent publishes a transfer event to Redis.
func (p *TransferEventPublisher) PublishTransferEvent(ctx context.Context, event *TransferEvent) error {
	event.Timestamp = p.now()

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	utils.Logger.WithFields(logrus.Fields{
		"event_type": event.EventType,
		"user_id":    event.UserID,
		"reference":  event.Reference,
	}).Debug("transfer event published")
	return nil
}

// TransferCompleted satisfies services.TransferNotifier.
func (p *TransferEventPublisher) TransferCompleted(ctx context.Context, userID int, result *services.TransferResult) error {
	return p.PublishTransferEvent(ctx, &TransferEvent{
		EventType:    EventTransferCompleted,
		UserID:       strconv.Itoa(userID),
		Reference:    result.Reference,
		FromWalletID: result.FromWalletID,
		ToWalletID:   result.ToWalletID,
		Amount:       result.Amount.StringFixed(2),
		Description:  result.Description,
		CompletedAt:  result.CreatedAt,
	})
}
