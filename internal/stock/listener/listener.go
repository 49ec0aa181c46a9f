package listener

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/JhnDrwnl/appDevFinal/internal/platform/broker"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/logger"
	"github.com/JhnDrwnl/appDevFinal/internal/reservation"
	"github.com/JhnDrwnl/appDevFinal/internal/stock"
	"github.com/JhnDrwnl/appDevFinal/internal/stock/dto"
)

// Listener deducts stock when reservations complete.
type Listener struct {
	consumer *broker.KafkaConsumer
	stocks   stock.UseCase
	logger   logger.ZapLogger
}

func NewListener(consumer *broker.KafkaConsumer, stocks stock.UseCase, log logger.ZapLogger) *Listener {
	return &Listener{consumer: consumer, stocks: stocks, logger: log}
}

// Start blocks until ctx is canceled.
func (l *Listener) Start(ctx context.Context) {
	l.logger.Info("reservation listener started")
	for {
		msg, err := l.consumer.ReadMessage(ctx)
		if err != nil {
			select {
			case <-ctx.Done():
				l.logger.Info("reservation listener stopped")
				return
			default:
			}
			l.logger.Error("failed to read reservation event", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		l.handle(ctx, msg.Value)
	}
}

func (l *Listener) handle(ctx context.Context, payload []byte) {
	var event reservation.CompletedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		l.logger.Error("failed to decode reservation event", zap.Error(err))
		return
	}
	if event.Type != reservation.EventTypeCompleted {
		return
	}

	for _, item := range event.Items {
		_, err := l.stocks.AdjustStock(ctx, &dto.AdjustStockInput{
			ProductID:     item.ProductID,
			Delta:         -item.Quantity,
			ReferenceType: "reservation",
			ReferenceID:   event.ReservationID,
			Notes:         "reservation completed",
		})
		if err != nil {
			// Skipping the item keeps the rest of the order moving; the
			// movement log will show the gap.
			l.logger.Error("failed to deduct stock for reservation item",
				zap.String("reservation_id", event.ReservationID),
				zap.String("product_id", item.ProductID),
				zap.Error(err))
		}
	}
}
