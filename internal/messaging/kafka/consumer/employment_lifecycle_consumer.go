package consumer

import (
	"context"
	"encoding/json"

	"github.com/CodifyCanvas/Foodya-sub001/internal/events"
	"github.com/CodifyCanvas/Foodya-sub001/internal/payroll"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeEmploymentLifecycle drops the cached payroll summary of every
// employee whose status just changed, so the next summary read reflects
// the new projection.
func ConsumeEmploymentLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employment_lifecycle")
	log.Info("employment lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employment lifecycle consumer stopped")
				return
			}
			log.Error("fetch employment lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.EmploymentStatusChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode employment_status_changed event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		cacheKey := payroll.GetSummaryCacheKey(event.EmployeeID)
		if err := rdb.Del(ctx, cacheKey).Err(); err != nil {
			log.Error("invalidate payroll summary cache failed",
				zap.Int64("employee_id", event.EmployeeID),
				zap.Error(err),
			)
			continue
		}

		log.Info("payroll summary cache invalidated",
			zap.Int64("employee_id", event.EmployeeID),
			zap.String("status", event.Status),
		)

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit employment lifecycle message failed", zap.Error(err))
		}
	}
}
