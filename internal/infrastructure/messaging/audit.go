package messaging

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/borrow"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// AuditHandler 消费book.borrowed事件并写审计日志
// 返回值满足mq.Handler
func AuditHandler(logger *zap.Logger) func(ctx context.Context, routingKey string, body []byte) error {
	return func(ctx context.Context, routingKey string, body []byte) error {
		if routingKey != borrow.RoutingKeyBorrowed {
			logger.Debug("ignore event", zap.String("routing_key", routingKey))
			return nil
		}

		var ev borrow.BorrowedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("解析借阅事件失败: %w", err)
		}
		if ev.BorrowID == 0 || ev.BookID == 0 {
			return fmt.Errorf("借阅事件缺少ID: %s", ev.EventID)
		}

		logger.Info("borrow audited",
			zap.String("event_id", ev.EventID),
			zap.Uint("borrow_id", ev.BorrowID),
			zap.Uint("user_id", ev.UserID),
			zap.Uint("book_id", ev.BookID),
			zap.String("book_title", ev.BookTitle),
			zap.Float64("latitude", ev.Latitude),
			zap.Float64("longitude", ev.Longitude),
			zap.Int("remaining_stock", ev.RemainingStock),
			zap.Time("borrowed_at", ev.BorrowedAt),
		)
		return nil
	}
}
