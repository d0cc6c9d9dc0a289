// Package messaging 借阅事件的RabbitMQ适配
package messaging

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/pkg/circuitbreaker"
	"github.com/xiebiao/library/pkg/metrics"
)

// publishTimeout 单次发布的超时
// 发布发生在借阅提交之后,不能让慢Broker拖住HTTP响应
const publishTimeout = 2 * time.Second

// Publisher mq.Publisher中用到的方法
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// BorrowEventPublisher 实现borrow.EventPublisher
// Broker连续失败时熔断,直接快速失败,不再等待超时
type BorrowEventPublisher struct {
	publisher Publisher
	breaker   *circuitbreaker.CircuitBreaker
	logger    *zap.Logger
}

// NewBorrowEventPublisher 创建借阅事件发布者
func NewBorrowEventPublisher(publisher Publisher, breaker *circuitbreaker.CircuitBreaker, logger *zap.Logger) *BorrowEventPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BorrowEventPublisher{publisher: publisher, breaker: breaker, logger: logger}
}

// PublishBorrowed 发布book.borrowed事件
// EventID为空时自动分配,消费端据此去重
func (p *BorrowEventPublisher) PublishBorrowed(ctx context.Context, event borrow.BorrowedEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}

	// 请求结束后ctx会被取消,发布使用独立的超时
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err := p.breaker.Execute(func() error {
		return p.publisher.Publish(ctx, borrow.RoutingKeyBorrowed, event)
	})

	switch {
	case err == nil:
		metrics.IncPublished(borrow.RoutingKeyBorrowed, "success")
	case circuitbreaker.IsRejected(err):
		metrics.IncPublished(borrow.RoutingKeyBorrowed, "rejected")
		p.logger.Debug("borrow event dropped, breaker open",
			zap.String("event_id", event.EventID),
			zap.String("breaker", p.breaker.Name()),
		)
	default:
		metrics.IncPublished(borrow.RoutingKeyBorrowed, "failure")
	}
	return err
}
