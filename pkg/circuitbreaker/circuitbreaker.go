// Package circuitbreaker 对sony/gobreaker的封装
//
// 熔断器三种状态：
//   - CLOSED：请求正常通过，统计连续失败次数
//   - OPEN：快速失败，不调用下游；Timeout后转为HALF_OPEN
//   - HALF_OPEN：放行MaxRequests个探测请求，成功则CLOSED，失败则回到OPEN
//
// 在本服务中保护借阅事件发布：RabbitMQ不可用时快速失败，
// 不拖慢已经提交的借阅请求。
//
// 示例：
//
//	cb := circuitbreaker.New("borrow-events", circuitbreaker.DefaultConfig(), logger)
//	err := cb.Execute(func() error {
//	    return publisher.Publish(ctx, key, msg)
//	})
//	if circuitbreaker.IsRejected(err) {
//	    // 熔断中，直接降级
//	}
package circuitbreaker

import (
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/xiebiao/library/pkg/metrics"
)

// Config 熔断器配置
type Config struct {
	// MaxRequests 半开状态下允许的探测请求数
	MaxRequests uint32
	// Interval CLOSED状态下统计窗口，到期清零计数；0表示不清零
	Interval time.Duration
	// Timeout OPEN状态持续时间
	Timeout time.Duration
	// FailureThreshold 连续失败多少次后熔断
	FailureThreshold uint32
}

// DefaultConfig 默认配置：连续失败5次熔断，30秒后尝试恢复
func DefaultConfig() Config {
	return Config{
		MaxRequests:      1,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// 熔断时返回的错误
var (
	ErrOpenState       = gobreaker.ErrOpenState
	ErrTooManyRequests = gobreaker.ErrTooManyRequests
)

// CircuitBreaker 带日志和指标的熔断器
type CircuitBreaker struct {
	name string
	cb   *gobreaker.CircuitBreaker
}

// New 创建熔断器，状态变化会写日志并更新circuit_breaker_state指标
func New(name string, cfg Config, logger *zap.Logger) *CircuitBreaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 1
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.SetBreakerState(name, stateValue(to))
		},
	}

	metrics.SetBreakerState(name, stateValue(gobreaker.StateClosed))
	return &CircuitBreaker{
		name: name,
		cb:   gobreaker.NewCircuitBreaker(settings),
	}
}

// Execute 在熔断器保护下执行fn
// 熔断中返回ErrOpenState或ErrTooManyRequests，fn不会被调用
func (c *CircuitBreaker) Execute(fn func() error) error {
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})

	switch {
	case err == nil:
		metrics.IncBreakerRequest(c.name, "success")
	case IsRejected(err):
		metrics.IncBreakerRequest(c.name, "rejected")
	default:
		metrics.IncBreakerRequest(c.name, "failure")
	}
	return err
}

// Name 熔断器名称
func (c *CircuitBreaker) Name() string {
	return c.name
}

// State 当前状态
func (c *CircuitBreaker) State() gobreaker.State {
	return c.cb.State()
}

// Counts 当前统计窗口内的计数
func (c *CircuitBreaker) Counts() gobreaker.Counts {
	return c.cb.Counts()
}

// IsRejected 判断错误是否由熔断器拒绝产生
func IsRejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// stateValue 指标取值：0=CLOSED, 1=OPEN, 2=HALF_OPEN
func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}
