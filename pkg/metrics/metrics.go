// Package metrics 提供基于Prometheus的指标收集
//
// # 指标一览
//
//   - HTTP：请求总数、耗时、正在处理的请求数
//   - 借阅：借阅结果（按错误类别区分）、事务耗时
//   - 馆藏：图书增删改次数
//   - 缓存：命中/未命中
//   - 熔断器：状态、请求结果
//   - 消息队列：发布结果
//
// # 命名规范
//
//   - Counter以`_total`结尾
//   - Histogram以单位结尾（`_seconds`）
//   - 避免高基数标签：不要用book_id、user_id作为标签
//
// # 使用示例
//
//	metrics.InitMetrics()
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	start := time.Now()
//	err := doBorrow(ctx)
//	metrics.ObserveBorrow(result, time.Since(start))
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// 所有指标在包初始化时创建，InitMetrics只负责注册
// 未注册时调用记录函数也是安全的（只是不会被抓取）
var (
	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path（路由模板，如/api/books/:id）、status
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	// BorrowsTotal 借阅请求总数
	// 标签：result（success，或错误类别如OutOfStock、TransactionFailed）
	BorrowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_borrows_total",
			Help: "借阅请求总数（按结果区分）",
		},
		[]string{"result"},
	)

	// BorrowDuration 借阅事务耗时
	// 行锁竞争时耗时会明显上升
	BorrowDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "library_borrow_duration_seconds",
			Help:    "借阅事务耗时（秒）",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	// BooksMutatedTotal 馆藏变更次数
	// 标签：op（create/update/delete）
	BooksMutatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_books_mutated_total",
			Help: "图书增删改次数",
		},
		[]string{"op"},
	)

	// CacheRequestsTotal 缓存访问次数
	// 标签：cache（book/list）、result（hit/miss/error）
	CacheRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_cache_requests_total",
			Help: "图书缓存访问次数",
		},
		[]string{"cache", "result"},
	)

	// CircuitBreakerState 熔断器状态
	// 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	// CircuitBreakerRequests 熔断器请求总数
	// 标签：name、result（success/failure/rejected）
	CircuitBreakerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"},
	)

	// MessagesPublishedTotal 消息发布总数
	// 标签：routing_key、result（success/failure）
	MessagesPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"routing_key", "result"},
	)
)

var registerOnce sync.Once

// Collectors 返回全部指标，便于注册到自定义Registry（测试使用）
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		HTTPRequestsTotal,
		HTTPRequestDuration,
		HTTPRequestsInProgress,
		BorrowsTotal,
		BorrowDuration,
		BooksMutatedTotal,
		CacheRequestsTotal,
		CircuitBreakerState,
		CircuitBreakerRequests,
		MessagesPublishedTotal,
	}
}

// InitMetrics 将所有指标注册到默认Registry
// 可以重复调用，只有第一次生效
func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(Collectors()...)
	})
}

// ObserveBorrow 记录一次借阅的结果和耗时
func ObserveBorrow(result string, elapsed time.Duration) {
	BorrowsTotal.WithLabelValues(result).Inc()
	BorrowDuration.Observe(elapsed.Seconds())
}

// IncBookMutation 记录一次馆藏变更
func IncBookMutation(op string) {
	BooksMutatedTotal.WithLabelValues(op).Inc()
}

// IncCache 记录一次缓存访问
func IncCache(cache, result string) {
	CacheRequestsTotal.WithLabelValues(cache, result).Inc()
}

// SetBreakerState 设置熔断器状态
func SetBreakerState(name string, state float64) {
	CircuitBreakerState.WithLabelValues(name).Set(state)
}

// IncBreakerRequest 记录熔断器请求结果
func IncBreakerRequest(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// IncPublished 记录消息发布结果
func IncPublished(routingKey, result string) {
	MessagesPublishedTotal.WithLabelValues(routingKey, result).Inc()
}
