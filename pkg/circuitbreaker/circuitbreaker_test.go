package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker"

	"github.com/xiebiao/library/pkg/metrics"
)

var errUnavailable = errors.New("broker unavailable")

func newTestBreaker(name string, timeout time.Duration) *CircuitBreaker {
	return New(name, Config{
		MaxRequests:      1,
		Interval:         10 * time.Second,
		Timeout:          timeout,
		FailureThreshold: 3,
	}, nil)
}

// TestCircuitBreaker_ClosedState 成功请求不会触发熔断
func TestCircuitBreaker_ClosedState(t *testing.T) {
	cb := newTestBreaker("test-closed", 30*time.Second)

	for i := 0; i < 10; i++ {
		if err := cb.Execute(func() error { return nil }); err != nil {
			t.Fatalf("期望成功，实际失败: %v", err)
		}
	}

	if cb.State() != gobreaker.StateClosed {
		t.Errorf("期望状态为CLOSED，实际%s", cb.State())
	}
	if got := cb.Counts().TotalSuccesses; got != 10 {
		t.Errorf("期望成功10次，实际%d次", got)
	}
}

// TestCircuitBreaker_OpenState 连续失败达到阈值后快速失败
func TestCircuitBreaker_OpenState(t *testing.T) {
	cb := newTestBreaker("test-open", 30*time.Second)

	for i := 0; i < 3; i++ {
		if err := cb.Execute(func() error { return errUnavailable }); !errors.Is(err, errUnavailable) {
			t.Fatalf("期望返回业务错误，实际%v", err)
		}
	}

	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("期望状态为OPEN，实际%s", cb.State())
	}

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	if !IsRejected(err) {
		t.Errorf("期望被熔断器拒绝，实际%v", err)
	}
	if called {
		t.Error("熔断器打开时不应该调用实际函数")
	}

	if got := testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues("test-open")); got != 1 {
		t.Errorf("状态指标应为1(OPEN)，实际%f", got)
	}
	if got := testutil.ToFloat64(metrics.CircuitBreakerRequests.WithLabelValues("test-open", "rejected")); got != 1 {
		t.Errorf("rejected计数应为1，实际%f", got)
	}
}

// TestCircuitBreaker_HalfOpenRecovery 超时后探测成功即恢复
func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb := newTestBreaker("test-recover", 50*time.Millisecond)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errUnavailable })
	}
	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("期望状态为OPEN，实际%s", cb.State())
	}

	time.Sleep(80 * time.Millisecond)
	if cb.State() != gobreaker.StateHalfOpen {
		t.Fatalf("期望状态为HALF_OPEN，实际%s", cb.State())
	}

	if err := cb.Execute(func() error { return nil }); err != nil {
		t.Fatalf("探测请求应成功: %v", err)
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("探测成功后应恢复CLOSED，实际%s", cb.State())
	}
}

// TestCircuitBreaker_HalfOpenFailure 探测失败回到OPEN
func TestCircuitBreaker_HalfOpenFailure(t *testing.T) {
	cb := newTestBreaker("test-halfopen-fail", 50*time.Millisecond)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errUnavailable })
	}
	time.Sleep(80 * time.Millisecond)

	_ = cb.Execute(func() error { return errUnavailable })
	if cb.State() != gobreaker.StateOpen {
		t.Errorf("探测失败后应回到OPEN，实际%s", cb.State())
	}
}
