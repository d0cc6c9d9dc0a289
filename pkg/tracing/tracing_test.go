package tracing

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupRecorder 安装一个记录Span的Provider，测试结束后关闭
func setupRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp, err := NewProvider(context.Background(), "test-service", sdktrace.WithSpanProcessor(sr))
	if err != nil {
		t.Fatalf("创建Provider失败: %v", err)
	}
	Install(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

// TestInitTracer Collector不可用时初始化也不应失败
func TestInitTracer(t *testing.T) {
	shutdown, err := InitTracer("test-service", "localhost:4317")
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}
	// 没有产生Span，shutdown无需导出
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("关闭Tracer失败: %v", err)
	}
}

// TestStartSpan 子Span继承TraceID
func TestStartSpan(t *testing.T) {
	setupRecorder(t)

	ctx, root := StartSpan(context.Background(), "test", "Root")
	defer root.End()

	if !root.SpanContext().IsValid() {
		t.Fatal("Span无效")
	}

	_, child := StartSpan(ctx, "test", "Child")
	defer child.End()

	if child.SpanContext().TraceID() != root.SpanContext().TraceID() {
		t.Error("子Span的TraceID应与根Span相同")
	}
	if child.SpanContext().SpanID() == root.SpanContext().SpanID() {
		t.Error("子Span的SpanID不应与根Span相同")
	}
}

// TestEndSpan 错误会记录到Span状态
func TestEndSpan(t *testing.T) {
	sr := setupRecorder(t)

	_, ok := StartSpan(context.Background(), "test", "Succeeded")
	EndSpan(ok, nil)

	_, failed := StartSpan(context.Background(), "test", "Failed")
	EndSpan(failed, errors.New("deadlock"))

	ended := sr.Ended()
	if len(ended) != 2 {
		t.Fatalf("应结束2个Span, got=%d", len(ended))
	}
	if ended[0].Status().Code != codes.Ok {
		t.Errorf("成功Span状态错误: %v", ended[0].Status())
	}
	if ended[1].Status().Code != codes.Error || ended[1].Status().Description != "deadlock" {
		t.Errorf("失败Span状态错误: %v", ended[1].Status())
	}
	if len(ended[1].Events()) != 1 {
		t.Errorf("失败Span应记录1个error事件, got=%d", len(ended[1].Events()))
	}
}

// TestExtractIDs TraceID 32位、SpanID 16位，无Span时为空
func TestExtractIDs(t *testing.T) {
	setupRecorder(t)

	if ExtractTraceID(context.Background()) != "" || ExtractSpanID(context.Background()) != "" {
		t.Error("无Span时应返回空串")
	}

	ctx, span := StartSpan(context.Background(), "test", "Extract")
	defer span.End()

	if got := ExtractTraceID(ctx); len(got) != 32 {
		t.Errorf("TraceID长度错误: %q", got)
	}
	if got := ExtractSpanID(ctx); len(got) != 16 {
		t.Errorf("SpanID长度错误: %q", got)
	}
}
