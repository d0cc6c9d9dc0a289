// Package grpcserver 对外暴露标准gRPC健康检查(grpc.health.v1)
//
// 健康状态由数据库可达性决定,供负载均衡和k8s探针使用:
//
//	grpcurl -plaintext localhost:9090 grpc.health.v1.Health/Check
package grpcserver

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName 健康检查中本服务的名字,""代表整个服务器
const ServiceName = "library.v1.Library"

// Pinger 依赖的存储探测
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker 定时探测数据库并更新健康状态
type HealthChecker struct {
	pinger   Pinger
	health   *health.Server
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
}

// NewHealthChecker 创建健康检查器,初始状态为NOT_SERVING,第一次探测成功后才对外可用
func NewHealthChecker(pinger Pinger, interval time.Duration, logger *zap.Logger) *HealthChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}

	h := health.NewServer()
	h.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	h.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return &HealthChecker{
		pinger:   pinger,
		health:   h,
		interval: interval,
		timeout:  interval / 2,
		logger:   logger,
	}
}

// Check 探测一次并更新状态,返回探测错误
func (h *HealthChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	err := h.pinger.Ping(ctx)
	if err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		h.logger.Warn("database ping failed", zap.Error(err))
	}

	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
	return err
}

// Run 按interval循环探测,直到ctx取消
func (h *HealthChecker) Run(ctx context.Context) {
	_ = h.Check(ctx)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = h.Check(ctx)
		}
	}
}

// Shutdown 所有服务置为NOT_SERVING,后续Watch的客户端会收到通知
func (h *HealthChecker) Shutdown() {
	h.health.Shutdown()
}

// NewServer 创建gRPC服务器并注册健康检查和反射服务
func NewServer(checker *HealthChecker) *grpc.Server {
	srv := grpc.NewServer(
		grpc.MaxRecvMsgSize(1024*1024),
		grpc.MaxSendMsgSize(1024*1024),
	)
	healthpb.RegisterHealthServer(srv, checker.health)
	reflection.Register(srv)
	return srv
}
