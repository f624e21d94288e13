package server

import (
	"context"
	"log/slog"
)

type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

type OkHealthChecker struct {
}

func NewOkHealthChecker() *OkHealthChecker {
	return &OkHealthChecker{}
}

func (hc *OkHealthChecker) Healthy(ctx context.Context) bool {
	return true
}

// Pinger is implemented by backends that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingHealthChecker struct {
	name   string
	pinger Pinger
}

func NewPingHealthChecker(name string, pinger Pinger) *PingHealthChecker {
	return &PingHealthChecker{name: name, pinger: pinger}
}

func (hc *PingHealthChecker) Healthy(ctx context.Context) bool {
	if hc.pinger == nil {
		return false
	}
	if err := hc.pinger.Ping(ctx); err != nil {
		slog.Warn("Health check failed", "component", hc.name, "error", err)
		return false
	}
	return true
}
