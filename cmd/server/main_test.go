package main

import (
	"net"
	"testing"
	"time"

	"github.com/Freeeeeet/court_booking/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestRunBotErrorLeavesNoServer(t *testing.T) {
	addr := freeAddr(t)
	cfg := &config.Config{
		Environment:   "test",
		Storage:       config.StorageMemory,
		HTTPAddr:      addr,
		JWTSecret:     "secret",
		TokenTTL:      time.Hour,
		TelegramToken: "   ",
		AdminUsername: "admin",
		AdminPassword: "admin123",
		OpenHour:      8,
		CloseHour:     22,
		SlotLength:    time.Hour,
		Courts:        []int{1, 2, 3},
		AuthRateRPS:   1,
		AuthRateBurst: 5,
	}

	done := make(chan error, 1)
	go func() { done <- run(cfg, zap.NewNop()) }()

	select {
	case err := <-done:
		assert.ErrorContains(t, err, "empty token")
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after bot setup failed")
	}

	// адрес свободен: HTTP-сервер не запускался
	l, err := net.Listen("tcp", addr)
	require.NoError(t, err)
	require.NoError(t, l.Close())
}
