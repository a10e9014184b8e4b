package logger

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu  sync.RWMutex
	log = zap.NewNop()
)

// Init builds the process-wide logger. Safe to call more than once; the last call wins.
func Init(development bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if development {
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := config.Build()
	if err != nil {
		return nil, err
	}
	Set(l)
	return l, nil
}

// Set replaces the shared logger (tests use zap.NewNop or zaptest).
func Set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
}

// L returns the shared logger. It is a no-op logger until Init or Set is called.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Sync flushes buffered entries.
func Sync() {
	_ = L().Sync()
}

// RequestLogger บันทึกทุก request ที่เข้ามา
func RequestLogger() fiber.Handler {
	return fiberlogger.New(fiberlogger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${ip} - ${method} ${path} - ${status} - ${latency}\n",
	})
}
