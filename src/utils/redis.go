package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	DB "Backend-SurveyHub/src/database"
	"Backend-SurveyHub/src/logger"

	"github.com/redis/go-redis/v9"
)

// ResetCodeTTL อายุของรหัสรีเซ็ตรหัสผ่าน
const ResetCodeTTL = 15 * time.Minute

// ensureClient returns the shared Redis client managed by the database package.
// Nil means Redis is not configured; every helper below degrades to a no-op.
func ensureClient() *redis.Client {
	return DB.RedisClient
}

// BlacklistToken เพิ่ม access token เข้า blacklist (ใช้ตอน logout)
func BlacklistToken(ctx context.Context, token string, expiresIn time.Duration) error {
	client := ensureClient()
	if client == nil {
		logger.L().Warn("⚠️ redis client not initialized, logout token not blacklisted")
		return nil
	}
	if expiresIn <= 0 {
		return nil
	}

	key := fmt.Sprintf("blacklist:%s", token)
	if err := client.Set(ctx, key, "1", expiresIn).Err(); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

// IsTokenBlacklisted ตรวจสอบว่า token อยู่ใน blacklist หรือไม่
// Returns false if Redis is not available (development mode - allow all tokens)
func IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	client := ensureClient()
	if client == nil {
		return false, nil
	}

	key := fmt.Sprintf("blacklist:%s", token)
	_, err := client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}
	return true, nil
}

// ErrResetUnavailable is returned when reset codes cannot be stored.
var ErrResetUnavailable = errors.New("password reset is unavailable")

// StoreResetCode เก็บรหัสรีเซ็ตไว้ 15 นาที
func StoreResetCode(ctx context.Context, userID, code string) error {
	client := ensureClient()
	if client == nil {
		return ErrResetUnavailable
	}
	key := fmt.Sprintf("reset_code:%s", userID)
	if err := client.Set(ctx, key, code, ResetCodeTTL).Err(); err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}
	return nil
}

// ConsumeResetCode reports whether code matches the stored one and deletes it on success.
func ConsumeResetCode(ctx context.Context, userID, code string) (bool, error) {
	client := ensureClient()
	if client == nil {
		return false, ErrResetUnavailable
	}

	key := fmt.Sprintf("reset_code:%s", userID)
	stored, err := client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get reset code: %w", err)
	}
	if stored != code {
		return false, nil
	}
	if err := client.Del(ctx, key).Err(); err != nil {
		return false, fmt.Errorf("failed to delete reset code: %w", err)
	}
	return true, nil
}
