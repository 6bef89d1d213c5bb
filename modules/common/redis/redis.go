package redis

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"virtual-studio-server/modules/common/config"
)

// Connect - Redis 연결 생성
func Connect(cfg *config.Config) *redis.Client {
	log.Printf("🔌 Connecting to Redis: %s", cfg.GetRedisAddr())

	var tlsConfig *tls.Config
	if cfg.RedisUseTLS {
		tlsConfig = &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: true, // Render.com Redis용
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Username:     cfg.RedisUsername,
		Password:     cfg.RedisPassword,
		TLSConfig:    tlsConfig,
		DB:           0,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Printf("🔍 Testing Redis connection...")
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("❌ Redis ping failed: %v", err)
		return nil
	}

	return rdb
}

// cancelKey - 세션별 생성 중단 플래그 키
func cancelKey(sessionID string) string {
	return fmt.Sprintf("cancel:session:%s", sessionID)
}

// MarkCancelled - 세션의 진행 중 생성에 중단 플래그 설정 (10분 TTL)
func MarkCancelled(ctx context.Context, rdb *redis.Client, sessionID string) error {
	if rdb == nil {
		return nil
	}
	return rdb.SetEx(ctx, cancelKey(sessionID), "1", 10*time.Minute).Err()
}

// IsCancelled - 중단 플래그 확인. Redis 미연결이면 항상 false
func IsCancelled(ctx context.Context, rdb *redis.Client, sessionID string) bool {
	if rdb == nil {
		return false
	}
	val, err := rdb.Get(ctx, cancelKey(sessionID)).Result()
	if err != nil {
		return false
	}
	return val == "1"
}

// ClearCancelled - 새 생성 패스 시작 시 플래그 제거
func ClearCancelled(ctx context.Context, rdb *redis.Client, sessionID string) {
	if rdb == nil {
		return
	}
	if err := rdb.Del(ctx, cancelKey(sessionID)).Err(); err != nil {
		log.Printf("⚠️ Failed to clear cancel flag for session %s: %v", sessionID, err)
	}
}
