package gemini

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

// TransientBackendError - 재시도 가능한 백엔드 에러 (429, quota, busy)
type TransientBackendError struct {
	Err error
}

func (e *TransientBackendError) Error() string {
	return fmt.Sprintf("transient backend error: %v", e.Err)
}

func (e *TransientBackendError) Unwrap() error {
	return e.Err
}

// IsRetryable - 재시도 가치가 있는 에러인지 분류
// 429/rate limit/quota/busy 패턴만 재시도, 검증/권한 에러는 즉시 실패
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var transient *TransientBackendError
	if errors.As(err, &transient) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "quota") ||
		strings.Contains(errStr, "busy") ||
		strings.Contains(errStr, "resource exhausted") ||
		strings.Contains(errStr, "overloaded")
}

// RetryOptions - 재시도 정책
// OnRetry는 대기 직전에 호출됨 (UI 진행 메시지 갱신용)
type RetryOptions struct {
	MaxAttempts int
	BaseDelay   time.Duration
	OnRetry     func(attempt int, delay time.Duration)
}

// DefaultRetryOptions - 키당 3회, 2초 간격 (지수 백오프)
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Second,
	}
}

// WithRetry - 재시도 가능한 에러에 한해 fn을 반복 실행
// 대기 중 ctx가 취소되면 즉시 ctx.Err() 반환
func WithRetry(ctx context.Context, opts RetryOptions, fn func(context.Context) error) error {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 2 * time.Second
	}

	var lastErr error
	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !IsRetryable(err) {
			return err
		}
		if attempt == opts.MaxAttempts {
			break
		}

		delay := opts.BaseDelay * time.Duration(1<<(attempt-1))
		log.Printf("⚠️  [Gemini Retry] Attempt %d/%d hit a transient error, retrying in %s: %v", attempt, opts.MaxAttempts, delay, err)
		if opts.OnRetry != nil {
			opts.OnRetry(attempt, delay)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("all %d attempts failed, last error: %w", opts.MaxAttempts, lastErr)
}
