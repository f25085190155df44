package market

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"syscall"
	"time"
)

// RetryConfig는 재시도 설정을 정의합니다
type RetryConfig struct {
	MaxRetries int           // 최대 재시도 횟수
	BaseDelay  time.Duration // 기본 대기 시간
	MaxDelay   time.Duration // 최대 대기 시간
	Factor     float64       // 대기 시간 증가 계수
}

// DefaultRetryConfig는 기본 재시도 설정을 반환합니다
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
		Factor:     2.0,
	}
}

// temporary는 재시도 가능 여부를 스스로 알려주는 에러입니다
type temporary interface {
	Temporary() bool
}

// IsRetryableError는 재시도로 해결될 수 있는 일시적 오류인지 확인합니다
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	// 요청별 타임아웃은 재시도 대상
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var t temporary
	if errors.As(err, &t) {
		if _, isNet := t.(net.Error); !isNet {
			return t.Temporary()
		}
	}

	// 연결이 끊기거나 거부된 경우만 재시도. 잘못된 URL, TLS, DNS 오류는 재시도하지 않음
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// withRetry는 재시도 로직을 구현한 래퍼 함수입니다
func (f *Fetcher) withRetry(ctx context.Context, operation string, fn func() error) error {
	var lastErr error
	delay := f.retry.BaseDelay

	for attempt := 0; attempt <= f.retry.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		// 재시도가 필요 없는 오류는 바로 반환
		if !IsRetryableError(err) {
			log.Printf("%s 실패 (재시도 불필요): %v", operation, err)
			return err
		}

		if attempt == f.retry.MaxRetries {
			return fmt.Errorf("%s 최대 재시도 횟수 초과: %w", operation, lastErr)
		}

		log.Printf("%s 실패 (attempt %d/%d): %v",
			operation, attempt+1, f.retry.MaxRetries, err)
		f.metrics.IncRetries()

		// 다음 재시도 전 대기
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			// 대기 시간을 증가시키되, 최대 대기 시간을 넘지 않도록 함
			delay = time.Duration(float64(delay) * f.retry.Factor)
			if f.retry.MaxDelay > 0 && delay > f.retry.MaxDelay {
				delay = f.retry.MaxDelay
			}
		}
	}
	return lastErr
}
