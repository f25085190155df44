// internal/exchange/exchange.go
package exchange

import (
	"context"
	"time"

	"github.com/assist-by/trendwatch/internal/domain"
)

// Exchange는 캔들 데이터 조회를 위한 거래소 인터페이스입니다.
type Exchange interface {
	// GetServerTime은 거래소 서버의 현재 시각을 반환합니다
	GetServerTime(ctx context.Context) (time.Time, error)

	// FetchOHLCV는 start부터 시작하는 원시 캔들 블록을 시간순으로 반환합니다.
	// 데이터가 없으면 빈 슬라이스를 반환합니다.
	FetchOHLCV(ctx context.Context, symbol string, interval domain.TimeInterval, start time.Time) ([]domain.RawOHLCV, error)
}
