package notification

import (
	"context"

	"github.com/assist-by/trendwatch/internal/analysis/indicator"
	"github.com/assist-by/trendwatch/internal/domain"
)

// ChartSink는 캔들과 이동평균선을 차트로 출력하는 대상을 정의합니다
type ChartSink interface {
	// PublishChart는 캔들 시리즈와 이동평균 시리즈를 전달합니다
	PublishChart(ctx context.Context, symbol string, candles domain.CandleList, sma []indicator.SMAResult) error
}

// Notifier는 일반 알림 전송 인터페이스를 정의합니다
type Notifier interface {
	// SendError는 에러 알림을 전송합니다
	SendError(ctx context.Context, err error) error

	// SendInfo는 일반 정보 알림을 전송합니다
	SendInfo(ctx context.Context, message string) error
}

// NopSink는 아무것도 하지 않는 ChartSink입니다
type NopSink struct{}

// PublishChart는 아무 작업 없이 nil을 반환합니다
func (NopSink) PublishChart(context.Context, string, domain.CandleList, []indicator.SMAResult) error {
	return nil
}

// GetColorForTrend는 추세에 따른 색상을 반환합니다
func GetColorForTrend(trend domain.TrendType) int {
	switch trend {
	case domain.Bullish:
		return domain.ColorSuccess
	case domain.Bearish:
		return domain.ColorError
	default:
		return domain.ColorInfo
	}
}
