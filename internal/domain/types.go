package domain

// TrendType은 종가와 지수이동평균의 관계로 판단한 추세를 정의합니다
type TrendType int

const (
	Neutral TrendType = iota
	Bullish           // 종가가 EMA 위
	Bearish           // 종가가 EMA 아래
)

// String은 TrendType의 문자열 표현을 반환합니다
func (t TrendType) String() string {
	switch t {
	case Neutral:
		return "Neutral"
	case Bullish:
		return "Bullish"
	case Bearish:
		return "Bearish"
	default:
		return "Unknown"
	}
}

// TimeInterval은 캔들 차트의 시간 간격을 정의합니다
type TimeInterval string

const (
	Interval1m  TimeInterval = "1m"
	Interval5m  TimeInterval = "5m"
	Interval15m TimeInterval = "15m"
	Interval30m TimeInterval = "30m"
	Interval1h  TimeInterval = "1h"
	Interval4h  TimeInterval = "4h"
	Interval12h TimeInterval = "12h"
	Interval1d  TimeInterval = "1d"
)

// NotificationColor는 알림 색상 코드를 정의합니다
const (
	ColorSuccess = 0x00FF00 // 녹색
	ColorError   = 0xFF0000 // 빨간색
	ColorInfo    = 0x0000FF // 파란색
)
