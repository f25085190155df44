package domain

import (
	"time"
)

// DefaultBoundaryHour는 일봉 경계 시각(UTC)의 기본값입니다
const DefaultBoundaryHour = 1

// TimeIntervalToDuration은 시간 간격을 time.Duration으로 변환합니다
func TimeIntervalToDuration(interval TimeInterval) time.Duration {
	switch interval {
	case Interval1m:
		return time.Minute
	case Interval5m:
		return 5 * time.Minute
	case Interval15m:
		return 15 * time.Minute
	case Interval30m:
		return 30 * time.Minute
	case Interval1h:
		return time.Hour
	case Interval4h:
		return 4 * time.Hour
	case Interval12h:
		return 12 * time.Hour
	case Interval1d:
		return 24 * time.Hour
	default:
		return 0
	}
}

// DailyBoundary는 now 기준 goBackDays일 전의 hour시 정각(UTC)을 반환합니다.
// goBackDays가 0이고 now가 아직 그 시각 이전이면 오늘 일봉이 마감되지 않았으므로
// 하루 전 경계를 반환합니다.
func DailyBoundary(now time.Time, goBackDays, hour int) time.Time {
	utc := now.UTC()
	boundary := time.Date(utc.Year(), utc.Month(), utc.Day(), hour, 0, 0, 0, time.UTC)
	boundary = boundary.AddDate(0, 0, -goBackDays)

	if goBackDays == 0 && utc.Before(boundary) {
		boundary = boundary.AddDate(0, 0, -1)
	}
	return boundary
}

