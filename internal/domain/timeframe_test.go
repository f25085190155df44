package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDailyBoundary(t *testing.T) {
	tests := []struct {
		name       string
		now        time.Time
		goBackDays int
		want       time.Time
	}{
		{
			name: "01시 이후 오늘",
			now:  time.Date(2024, 3, 10, 8, 30, 0, 0, time.UTC),
			want: time.Date(2024, 3, 10, 1, 0, 0, 0, time.UTC),
		},
		{
			name: "01시 이전이면 어제",
			now:  time.Date(2024, 3, 10, 0, 45, 0, 0, time.UTC),
			want: time.Date(2024, 3, 9, 1, 0, 0, 0, time.UTC),
		},
		{
			name: "정확히 01시",
			now:  time.Date(2024, 3, 10, 1, 0, 0, 0, time.UTC),
			want: time.Date(2024, 3, 10, 1, 0, 0, 0, time.UTC),
		},
		{
			name:       "30일 전",
			now:        time.Date(2024, 3, 10, 8, 30, 0, 0, time.UTC),
			goBackDays: 30,
			want:       time.Date(2024, 2, 9, 1, 0, 0, 0, time.UTC),
		},
		{
			name:       "과거 조회는 01시 이전이어도 보정하지 않음",
			now:        time.Date(2024, 3, 10, 0, 15, 0, 0, time.UTC),
			goBackDays: 2,
			want:       time.Date(2024, 3, 8, 1, 0, 0, 0, time.UTC),
		},
		{
			name: "다른 시간대 입력",
			now:  time.Date(2024, 3, 10, 11, 30, 0, 0, time.FixedZone("KST", 9*60*60)),
			want: time.Date(2024, 3, 10, 1, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DailyBoundary(tt.now, tt.goBackDays, DefaultBoundaryHour)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestTimeIntervalToDuration(t *testing.T) {
	assert.Equal(t, 24*time.Hour, TimeIntervalToDuration(Interval1d))
	assert.Equal(t, 15*time.Minute, TimeIntervalToDuration(Interval15m))
	assert.Equal(t, time.Duration(0), TimeIntervalToDuration(TimeInterval("2w")))
}
