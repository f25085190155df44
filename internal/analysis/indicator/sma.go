package indicator

import (
	"fmt"
	"time"

	"github.com/assist-by/trendwatch/internal/domain"
)

// SMAOption은 SMA 계산에 필요한 옵션을 정의합니다
type SMAOption struct {
	Period int        // 윈도우 크기
	Mode   WindowMode // 윈도우 경계 방식
}

// SMAResult는 하나의 윈도우에 대한 단순이동평균입니다
type SMAResult struct {
	WindowSize     int
	Timestamp      time.Time // 윈도우 마지막 캔들의 시간
	TypicalPriceMA float64
	OHLCMA         float64
	HighMA         float64
	LowMA          float64
	OpenMA         float64
	CloseMA        float64
}

// String은 SMA 결과의 텍스트 표현을 반환합니다
func (r SMAResult) String() string {
	return fmt.Sprintf("Number of Days: %d Timestamp: %s Typical Price Moving Average: %g OHLC Moving Average: %g High Moving Average: %g Low Moving Average: %g Open Moving Average: %g Close Moving Average: %g",
		r.WindowSize, r.Timestamp.Format("2006-01-02 15:04:05"),
		r.TypicalPriceMA, r.OHLCMA, r.HighMA, r.LowMA, r.OpenMA, r.CloseMA)
}

// ValidateSMAOption은 SMA 옵션을 검증합니다
func ValidateSMAOption(opt SMAOption) error {
	if opt.Period < 1 {
		return &ValidationError{
			Field: "Period",
			Err:   fmt.Errorf("기간은 1 이상이어야 합니다: %d", opt.Period),
		}
	}
	return nil
}

// Average는 윈도우의 각 가격 필드 평균을 계산합니다
func Average(window domain.CandleList) SMAResult {
	n := float64(len(window))
	result := SMAResult{WindowSize: len(window)}
	if len(window) == 0 {
		return result
	}
	result.Timestamp = window[len(window)-1].Timestamp

	for _, c := range window {
		result.TypicalPriceMA += c.TypicalPrice
		result.OHLCMA += c.OHLCAverage
		result.HighMA += c.High
		result.LowMA += c.Low
		result.OpenMA += c.Open
		result.CloseMA += c.Close
	}

	result.TypicalPriceMA /= n
	result.OHLCMA /= n
	result.HighMA /= n
	result.LowMA /= n
	result.OpenMA /= n
	result.CloseMA /= n
	return result
}

// SMA는 단순이동평균을 계산합니다.
// LegacyWindows는 시작 위치 0 .. len-n-1 (len-n개),
// StandardWindows는 0 .. len-n (len-n+1개)의 윈도우를 계산합니다.
func SMA(candles domain.CandleList, opt SMAOption) ([]SMAResult, error) {
	if err := ValidateSMAOption(opt); err != nil {
		return nil, err
	}
	if len(candles) < opt.Period {
		return nil, insufficient(opt.Period, len(candles))
	}

	count := len(candles) - opt.Period
	if opt.Mode == StandardWindows {
		count++
	}

	results := make([]SMAResult, 0, count)
	for i := 0; i < count; i++ {
		results = append(results, Average(candles[i:i+opt.Period]))
	}

	return results, nil
}
