package indicator

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/assist-by/trendwatch/internal/domain"
)

// smoothingPlaces는 평활 계수의 소수점 자리수입니다
const smoothingPlaces = 4

// EMAOption은 EMA 계산에 필요한 옵션을 정의합니다
type EMAOption struct {
	Period int        // 기간
	Mode   WindowMode // 시드 윈도우 방식
}

// EMAResult는 하나의 캔들에 대한 지수이동평균입니다
type EMAResult struct {
	Period    int
	K         float64   // 평활 계수
	Timestamp time.Time // 캔들 시간
	Price     float64   // 종가
	Value     float64   // EMA 값
}

// String은 EMA 결과의 텍스트 표현을 반환합니다
func (r EMAResult) String() string {
	return fmt.Sprintf("Number of Days: %d K: %g Timestamp: %s Price: %g EMA: %g",
		r.Period, r.K, r.Timestamp.Format("2006-01-02 15:04:05"), r.Price, r.Value)
}

// ValidateEMAOption은 EMA 옵션을 검증합니다
func ValidateEMAOption(opt EMAOption) error {
	minPeriod := 1
	if opt.Mode == LegacyWindows {
		// 시드 윈도우가 기간-1개이므로 최소 2
		minPeriod = 2
	}
	if opt.Period < minPeriod {
		return &ValidationError{
			Field: "Period",
			Err:   fmt.Errorf("기간은 %d 이상이어야 합니다: %d", minPeriod, opt.Period),
		}
	}
	return nil
}

// SmoothingConstant는 2/(기간+1)을 소수점 넷째 자리로 반올림한 값입니다
func SmoothingConstant(period int) float64 {
	k := decimal.NewFromInt(2).Div(decimal.NewFromInt(int64(period + 1)))
	return k.Round(smoothingPlaces).InexactFloat64()
}

// NextEMA는 이전 EMA와 현재 종가로 다음 EMA를 계산합니다
// EMA = 이전 EMA + (현재가 - 이전 EMA) × k
func NextEMA(prev, price, k float64) float64 {
	return prev + (price-prev)*k
}

// EMA는 지수이동평균을 계산합니다.
// 시드는 LegacyWindows에서 처음 기간-1개, StandardWindows에서 처음 기간 개 캔들의
// 종가 평균이며, 결과는 candles[기간:]의 각 캔들마다 하나씩 순서대로 생성됩니다.
func EMA(candles domain.CandleList, opt EMAOption) ([]EMAResult, error) {
	if err := ValidateEMAOption(opt); err != nil {
		return nil, err
	}
	if len(candles) < opt.Period {
		return nil, insufficient(opt.Period, len(candles))
	}

	seedSize := opt.Period
	if opt.Mode == LegacyWindows {
		seedSize = opt.Period - 1
	}

	// 초기 SMA를 첫 번째 이전 EMA로 사용
	prev := Average(candles[:seedSize]).CloseMA
	k := SmoothingConstant(opt.Period)

	results := make([]EMAResult, 0, len(candles)-opt.Period)
	for _, c := range candles[opt.Period:] {
		ema := NextEMA(prev, c.Close, k)
		results = append(results, EMAResult{
			Period:    opt.Period,
			K:         k,
			Timestamp: c.Timestamp,
			Price:     c.Close,
			Value:     ema,
		})
		prev = ema
	}

	return results, nil
}
