package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrMalformedRecord는 원시 OHLCV 블록의 필드 수가 6개가 아닐 때 반환됩니다
var ErrMalformedRecord = errors.New("잘못된 OHLCV 블록")

// RawOHLCVFields는 원시 OHLCV 블록의 필드 개수입니다
const RawOHLCVFields = 6

// RawOHLCV는 거래소가 반환하는 원시 캔들 블록입니다
// [timestampMillis, open, high, low, close, volume]
type RawOHLCV []float64

// OpenTimeMillis는 블록의 타임스탬프(ms)를 반환합니다
func (r RawOHLCV) OpenTimeMillis() (int64, bool) {
	if len(r) == 0 {
		return 0, false
	}
	return int64(r[0]), true
}

// Candle은 일봉 하나를 표현합니다. NewCandle로만 생성하며 생성 후 변경하지 않습니다
type Candle struct {
	Timestamp    time.Time // 캔들 시작 시간 (UTC)
	Open         float64   // 시가
	High         float64   // 고가
	Low          float64   // 저가
	Close        float64   // 종가
	Volume       float64   // 거래량
	TypicalPrice float64   // (고가 + 저가 + 종가) / 3
	OHLCAverage  float64   // (시가 + 고가 + 저가 + 종가) / 4
}

// NewCandle은 원시 블록에서 캔들을 생성합니다
func NewCandle(raw RawOHLCV) (Candle, error) {
	if len(raw) != RawOHLCVFields {
		return Candle{}, fmt.Errorf("%w: 필드 %d개 (필요: %d)", ErrMalformedRecord, len(raw), RawOHLCVFields)
	}

	open, high, low, closePrice := raw[1], raw[2], raw[3], raw[4]
	return Candle{
		Timestamp:    time.UnixMilli(int64(raw[0])).UTC(),
		Open:         open,
		High:         high,
		Low:          low,
		Close:        closePrice,
		Volume:       raw[5],
		TypicalPrice: TypicalPrice(high, low, closePrice),
		OHLCAverage:  OHLCAverage(open, high, low, closePrice),
	}, nil
}

// TypicalPrice는 (고가 + 저가 + 종가) / 3 을 계산합니다
func TypicalPrice(high, low, closePrice float64) float64 {
	return (high + low + closePrice) / 3
}

// OHLCAverage는 시가, 고가, 저가, 종가의 평균을 계산합니다
func OHLCAverage(open, high, low, closePrice float64) float64 {
	return (open + high + low + closePrice) / 4
}

// String은 캔들의 텍스트 표현을 반환합니다
func (c Candle) String() string {
	return fmt.Sprintf("Timestamp: %s Open price: %g High price: %g Low price: %g Close price: %g Typical price: %g Volume: %g",
		c.Timestamp.Format("2006-01-02 15:04:05"), c.Open, c.High, c.Low, c.Close, c.TypicalPrice, c.Volume)
}

// CandleList는 캔들 데이터 목록입니다
type CandleList []Candle

// GetLastCandle은 가장 최근 캔들을 반환합니다
func (cl CandleList) GetLastCandle() (Candle, bool) {
	if len(cl) == 0 {
		return Candle{}, false
	}
	return cl[len(cl)-1], true
}

// Closes는 종가 목록을 반환합니다
func (cl CandleList) Closes() []float64 {
	closes := make([]float64, len(cl))
	for i, c := range cl {
		closes[i] = c.Close
	}
	return closes
}
