package indicator

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assist-by/trendwatch/internal/domain"
)

// 테스트용 일봉 데이터 생성
func generateTestCandles(t *testing.T) domain.CandleList {
	t.Helper()

	baseTime := time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC)
	prices := [][4]float64{
		// 상승 구간
		{100, 105, 98, 103}, {103, 108, 102, 106}, {106, 110, 104, 108},
		{108, 112, 107, 110}, {110, 115, 109, 113}, {113, 116, 111, 114},
		{114, 118, 113, 116}, {116, 119, 115, 117}, {117, 120, 114, 119},
		{119, 122, 118, 120},
		// 하락 구간
		{120, 121, 115, 116}, {116, 117, 112, 113}, {113, 115, 108, 109},
		{109, 110, 105, 106}, {106, 107, 102, 103},
		// 횡보 구간
		{103, 107, 102, 105}, {105, 108, 103, 104}, {104, 106, 102, 106},
		{106, 108, 104, 105}, {105, 107, 103, 104},
	}

	candles := make(domain.CandleList, 0, len(prices))
	for i, p := range prices {
		c, err := domain.NewCandle(domain.RawOHLCV{
			float64(baseTime.AddDate(0, 0, i).UnixMilli()), p[0], p[1], p[2], p[3], 1000 + float64(i)*100,
		})
		require.NoError(t, err)
		candles = append(candles, c)
	}
	return candles
}

func flatCandles(t *testing.T, n int, price float64) domain.CandleList {
	t.Helper()

	baseTime := time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC)
	candles := make(domain.CandleList, 0, n)
	for i := 0; i < n; i++ {
		c, err := domain.NewCandle(domain.RawOHLCV{
			float64(baseTime.AddDate(0, 0, i).UnixMilli()), price, price, price, price, 10,
		})
		require.NoError(t, err)
		candles = append(candles, c)
	}
	return candles
}

func TestSMA_IdenticalPrices(t *testing.T) {
	candles := flatCandles(t, 12, 100)

	results, err := SMA(candles, SMAOption{Period: 10})
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, r := range results {
		assert.Equal(t, 10, r.WindowSize)
		assert.InDelta(t, 100, r.TypicalPriceMA, 1e-9)
		assert.InDelta(t, 100, r.OHLCMA, 1e-9)
		assert.InDelta(t, 100, r.HighMA, 1e-9)
		assert.InDelta(t, 100, r.LowMA, 1e-9)
		assert.InDelta(t, 100, r.OpenMA, 1e-9)
		assert.InDelta(t, 100, r.CloseMA, 1e-9)
	}
}

func TestSMA_WindowMeans(t *testing.T) {
	candles := generateTestCandles(t)

	testCases := []struct {
		name   string
		period int
		mode   WindowMode
		want   int
	}{
		{"SMA(5) legacy", 5, LegacyWindows, len(candles) - 5},
		{"SMA(10) legacy", 10, LegacyWindows, len(candles) - 10},
		{"SMA(5) standard", 5, StandardWindows, len(candles) - 5 + 1},
		{"SMA(20) standard", 20, StandardWindows, 1},
		{"SMA(20) legacy", 20, LegacyWindows, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			results, err := SMA(candles, SMAOption{Period: tc.period, Mode: tc.mode})
			require.NoError(t, err)
			require.Len(t, results, tc.want)

			for i, r := range results {
				window := candles[i : i+tc.period]
				assert.Equal(t, tc.period, r.WindowSize)
				assert.Equal(t, window[len(window)-1].Timestamp, r.Timestamp)

				var sumClose, sumHigh, sumLow, sumOpen, sumTypical, sumOHLC float64
				for _, c := range window {
					sumClose += c.Close
					sumHigh += c.High
					sumLow += c.Low
					sumOpen += c.Open
					sumTypical += c.TypicalPrice
					sumOHLC += c.OHLCAverage
				}
				n := float64(tc.period)
				assert.InDelta(t, sumClose/n, r.CloseMA, 1e-9)
				assert.InDelta(t, sumHigh/n, r.HighMA, 1e-9)
				assert.InDelta(t, sumLow/n, r.LowMA, 1e-9)
				assert.InDelta(t, sumOpen/n, r.OpenMA, 1e-9)
				assert.InDelta(t, sumTypical/n, r.TypicalPriceMA, 1e-9)
				assert.InDelta(t, sumOHLC/n, r.OHLCMA, 1e-9)
			}
		})
	}
}

func TestSMA_Invalid(t *testing.T) {
	candles := flatCandles(t, 5, 100)

	_, err := SMA(candles, SMAOption{Period: 0})
	require.Error(t, err)

	results, err := SMA(candles, SMAOption{Period: 6})
	require.Error(t, err)
	assert.Nil(t, results)
	assert.True(t, errors.Is(err, ErrInsufficientHistory))

	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))
}

func TestSmoothingConstant(t *testing.T) {
	assert.Equal(t, 0.1818, SmoothingConstant(10))
	assert.Equal(t, 0.0952, SmoothingConstant(20))
	assert.Equal(t, 0.5, SmoothingConstant(3))
	assert.Equal(t, 0.6667, SmoothingConstant(2))
	assert.Equal(t, 0.0198, SmoothingConstant(100))
}

func TestEMA_Chain(t *testing.T) {
	candles := generateTestCandles(t)

	for _, mode := range []WindowMode{LegacyWindows, StandardWindows} {
		t.Run(mode.String(), func(t *testing.T) {
			period := 10
			results, err := EMA(candles, EMAOption{Period: period, Mode: mode})
			require.NoError(t, err)
			require.Len(t, results, len(candles)-period)

			seedSize := period
			if mode == LegacyWindows {
				seedSize = period - 1
			}
			var seed float64
			for _, c := range candles[:seedSize] {
				seed += c.Close
			}
			prev := seed / float64(seedSize)

			k := 0.1818
			for i, r := range results {
				c := candles[period+i]
				assert.Equal(t, period, r.Period)
				assert.Equal(t, k, r.K)
				assert.Equal(t, c.Timestamp, r.Timestamp)
				assert.Equal(t, c.Close, r.Price)
				assert.InDelta(t, prev+(c.Close-prev)*k, r.Value, 1e-9)
				prev = r.Value
			}
		})
	}
}

func TestEMA_LegacySeed(t *testing.T) {
	// 시드는 처음 2개 캔들(기간-1)의 종가 평균 = 15
	closes := []float64{10, 20, 30, 40}
	baseTime := time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC)
	candles := domain.CandleList{}
	for i, cl := range closes {
		c, err := domain.NewCandle(domain.RawOHLCV{float64(baseTime.AddDate(0, 0, i).UnixMilli()), cl, cl, cl, cl, 1})
		require.NoError(t, err)
		candles = append(candles, c)
	}

	results, err := EMA(candles, EMAOption{Period: 3})
	require.NoError(t, err)
	require.Len(t, results, 1)

	// k = 0.5, ema = 15 + (40 - 15) * 0.5
	assert.InDelta(t, 27.5, results[0].Value, 1e-9)

	results, err = EMA(candles, EMAOption{Period: 3, Mode: StandardWindows})
	require.NoError(t, err)
	require.Len(t, results, 1)

	// 시드 = 20, ema = 20 + (40 - 20) * 0.5
	assert.InDelta(t, 30, results[0].Value, 1e-9)
}

func TestEMA_Invalid(t *testing.T) {
	candles := flatCandles(t, 9, 100)

	_, err := EMA(candles, EMAOption{Period: 1})
	require.Error(t, err)

	_, err = EMA(candles, EMAOption{Period: 1, Mode: StandardWindows})
	require.NoError(t, err)

	results, err := EMA(candles, EMAOption{Period: 10})
	require.Error(t, err)
	assert.Nil(t, results)
	assert.True(t, errors.Is(err, ErrInsufficientHistory))
}

func TestEMA_ExactPeriodProducesNothing(t *testing.T) {
	candles := flatCandles(t, 10, 100)

	results, err := EMA(candles, EMAOption{Period: 10})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestNextEMA(t *testing.T) {
	assert.InDelta(t, 101.818, NextEMA(100, 110, 0.1818), 1e-9)
	assert.Equal(t, 100.0, NextEMA(100, 100, 0.1818))
}

func TestParseWindowMode(t *testing.T) {
	mode, err := ParseWindowMode("")
	require.NoError(t, err)
	assert.Equal(t, LegacyWindows, mode)

	mode, err = ParseWindowMode("standard")
	require.NoError(t, err)
	assert.Equal(t, StandardWindows, mode)

	_, err = ParseWindowMode("textbook")
	assert.Error(t, err)
}
