package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCandle(t *testing.T) {
	candle, err := NewCandle(RawOHLCV{1000, 100, 110, 90, 105, 50})
	require.NoError(t, err)

	assert.Equal(t, time.Unix(1, 0).UTC(), candle.Timestamp)
	assert.Equal(t, 100.0, candle.Open)
	assert.Equal(t, 110.0, candle.High)
	assert.Equal(t, 90.0, candle.Low)
	assert.Equal(t, 105.0, candle.Close)
	assert.Equal(t, 50.0, candle.Volume)
	assert.InDelta(t, 101.6666666667, candle.TypicalPrice, 1e-9)
	assert.InDelta(t, 101.25, candle.OHLCAverage, 1e-9)
}

func TestNewCandle_DerivedPrices(t *testing.T) {
	rows := []RawOHLCV{
		{86401000, 105, 115, 95, 110, 60},
		{0, 1.5, 2.25, 0.75, 1.125, 0},
		{1700000000000, 37000.1, 37555.5, 36800.9, 37210.3, 1234.5},
	}

	for _, raw := range rows {
		candle, err := NewCandle(raw)
		require.NoError(t, err)
		assert.InDelta(t, (raw[2]+raw[3]+raw[4])/3, candle.TypicalPrice, 1e-9)
		assert.InDelta(t, (raw[1]+raw[2]+raw[3]+raw[4])/4, candle.OHLCAverage, 1e-9)
	}
}

func TestNewCandle_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  RawOHLCV
	}{
		{"빈 블록", RawOHLCV{}},
		{"필드 4개", RawOHLCV{1000, 100, 110, 90}},
		{"필드 7개", RawOHLCV{1000, 100, 110, 90, 105, 50, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCandle(tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedRecord))
		})
	}
}

func TestCandleList(t *testing.T) {
	var empty CandleList
	_, ok := empty.GetLastCandle()
	assert.False(t, ok)

	list := CandleList{}
	for i := 0; i < 3; i++ {
		c, err := NewCandle(RawOHLCV{float64(i) * 86400000, 1, 2, 0.5, float64(i + 1), 10})
		require.NoError(t, err)
		list = append(list, c)
	}

	last, ok := list.GetLastCandle()
	require.True(t, ok)
	assert.Equal(t, 3.0, last.Close)
	assert.Equal(t, []float64{1, 2, 3}, list.Closes())
}

func TestCandle_String(t *testing.T) {
	candle, err := NewCandle(RawOHLCV{86400000, 100, 110, 90, 105, 50})
	require.NoError(t, err)

	s := candle.String()
	assert.Contains(t, s, "Timestamp: 1970-01-02 00:00:00")
	assert.Contains(t, s, "Open price: 100")
	assert.Contains(t, s, "Close price: 105")
	assert.Contains(t, s, "Volume: 50")
}
