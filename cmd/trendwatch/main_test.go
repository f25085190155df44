package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/assist-by/trendwatch/internal/domain"
)

type clockExchange struct {
	now time.Time
	err error
}

func (c clockExchange) GetServerTime(ctx context.Context) (time.Time, error) {
	return c.now, c.err
}

func (c clockExchange) FetchOHLCV(ctx context.Context, symbol string, interval domain.TimeInterval, start time.Time) ([]domain.RawOHLCV, error) {
	return nil, nil
}

func TestTrendTask_CurrentTime(t *testing.T) {
	server := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	fixed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	task := &TrendTask{exchange: clockExchange{now: server}}
	assert.Equal(t, server, task.currentTime(context.Background()))

	task.fixedNow = fixed
	assert.Equal(t, fixed, task.currentTime(context.Background()))

	task = &TrendTask{exchange: clockExchange{err: errors.New("unreachable")}}
	before := time.Now().UTC()
	got := task.currentTime(context.Background())
	assert.False(t, got.Before(before))
	assert.WithinDuration(t, time.Now().UTC(), got, time.Second)
}
