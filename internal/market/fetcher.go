package market

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/assist-by/trendwatch/internal/domain"
	"github.com/assist-by/trendwatch/internal/exchange"
	"github.com/assist-by/trendwatch/internal/metrics"
)

// DefaultMaxPages는 한 번의 조회에서 요청할 수 있는 최대 페이지 수입니다
const DefaultMaxPages = 64

// FetchResult는 조회가 끝난 캔들 시리즈입니다
type FetchResult struct {
	Candles  domain.CandleList
	Skipped  []SkipDiagnostic
	Pages    int       // 요청한 페이지 수
	Boundary time.Time // 완료 판정에 사용한 경계 시각
}

// Fetcher는 거래소에서 일봉 시리즈를 페이지 단위로 조회합니다
type Fetcher struct {
	exchange       exchange.Exchange
	symbol         string
	interval       domain.TimeInterval
	boundaryHour   int
	maxPages       int
	requestTimeout time.Duration
	strictRows     bool
	dedupOverlap   bool
	retry          RetryConfig
	metrics        *metrics.Metrics
}

// FetcherOption은 Fetcher의 옵션을 정의합니다
type FetcherOption func(*Fetcher)

// WithBoundaryHour는 일봉 경계 시각(UTC)을 설정합니다
func WithBoundaryHour(hour int) FetcherOption {
	return func(f *Fetcher) {
		f.boundaryHour = hour
	}
}

// WithMaxPages는 최대 페이지 수를 설정합니다
func WithMaxPages(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxPages = n
		}
	}
}

// WithRequestTimeout은 페이지 요청 하나의 타임아웃을 설정합니다
func WithRequestTimeout(timeout time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.requestTimeout = timeout
	}
}

// WithStrictRows는 잘못된 블록이 있으면 조회 전체를 실패시킵니다
func WithStrictRows(strict bool) FetcherOption {
	return func(f *Fetcher) {
		f.strictRows = strict
	}
}

// WithDedupOverlap은 이어지는 페이지의 중복된 첫 블록을 제거합니다
func WithDedupOverlap(dedup bool) FetcherOption {
	return func(f *Fetcher) {
		f.dedupOverlap = dedup
	}
}

// WithRetryConfig는 재시도 설정을 지정합니다
func WithRetryConfig(config RetryConfig) FetcherOption {
	return func(f *Fetcher) {
		f.retry = config
	}
}

// WithMetrics는 메트릭 수집기를 지정합니다
func WithMetrics(m *metrics.Metrics) FetcherOption {
	return func(f *Fetcher) {
		f.metrics = m
	}
}

// NewFetcher는 새로운 캔들 조회기를 생성합니다
func NewFetcher(ex exchange.Exchange, symbol string, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		exchange:     ex,
		symbol:       symbol,
		interval:     domain.Interval1d,
		boundaryHour: domain.DefaultBoundaryHour,
		maxPages:     DefaultMaxPages,
		retry:        DefaultRetryConfig(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Symbol은 조회 대상 심볼을 반환합니다
func (f *Fetcher) Symbol() string {
	return f.symbol
}

// FetchSeries는 start부터 now 기준 오늘 경계까지의 일봉을 조회합니다.
// 응답이 경계에 도달하지 못하면 마지막 블록의 시각부터 다음 페이지를 요청합니다.
func (f *Fetcher) FetchSeries(ctx context.Context, start, now time.Time) (FetchResult, error) {
	result, err := f.fetchSeries(ctx, start, now)
	f.metrics.ObserveFetch(len(result.Candles), ErrorKind(err))
	return result, err
}

func (f *Fetcher) fetchSeries(ctx context.Context, start, now time.Time) (FetchResult, error) {
	boundary := domain.DailyBoundary(now, 0, f.boundaryHour)
	boundaryMillis := boundary.UnixMilli()

	var (
		rows     []domain.RawOHLCV
		cursor   = start
		lastSeen int64
		pages    int
	)

	for {
		if pages >= f.maxPages {
			return FetchResult{Pages: pages}, NewFetchError(f.symbol, "페이지 조회", cursor,
				fmt.Errorf("%w: %d", ErrTooManyPages, f.maxPages))
		}

		page, err := f.fetchPage(ctx, cursor)
		pages++
		if err != nil {
			return FetchResult{Pages: pages}, NewFetchError(f.symbol, "페이지 조회", cursor, err)
		}

		// 빈 응답
		if len(page) == 0 {
			log.Printf("%s 캔들 데이터를 받지 못했습니다 (시작: %s)", f.symbol, cursor.Format(time.RFC3339))
			return FetchResult{Pages: pages}, NewFetchError(f.symbol, "페이지 조회", cursor, ErrDataUnavailable)
		}

		// 시작 시간 확인
		first, _ := page[0].OpenTimeMillis()
		if first != cursor.UnixMilli() {
			log.Printf("%s 시작 시간 불일치: %d (요청: %d)", f.symbol, first, cursor.UnixMilli())
			return FetchResult{Pages: pages}, NewFetchError(f.symbol, "시작 시간 확인", cursor,
				fmt.Errorf("%w: 응답 %d, 요청 %d", ErrMisalignedWindow, first, cursor.UnixMilli()))
		}

		last, _ := page[len(page)-1].OpenTimeMillis()
		if pages > 1 && last <= lastSeen {
			return FetchResult{Pages: pages}, NewFetchError(f.symbol, "페이지 진행 확인", cursor,
				fmt.Errorf("%w: 마지막 시각 %d (이전 %d)", ErrStalledPagination, last, lastSeen))
		}

		if pages > 1 && f.dedupOverlap {
			page = page[1:]
		}
		rows = append(rows, page...)
		f.metrics.IncPages()

		if last == boundaryMillis {
			break
		}

		next := time.UnixMilli(last).UTC()
		log.Printf("%s 전체 데이터를 받지 못했습니다. 추가 조회 중.. (다음 시작: %s, 남은 캔들: 약 %d개)",
			f.symbol, next.Format(time.RFC3339), remainingCandles(next, boundary, f.interval))
		lastSeen = last
		cursor = next
	}

	normalized := Normalize(rows)
	f.metrics.AddSkipped(len(normalized.Skipped))

	if f.strictRows {
		if err := normalized.Err(); err != nil {
			return FetchResult{Pages: pages}, NewFetchError(f.symbol, "정규화", start, err)
		}
	}

	return FetchResult{
		Candles:  normalized.Candles,
		Skipped:  normalized.Skipped,
		Pages:    pages,
		Boundary: boundary,
	}, nil
}

// remainingCandles는 from부터 boundary까지 남은 캔들 수를 추정합니다
func remainingCandles(from, boundary time.Time, interval domain.TimeInterval) int {
	step := domain.TimeIntervalToDuration(interval)
	if step <= 0 || !from.Before(boundary) {
		return 0
	}
	return int(boundary.Sub(from) / step)
}

// fetchPage는 재시도와 타임아웃을 적용해 한 페이지를 요청합니다
func (f *Fetcher) fetchPage(ctx context.Context, cursor time.Time) ([]domain.RawOHLCV, error) {
	var page []domain.RawOHLCV

	operation := fmt.Sprintf("%s 캔들 데이터 조회", f.symbol)
	err := f.withRetry(ctx, operation, func() error {
		reqCtx := ctx
		if f.requestTimeout > 0 {
			var cancel context.CancelFunc
			reqCtx, cancel = context.WithTimeout(ctx, f.requestTimeout)
			defer cancel()
		}

		started := time.Now()
		rows, err := f.exchange.FetchOHLCV(reqCtx, f.symbol, f.interval, cursor)
		f.metrics.ObserveRequest(time.Since(started), err)
		if err != nil {
			return err
		}
		page = rows
		return nil
	})

	return page, err
}
