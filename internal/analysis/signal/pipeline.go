package signal

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/assist-by/trendwatch/internal/domain"
	"github.com/assist-by/trendwatch/internal/market"
	"github.com/assist-by/trendwatch/internal/metrics"
	"github.com/assist-by/trendwatch/internal/notification"
)

// Report는 한 번의 파이프라인 실행 결과입니다
type Report struct {
	Symbol   string
	Start    time.Time
	Boundary time.Time
	Trend    string
	Candles  domain.CandleList
	Skipped  []market.SkipDiagnostic
	Signals  Signals
}

// Pipeline은 캔들 조회부터 지표 계산, 차트 전송까지의 흐름을 묶습니다
type Pipeline struct {
	Fetcher   *market.Fetcher
	Assembler Assembler
	Sink      notification.ChartSink
	Metrics   *metrics.Metrics
}

// NewPipeline은 새로운 파이프라인을 생성합니다. sink가 nil이면 NopSink를 사용합니다
func NewPipeline(fetcher *market.Fetcher, assembler Assembler, sink notification.ChartSink, m *metrics.Metrics) *Pipeline {
	if sink == nil {
		sink = notification.NopSink{}
	}
	return &Pipeline{
		Fetcher:   fetcher,
		Assembler: assembler,
		Sink:      sink,
		Metrics:   m,
	}
}

// Run은 start부터 now 기준 경계까지의 일봉을 조회해 지표를 계산합니다.
// 차트 전송 실패는 로그만 남기고 실행을 실패시키지 않습니다.
func (p *Pipeline) Run(ctx context.Context, start, now time.Time) (report Report, err error) {
	started := time.Now()
	defer func() {
		p.Metrics.ObserveRun(time.Since(started), err)
	}()

	symbol := p.Fetcher.Symbol()
	fetched, err := p.Fetcher.FetchSeries(ctx, start, now)
	if err != nil {
		return Report{}, fmt.Errorf("%s 캔들 조회 실패: %w", symbol, err)
	}

	signals, err := p.Assembler.FindTradingSignals(fetched.Candles)
	if err != nil {
		return Report{}, fmt.Errorf("%s 지표 계산 실패: %w", symbol, err)
	}

	report = Report{
		Symbol:   symbol,
		Start:    start,
		Boundary: fetched.Boundary,
		Trend:    signals.Trend().String(),
		Candles:  fetched.Candles,
		Skipped:  fetched.Skipped,
		Signals:  signals,
	}
	p.observeLatest(report)

	if p.Sink != nil {
		if err := p.Sink.PublishChart(ctx, symbol, fetched.Candles, signals.SMA); err != nil {
			log.Printf("%s 차트 전송 실패: %v", symbol, err)
		}
	}

	log.Printf("%s 지표 계산 완료: 캔들 %d개, SMA %d개, EMA %d개, 추세 %s",
		symbol, len(report.Candles), len(signals.SMA), len(signals.EMA), report.Trend)

	return report, nil
}

func (p *Pipeline) observeLatest(r Report) {
	last, ok := r.Candles.GetLastCandle()
	if !ok {
		return
	}

	var ema, smaClose float64
	if n := len(r.Signals.EMA); n > 0 {
		ema = r.Signals.EMA[n-1].Value
	}
	if n := len(r.Signals.SMA); n > 0 {
		smaClose = r.Signals.SMA[n-1].CloseMA
	}
	p.Metrics.SetLatest(last.Close, ema, smaClose)
}
