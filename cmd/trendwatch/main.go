package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	osSignal "os/signal"
	"syscall"
	"time"

	"github.com/assist-by/trendwatch/internal/analysis/signal"
	"github.com/assist-by/trendwatch/internal/config"
	"github.com/assist-by/trendwatch/internal/domain"
	"github.com/assist-by/trendwatch/internal/exchange"
	"github.com/assist-by/trendwatch/internal/exchange/binance"
	"github.com/assist-by/trendwatch/internal/market"
	"github.com/assist-by/trendwatch/internal/metrics"
	"github.com/assist-by/trendwatch/internal/notification"
	"github.com/assist-by/trendwatch/internal/notification/discord"
	"github.com/assist-by/trendwatch/internal/report"
	"github.com/assist-by/trendwatch/internal/scheduler"
)

// TrendTask는 한 번의 조회/계산/출력 작업을 정의합니다
type TrendTask struct {
	pipeline     *signal.Pipeline
	exchange     exchange.Exchange
	notifier     notification.Notifier
	days         int
	boundaryHour int
	format       report.Format
	fixedNow     time.Time
}

// Execute는 조회 기간을 계산해 파이프라인을 실행하고 결과를 출력합니다
func (t *TrendTask) Execute(ctx context.Context) error {
	now := t.currentTime(ctx)
	start := domain.DailyBoundary(now, t.days, t.boundaryHour)
	log.Printf("조회 시작: %s ~ %s", start.Format(time.RFC3339), now.UTC().Format(time.RFC3339))

	result, err := t.pipeline.Run(ctx, start, now)
	if err != nil {
		if t.notifier != nil {
			if err := t.notifier.SendError(ctx, err); err != nil {
				log.Printf("에러 알림 전송 실패: %v", err)
			}
		}
		return err
	}

	return report.Write(os.Stdout, result, t.format)
}

// currentTime은 -now 플래그, 거래소 서버 시간, 로컬 시계 순으로 현재 시각을 결정합니다
func (t *TrendTask) currentTime(ctx context.Context) time.Time {
	if !t.fixedNow.IsZero() {
		return t.fixedNow
	}

	serverTime, err := t.exchange.GetServerTime(ctx)
	if err != nil {
		log.Printf("거래소 서버 시간 조회 실패, 로컬 시간 사용: %v", err)
		return time.Now().UTC()
	}
	return serverTime
}

func main() {
	// 명령줄 플래그 정의
	daysFlag := flag.Int("days", -1, "조회할 일수 (기본값: LOOKBACK_DAYS)")
	formatFlag := flag.String("format", "", "출력 형식: text, json, yaml (기본값: OUTPUT_FORMAT)")
	scheduleFlag := flag.Bool("schedule", false, "SCHEDULE_CRON에 맞춰 반복 실행")
	nowFlag := flag.String("now", "", "현재 시각 지정 (RFC3339)")

	// 플래그 파싱
	flag.Parse()

	// 로그 설정
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("트렌드 워치 시작...")

	// 설정 로드
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("설정 로드 실패: %v", err)
	}

	days := cfg.Market.LookbackDays
	if *daysFlag >= 0 {
		days = *daysFlag
	}

	outputFormat := cfg.App.OutputFormat
	if *formatFlag != "" {
		outputFormat = *formatFlag
	}
	format, err := report.ParseFormat(outputFormat)
	if err != nil {
		log.Fatalf("출력 형식 오류: %v", err)
	}

	var fixedNow time.Time
	if *nowFlag != "" {
		fixedNow, err = time.Parse(time.RFC3339, *nowFlag)
		if err != nil {
			log.Fatalf("-now 파싱 실패: %v", err)
		}
	}

	// 메트릭 생성
	m := metrics.NewMetrics("trendwatch")

	// 바이낸스 클라이언트 생성
	binanceClient := binance.NewClient(
		binance.WithBaseURL(cfg.Exchange.BaseURL),
		binance.WithTimeout(cfg.Exchange.RequestTimeout),
		binance.WithPageLimit(cfg.Exchange.PageLimit),
	)

	// 캔들 조회기 생성
	fetcher := market.NewFetcher(
		binanceClient,
		cfg.Market.Symbol,
		market.WithBoundaryHour(cfg.Market.BoundaryHour),
		market.WithMaxPages(cfg.Market.MaxPages),
		market.WithRequestTimeout(cfg.Exchange.RequestTimeout),
		market.WithStrictRows(cfg.Market.StrictRows),
		market.WithDedupOverlap(cfg.Market.DedupOverlap),
		market.WithRetryConfig(market.RetryConfig{
			MaxRetries: cfg.Retry.MaxRetries,
			BaseDelay:  cfg.Retry.BaseDelay,
			MaxDelay:   cfg.Retry.MaxDelay,
			Factor:     2.0,
		}),
		market.WithMetrics(m),
	)

	// Discord 클라이언트 생성 (웹훅이 없으면 차트를 보내지 않음)
	var (
		sink     notification.ChartSink = notification.NopSink{}
		notifier notification.Notifier
	)
	if cfg.Discord.ChartWebhook != "" {
		discordClient := discord.NewClient(cfg.Discord.ChartWebhook, discord.WithTimeout(10*time.Second))
		sink = discordClient
		notifier = discordClient
	}

	assembler := signal.Assembler{
		SMAPeriod: cfg.Indicator.SMAPeriod,
		EMAPeriod: cfg.Indicator.EMAPeriod,
		Mode:      cfg.WindowMode(),
	}

	task := &TrendTask{
		pipeline:     signal.NewPipeline(fetcher, assembler, sink, m),
		exchange:     binanceClient,
		notifier:     notifier,
		days:         days,
		boundaryHour: cfg.Market.BoundaryHour,
		format:       format,
		fixedNow:     fixedNow,
	}

	// 시그널 처리
	ctx, stop := osSignal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !*scheduleFlag {
		if err := task.Execute(ctx); err != nil {
			log.Printf("실행 실패: %v", err)
			stop()
			os.Exit(1)
		}
		return
	}

	// 메트릭 서버 시작
	var metricsServer *metrics.Server
	if cfg.App.MetricsAddr != "" {
		metricsServer = metrics.NewServer(cfg.App.MetricsAddr, m)
		metricsServer.Start()
	}

	// 스케줄러 생성
	s, err := scheduler.NewScheduler(cfg.App.ScheduleCron, task)
	if err != nil {
		log.Fatalf("스케줄러 생성 실패: %v", err)
	}

	if notifier != nil {
		msg := fmt.Sprintf("🚀 %s 추세 관찰을 시작합니다 (%s)", cfg.Market.Symbol, cfg.App.ScheduleCron)
		if err := notifier.SendInfo(ctx, msg); err != nil {
			log.Printf("시작 알림 전송 실패: %v", err)
		}
	}

	// 종료 신호까지 스케줄러 실행
	if err := s.Start(ctx); err != nil && ctx.Err() == nil {
		log.Printf("스케줄러 실행 중 에러 발생: %v", err)
	}
	log.Println("시스템 종료 신호 수신")

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Stop(shutdownCtx); err != nil {
			log.Printf("메트릭 서버 종료 실패: %v", err)
		}
		cancel()
	}

	log.Println("프로그램을 종료합니다.")
}
