package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/assist-by/trendwatch/internal/analysis/indicator"
	"github.com/assist-by/trendwatch/internal/report"
)

type Config struct {
	// 거래소 설정
	Exchange struct {
		BaseURL        string        `envconfig:"EXCHANGE_BASE_URL" default:"https://api.binance.com"`
		PageLimit      int           `envconfig:"PAGE_LIMIT" default:"1000"`
		RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
	}

	// 캔들 조회 설정
	Market struct {
		Symbol       string `envconfig:"SYMBOL" default:"BTCUSDT"`
		LookbackDays int    `envconfig:"LOOKBACK_DAYS" default:"30"`
		BoundaryHour int    `envconfig:"BOUNDARY_HOUR" default:"0"` // 바이낸스 일봉은 00:00 UTC에 시작
		MaxPages     int    `envconfig:"MAX_PAGES" default:"64"`
		StrictRows   bool   `envconfig:"STRICT_ROWS" default:"false"`
		DedupOverlap bool   `envconfig:"DEDUP_OVERLAP" default:"false"`
	}

	// 재시도 설정
	Retry struct {
		MaxRetries int           `envconfig:"RETRY_MAX" default:"3"`
		BaseDelay  time.Duration `envconfig:"RETRY_BASE_DELAY" default:"1s"`
		MaxDelay   time.Duration `envconfig:"RETRY_MAX_DELAY" default:"30s"`
	}

	// 지표 설정
	Indicator struct {
		SMAPeriod  int    `envconfig:"SMA_PERIOD" default:"10"`
		EMAPeriod  int    `envconfig:"EMA_PERIOD" default:"10"`
		WindowMode string `envconfig:"WINDOW_MODE" default:"legacy"`
	}

	// 디스코드 웹훅 설정 (비어 있으면 차트를 보내지 않음)
	Discord struct {
		ChartWebhook string `envconfig:"DISCORD_CHART_WEBHOOK"`
	}

	// 애플리케이션 설정
	App struct {
		ScheduleCron string `envconfig:"SCHEDULE_CRON" default:"0 5 1 * * *"`
		MetricsAddr  string `envconfig:"METRICS_ADDR"`
		OutputFormat string `envconfig:"OUTPUT_FORMAT" default:"text"`
	}
}

// ValidateConfig는 설정이 유효한지 확인합니다.
func ValidateConfig(cfg *Config) error {
	if cfg.Market.Symbol == "" {
		return fmt.Errorf("SYMBOL은 비어 있을 수 없습니다")
	}

	if cfg.Exchange.PageLimit < 1 || cfg.Exchange.PageLimit > 1000 {
		return fmt.Errorf("PAGE_LIMIT은 1 이상 1000 이하이어야 합니다")
	}

	if cfg.Exchange.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT은 0보다 커야 합니다")
	}

	if cfg.Market.LookbackDays < 0 {
		return fmt.Errorf("LOOKBACK_DAYS는 0 이상이어야 합니다")
	}

	if cfg.Market.BoundaryHour < 0 || cfg.Market.BoundaryHour > 23 {
		return fmt.Errorf("BOUNDARY_HOUR는 0 이상 23 이하이어야 합니다")
	}

	if cfg.Market.MaxPages < 1 {
		return fmt.Errorf("MAX_PAGES는 1 이상이어야 합니다")
	}

	if cfg.Retry.MaxRetries < 0 {
		return fmt.Errorf("RETRY_MAX는 0 이상이어야 합니다")
	}

	if cfg.Retry.MaxDelay < cfg.Retry.BaseDelay {
		return fmt.Errorf("RETRY_MAX_DELAY는 RETRY_BASE_DELAY 이상이어야 합니다")
	}

	if cfg.Indicator.SMAPeriod < 1 || cfg.Indicator.EMAPeriod < 1 {
		return fmt.Errorf("SMA_PERIOD와 EMA_PERIOD는 1 이상이어야 합니다")
	}

	mode, err := indicator.ParseWindowMode(cfg.Indicator.WindowMode)
	if err != nil {
		return err
	}
	if mode == indicator.LegacyWindows && cfg.Indicator.EMAPeriod < 2 {
		return fmt.Errorf("legacy 모드에서 EMA_PERIOD는 2 이상이어야 합니다")
	}

	if _, err := report.ParseFormat(cfg.App.OutputFormat); err != nil {
		return err
	}

	return nil
}

// WindowMode는 설정된 윈도우 모드를 반환합니다. ValidateConfig를 통과한 설정에서만 호출합니다
func (c *Config) WindowMode() indicator.WindowMode {
	mode, _ := indicator.ParseWindowMode(c.Indicator.WindowMode)
	return mode
}

// LoadConfig는 환경변수에서 설정을 로드합니다.
// .env 파일이 있으면 먼저 읽고, 없으면 환경변수만 사용합니다.
func LoadConfig() (*Config, error) {
	// .env 파일 로드
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf(".env 파일 로드 실패: %w", err)
	}

	var cfg Config
	// 환경변수를 구조체로 파싱
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("환경변수 처리 실패: %w", err)
	}

	// 설정값 검증
	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("설정값 검증 실패: %w", err)
	}

	return &cfg, nil
}
