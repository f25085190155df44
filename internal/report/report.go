package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/assist-by/trendwatch/internal/analysis/signal"
)

// Format은 리포트 출력 형식을 정의합니다
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat은 문자열을 출력 형식으로 변환합니다. 빈 문자열은 text입니다
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return Format(s), nil
	default:
		return "", fmt.Errorf("지원하지 않는 출력 형식: %s", s)
	}
}

// Document는 JSON/YAML로 직렬화되는 리포트입니다
type Document struct {
	Symbol   string      `json:"symbol" yaml:"symbol"`
	Start    time.Time   `json:"start" yaml:"start"`
	Boundary time.Time   `json:"boundary" yaml:"boundary"`
	Candles  int         `json:"candles" yaml:"candles"`
	Trend    string      `json:"trend" yaml:"trend"`
	Skipped  []SkipEntry `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	SMA      []SMAPoint  `json:"sma" yaml:"sma"`
	EMA      []EMAPoint  `json:"ema" yaml:"ema"`
}

// SkipEntry는 정규화 중 건너뛴 블록입니다
type SkipEntry struct {
	Index  int    `json:"index" yaml:"index"`
	Fields int    `json:"fields" yaml:"fields"`
	Reason string `json:"reason" yaml:"reason"`
}

// SMAPoint는 하나의 SMA 윈도우입니다
type SMAPoint struct {
	Timestamp      time.Time `json:"timestamp" yaml:"timestamp"`
	WindowSize     int       `json:"windowSize" yaml:"windowSize"`
	TypicalPriceMA float64   `json:"typicalPriceMA" yaml:"typicalPriceMA"`
	OHLCMA         float64   `json:"ohlcMA" yaml:"ohlcMA"`
	HighMA         float64   `json:"highMA" yaml:"highMA"`
	LowMA          float64   `json:"lowMA" yaml:"lowMA"`
	OpenMA         float64   `json:"openMA" yaml:"openMA"`
	CloseMA        float64   `json:"closeMA" yaml:"closeMA"`
}

// EMAPoint는 하나의 EMA 값입니다
type EMAPoint struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Period    int       `json:"period" yaml:"period"`
	K         float64   `json:"k" yaml:"k"`
	Price     float64   `json:"price" yaml:"price"`
	EMA       float64   `json:"ema" yaml:"ema"`
}

// NewDocument는 파이프라인 결과를 직렬화용 문서로 변환합니다
func NewDocument(r signal.Report) Document {
	doc := Document{
		Symbol:   r.Symbol,
		Start:    r.Start.UTC(),
		Boundary: r.Boundary.UTC(),
		Candles:  len(r.Candles),
		Trend:    r.Trend,
		SMA:      make([]SMAPoint, 0, len(r.Signals.SMA)),
		EMA:      make([]EMAPoint, 0, len(r.Signals.EMA)),
	}

	for _, s := range r.Skipped {
		doc.Skipped = append(doc.Skipped, SkipEntry{Index: s.Index, Fields: s.Fields, Reason: s.Err.Error()})
	}
	for _, s := range r.Signals.SMA {
		doc.SMA = append(doc.SMA, SMAPoint{
			Timestamp:      s.Timestamp,
			WindowSize:     s.WindowSize,
			TypicalPriceMA: s.TypicalPriceMA,
			OHLCMA:         s.OHLCMA,
			HighMA:         s.HighMA,
			LowMA:          s.LowMA,
			OpenMA:         s.OpenMA,
			CloseMA:        s.CloseMA,
		})
	}
	for _, e := range r.Signals.EMA {
		doc.EMA = append(doc.EMA, EMAPoint{
			Timestamp: e.Timestamp,
			Period:    e.Period,
			K:         e.K,
			Price:     e.Price,
			EMA:       e.Value,
		})
	}

	return doc
}

// Write는 리포트를 지정한 형식으로 출력합니다.
// text 형식은 EMA 값을 시간 순서대로 한 줄씩 출력합니다.
func Write(w io.Writer, r signal.Report, format Format) error {
	switch format {
	case FormatText, "":
		for _, e := range r.Signals.EMA {
			if _, err := fmt.Fprintln(w, e.String()); err != nil {
				return fmt.Errorf("리포트 출력 실패: %w", err)
			}
		}
		return nil

	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(NewDocument(r)); err != nil {
			return fmt.Errorf("JSON 리포트 출력 실패: %w", err)
		}
		return nil

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(NewDocument(r)); err != nil {
			return fmt.Errorf("YAML 리포트 출력 실패: %w", err)
		}
		return enc.Close()

	default:
		return fmt.Errorf("지원하지 않는 출력 형식: %s", format)
	}
}
