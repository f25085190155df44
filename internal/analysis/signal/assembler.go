package signal

import (
	"errors"
	"fmt"
	"sync"

	"github.com/assist-by/trendwatch/internal/analysis/indicator"
	"github.com/assist-by/trendwatch/internal/domain"
)

// 기본 지표 기간
const (
	DefaultSMAPeriod = 10
	DefaultEMAPeriod = 10
)

// Signals는 하나의 캔들 시리즈에서 계산한 지표 묶음입니다
type Signals struct {
	SMA []indicator.SMAResult
	EMA []indicator.EMAResult
}

// Trend는 마지막 종가와 마지막 EMA 값을 비교해 추세를 반환합니다
func (s Signals) Trend() domain.TrendType {
	if len(s.EMA) == 0 {
		return domain.Neutral
	}

	last := s.EMA[len(s.EMA)-1]
	switch {
	case last.Price > last.Value:
		return domain.Bullish
	case last.Price < last.Value:
		return domain.Bearish
	default:
		return domain.Neutral
	}
}

// Assembler는 캔들 시리즈로부터 이동평균 지표를 계산합니다
type Assembler struct {
	SMAPeriod int
	EMAPeriod int
	Mode      indicator.WindowMode
}

// DefaultAssembler는 10일 SMA, 10일 EMA 설정의 Assembler를 반환합니다
func DefaultAssembler() Assembler {
	return Assembler{
		SMAPeriod: DefaultSMAPeriod,
		EMAPeriod: DefaultEMAPeriod,
		Mode:      indicator.LegacyWindows,
	}
}

// FindTradingSignals는 SMA와 EMA를 동시에 계산합니다.
// 두 계산은 입력만 공유하며 실패한 계산의 에러는 모두 합쳐서 반환합니다.
func (a Assembler) FindTradingSignals(candles domain.CandleList) (Signals, error) {
	var (
		wg      sync.WaitGroup
		signals Signals
		smaErr  error
		emaErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		signals.SMA, smaErr = indicator.SMA(candles, indicator.SMAOption{Period: a.SMAPeriod, Mode: a.Mode})
	}()
	go func() {
		defer wg.Done()
		signals.EMA, emaErr = indicator.EMA(candles, indicator.EMAOption{Period: a.EMAPeriod, Mode: a.Mode})
	}()
	wg.Wait()

	if smaErr != nil {
		smaErr = fmt.Errorf("SMA 계산 실패: %w", smaErr)
	}
	if emaErr != nil {
		emaErr = fmt.Errorf("EMA 계산 실패: %w", emaErr)
	}
	if err := errors.Join(smaErr, emaErr); err != nil {
		return Signals{}, err
	}

	return signals, nil
}
