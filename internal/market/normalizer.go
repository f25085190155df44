package market

import (
	"errors"
	"fmt"
	"log"

	"github.com/assist-by/trendwatch/internal/domain"
)

// SkipDiagnostic은 정규화 중 건너뛴 블록의 정보입니다
type SkipDiagnostic struct {
	Index  int   // 원시 시퀀스에서의 위치
	Fields int   // 블록의 필드 수
	Err    error // 건너뛴 이유
}

// String은 진단 정보의 문자열 표현을 반환합니다
func (d SkipDiagnostic) String() string {
	return fmt.Sprintf("블록 %d (필드 %d개): %v", d.Index, d.Fields, d.Err)
}

// NormalizeResult는 정규화된 캔들과 건너뛴 블록 목록입니다
type NormalizeResult struct {
	Candles domain.CandleList
	Skipped []SkipDiagnostic
}

// Err는 건너뛴 블록이 있으면 이를 모은 에러를, 없으면 nil을 반환합니다
func (r NormalizeResult) Err() error {
	if len(r.Skipped) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Skipped)+1)
	errs = append(errs, ErrMalformedRowsFound)
	for _, s := range r.Skipped {
		errs = append(errs, fmt.Errorf("블록 %d (필드 %d개): %w", s.Index, s.Fields, s.Err))
	}
	return errors.Join(errs...)
}

// Normalize는 원시 블록을 순서대로 캔들로 변환합니다.
// 필드 수가 맞지 않는 블록은 로그를 남기고 건너뜁니다.
func Normalize(rows []domain.RawOHLCV) NormalizeResult {
	result := NormalizeResult{
		Candles: make(domain.CandleList, 0, len(rows)),
	}

	for i, raw := range rows {
		candle, err := domain.NewCandle(raw)
		if err != nil {
			log.Printf("잘못된 데이터 블록 건너뜀 (%d번): %v", i, raw)
			result.Skipped = append(result.Skipped, SkipDiagnostic{
				Index:  i,
				Fields: len(raw),
				Err:    err,
			})
			continue
		}
		result.Candles = append(result.Candles, candle)
	}

	return result
}
