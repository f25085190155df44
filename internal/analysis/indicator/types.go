package indicator

import (
	"errors"
	"fmt"
)

// ErrInsufficientHistory는 요청한 기간보다 캔들이 적을 때 반환됩니다
var ErrInsufficientHistory = errors.New("캔들 데이터가 부족합니다")

// ValidationError는 입력값 검증 에러를 정의합니다
type ValidationError struct {
	Field string
	Err   error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("유효하지 않은 %s: %v", e.Field, e.Err)
}

// Unwrap은 내부 에러를 반환합니다
func (e ValidationError) Unwrap() error {
	return e.Err
}

// WindowMode는 이동평균 윈도우 경계 계산 방식을 정의합니다
type WindowMode int

const (
	// LegacyWindows는 마지막 SMA 윈도우를 제외하고 EMA 시드를 기간-1개 캔들로 계산합니다
	LegacyWindows WindowMode = iota
	// StandardWindows는 마지막 윈도우까지 포함하고 EMA 시드를 기간 전체로 계산합니다
	StandardWindows
)

// String은 WindowMode의 문자열 표현을 반환합니다
func (m WindowMode) String() string {
	switch m {
	case LegacyWindows:
		return "legacy"
	case StandardWindows:
		return "standard"
	default:
		return "unknown"
	}
}

// ParseWindowMode는 문자열을 WindowMode로 변환합니다
func ParseWindowMode(s string) (WindowMode, error) {
	switch s {
	case "", "legacy":
		return LegacyWindows, nil
	case "standard":
		return StandardWindows, nil
	default:
		return LegacyWindows, fmt.Errorf("알 수 없는 윈도우 모드: %s", s)
	}
}

func insufficient(need, have int) error {
	return &ValidationError{
		Field: "candles",
		Err:   fmt.Errorf("%w. 필요: %d, 현재: %d", ErrInsufficientHistory, need, have),
	}
}
