package market

import (
	"errors"
	"fmt"
	"time"

	"github.com/assist-by/trendwatch/internal/domain"
)

// Error 타입들은 캔들 조회 중 발생할 수 있는 에러를 정의합니다
var (
	ErrMalformedRecord    = domain.ErrMalformedRecord
	ErrDataUnavailable    = errors.New("거래소가 캔들 데이터를 반환하지 않았습니다")
	ErrMisalignedWindow   = errors.New("응답의 시작 시간이 요청과 다릅니다")
	ErrStalledPagination  = errors.New("페이지 조회가 더 이상 진행되지 않습니다")
	ErrTooManyPages       = errors.New("최대 페이지 수를 초과했습니다")
	ErrMalformedRowsFound = errors.New("잘못된 OHLCV 블록이 포함되어 있습니다")
)

// FetchError는 캔들 조회 에러에 조회 맥락을 덧붙인 구조체입니다
type FetchError struct {
	Symbol string
	Op     string
	Cursor time.Time
	Err    error
}

// Error는 error 인터페이스를 구현합니다
func (e *FetchError) Error() string {
	if e.Cursor.IsZero() {
		return fmt.Sprintf("캔들 조회 에러 [%s, 작업: %s]: %v", e.Symbol, e.Op, e.Err)
	}
	return fmt.Sprintf("캔들 조회 에러 [%s, 작업: %s, 시작: %s]: %v",
		e.Symbol, e.Op, e.Cursor.UTC().Format(time.RFC3339), e.Err)
}

// Unwrap은 내부 에러를 반환합니다 (errors.Is/As 지원을 위함)
func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError는 새로운 FetchError를 생성합니다
func NewFetchError(symbol, op string, cursor time.Time, err error) *FetchError {
	return &FetchError{
		Symbol: symbol,
		Op:     op,
		Cursor: cursor,
		Err:    err,
	}
}

// ErrorKind는 메트릭 라벨로 쓰일 에러 종류를 반환합니다
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDataUnavailable):
		return "data_unavailable"
	case errors.Is(err, ErrMisalignedWindow):
		return "misaligned_window"
	case errors.Is(err, ErrStalledPagination):
		return "stalled_pagination"
	case errors.Is(err, ErrTooManyPages):
		return "too_many_pages"
	case errors.Is(err, ErrMalformedRowsFound):
		return "malformed_record"
	default:
		return "upstream"
	}
}
