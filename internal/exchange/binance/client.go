// internal/exchange/binance/client.go
package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/assist-by/trendwatch/internal/domain"
)

const (
	defaultBaseURL   = "https://api.binance.com"
	defaultPageLimit = 1000
	maxPageLimit     = 1000
)

// APIError는 바이낸스 API가 반환한 에러를 표현합니다
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("API 에러(HTTP %d, 코드: %d): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("HTTP 에러(%d): %s", e.StatusCode, e.Message)
}

// Temporary는 재시도로 해결될 수 있는 에러인지 반환합니다
func (e *APIError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// Client는 바이낸스 공개 시세 API 클라이언트를 구현합니다
type Client struct {
	baseURL    string
	httpClient *http.Client
	pageLimit  int
}

// ClientOption은 클라이언트 생성 옵션을 정의합니다
type ClientOption func(*Client)

// WithTimeout은 HTTP 클라이언트의 타임아웃을 설정합니다
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithBaseURL은 기본 URL을 설정합니다
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithPageLimit은 한 번의 요청으로 받을 최대 캔들 수를 설정합니다
func WithPageLimit(limit int) ClientOption {
	return func(c *Client) {
		if limit > 0 && limit <= maxPageLimit {
			c.pageLimit = limit
		}
	}
}

// NewClient는 새로운 바이낸스 API 클라이언트를 생성합니다
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		pageLimit:  defaultPageLimit,
	}

	// 옵션 적용
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// GetServerTime은 서버 시간을 조회합니다
func (c *Client) GetServerTime(ctx context.Context) (time.Time, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v3/time", nil)
	if err != nil {
		return time.Time{}, err
	}

	var result struct {
		ServerTime int64 `json:"serverTime"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return time.Time{}, fmt.Errorf("서버 시간 파싱 실패: %w", err)
	}

	return time.UnixMilli(result.ServerTime).UTC(), nil
}

// FetchOHLCV는 start부터 pageLimit개의 캔들을 조회해 원시 블록으로 반환합니다
func (c *Client) FetchOHLCV(ctx context.Context, symbol string, interval domain.TimeInterval, start time.Time) ([]domain.RawOHLCV, error) {
	params := url.Values{}
	params.Add("symbol", symbol)
	params.Add("interval", string(interval))
	params.Add("startTime", strconv.FormatInt(start.UnixMilli(), 10))
	params.Add("limit", strconv.Itoa(c.pageLimit))

	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v3/klines", params)
	if err != nil {
		return nil, err
	}

	var rawCandles [][]interface{}
	if err := json.Unmarshal(resp, &rawCandles); err != nil {
		return nil, fmt.Errorf("캔들 데이터 파싱 실패: %w", err)
	}

	rows := make([]domain.RawOHLCV, 0, len(rawCandles))
	for i, raw := range rawCandles {
		row, err := toRawOHLCV(raw)
		if err != nil {
			return nil, fmt.Errorf("캔들 %d번 변환 실패: %w", i, err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// toRawOHLCV는 klines 응답의 한 행에서 앞의 6개 필드만 숫자로 변환합니다.
// 필드가 부족한 행은 잘린 그대로 반환해 정규화 단계에서 걸러지도록 합니다.
func toRawOHLCV(raw []interface{}) (domain.RawOHLCV, error) {
	n := min(len(raw), domain.RawOHLCVFields)
	row := make(domain.RawOHLCV, n)
	for i := 0; i < n; i++ {
		switch v := raw[i].(type) {
		case float64:
			row[i] = v
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("필드 %d 숫자 변환 실패: %w", i, err)
			}
			row[i] = f
		default:
			return nil, fmt.Errorf("필드 %d 타입 오류: %T", i, raw[i])
		}
	}
	return row, nil
}

// doRequest는 HTTP 요청을 실행하고 결과를 반환합니다
func (c *Client) doRequest(ctx context.Context, method, endpoint string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}

	// URL 생성
	reqURL, err := url.Parse(c.baseURL + endpoint)
	if err != nil {
		return nil, fmt.Errorf("URL 파싱 실패: %w", err)
	}
	reqURL.RawQuery = params.Encode()

	// 요청 생성
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("요청 생성 실패: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// 요청 실행
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API 요청 실패: %w", err)
	}
	defer resp.Body.Close()

	// 응답 읽기
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("응답 읽기 실패: %w", err)
	}

	// 상태 코드 확인
	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: string(body)}
		var payload struct {
			Code    int    `json:"code"`
			Message string `json:"msg"`
		}
		if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
			apiErr.Code = payload.Code
			apiErr.Message = payload.Message
		}
		return nil, apiErr
	}

	return body, nil
}
