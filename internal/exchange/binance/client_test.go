package binance

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assist-by/trendwatch/internal/domain"
)

func TestClient_FetchOHLCV(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/klines", r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.Equal(t, "1704067200000", r.URL.Query().Get("startTime"))
		assert.Equal(t, "2", r.URL.Query().Get("limit"))

		w.Write([]byte(`[
			[1704067200000,"42283.58","44184.10","42180.77","44179.55","27174.29",1704153599999,"1169995132.53",1000,"14000.1","600000000.0","0"],
			[1704153600000,"44179.55","45879.63","44148.34","44946.91","65146.40",1704239999999,"2900000000.00",2000,"33000.1","1400000000.0","0"]
		]`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithPageLimit(2))
	rows, err := client.FetchOHLCV(context.Background(), "BTCUSDT", domain.Interval1d, start)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, domain.RawOHLCV{1704067200000, 42283.58, 44184.10, 42180.77, 44179.55, 27174.29}, rows[0])
	assert.Len(t, rows[1], domain.RawOHLCVFields)
}

func TestClient_FetchOHLCV_ShortRowPassesThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[[1000,"100","110","90"]]`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	rows, err := client.FetchOHLCV(context.Background(), "BTCUSDT", domain.Interval1d, time.UnixMilli(1000))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.RawOHLCV{1000, 100, 110, 90}, rows[0])
}

func TestClient_FetchOHLCV_BadNumber(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[[1000,"abc","110","90","105","50"]]`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	_, err := client.FetchOHLCV(context.Background(), "BTCUSDT", domain.Interval1d, time.UnixMilli(1000))
	require.Error(t, err)
}

func TestClient_APIError(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantCode  int
		temporary bool
	}{
		{"잘못된 심볼", http.StatusBadRequest, `{"code":-1121,"msg":"Invalid symbol."}`, -1121, false},
		{"요청 제한", http.StatusTooManyRequests, `{"code":-1003,"msg":"Too many requests."}`, -1003, true},
		{"서버 오류", http.StatusBadGateway, `bad gateway`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(WithBaseURL(server.URL))
			_, err := client.FetchOHLCV(context.Background(), "XXX", domain.Interval1d, time.UnixMilli(0))
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.Equal(t, tt.temporary, apiErr.Temporary())
		})
	}
}

func TestClient_GetServerTime(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/time", r.URL.Path)
		w.Write([]byte(`{"serverTime":1704070800000}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithTimeout(time.Second))
	got, err := client.GetServerTime(context.Background())
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC).Equal(got))
}
