package discord

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/assist-by/trendwatch/internal/analysis/indicator"
	"github.com/assist-by/trendwatch/internal/domain"
	"github.com/assist-by/trendwatch/internal/notification"
)

// sparkLevels는 스파크라인에 쓰이는 막대 문자입니다
var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// chartWidth는 차트에 표시할 최대 포인트 수입니다
const chartWidth = 40

// PublishChart는 캔들 종가와 종가 이동평균선을 스파크라인 차트로 전송합니다
func (c *Client) PublishChart(ctx context.Context, symbol string, candles domain.CandleList, sma []indicator.SMAResult) error {
	last, ok := candles.GetLastCandle()
	if !ok {
		return fmt.Errorf("차트로 보낼 캔들이 없습니다")
	}

	trend := domain.Neutral
	if len(sma) > 0 {
		ma := sma[len(sma)-1].CloseMA
		switch {
		case last.Close > ma:
			trend = domain.Bullish
		case last.Close < ma:
			trend = domain.Bearish
		}
	}

	maLine := make([]float64, len(sma))
	for i, s := range sma {
		maLine[i] = s.CloseMA
	}

	embed := NewEmbed().
		SetTitle(fmt.Sprintf("📊 %s 일봉 차트 (%d개)", symbol, len(candles))).
		SetDescription(fmt.Sprintf("**시간**: %s\n**시가**: $%.2f\n**고가**: $%.2f\n**저가**: $%.2f\n**종가**: $%.2f\n**거래량**: %.2f",
			last.Timestamp.Format("2006-01-02 15:04 UTC"),
			last.Open, last.High, last.Low, last.Close, last.Volume)).
		SetColor(notification.GetColorForTrend(trend)).
		AddField("종가", "```"+Sparkline(candles.Closes(), chartWidth)+"```", false).
		SetFooter(c.footer).
		SetTimestamp(last.Timestamp)

	if len(sma) > 0 {
		latest := sma[len(sma)-1]
		embed.
			AddField(fmt.Sprintf("종가 이동평균 (%d일)", latest.WindowSize), "```"+Sparkline(maLine, chartWidth)+"```", false).
			AddField("최근 이동평균", fmt.Sprintf("```\n[Close MA]: %.2f\n[Typical MA]: %.2f\n[OHLC MA]: %.2f```",
				latest.CloseMA, latest.TypicalPriceMA, latest.OHLCMA), true).
			AddField("추세", trend.String(), true)
	}

	return c.sendToWebhook(ctx, WebhookMessage{Embeds: []Embed{*embed}})
}

// Sparkline은 값 목록을 최대 width개의 막대 문자로 표현합니다.
// 값이 width보다 많으면 마지막 width개만 사용합니다.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	var b strings.Builder
	top := len(sparkLevels) - 1
	for _, v := range values {
		idx := 0
		if hi > lo {
			idx = int(math.Round((v - lo) / (hi - lo) * float64(top)))
		}
		b.WriteRune(sparkLevels[idx])
	}
	return b.String()
}
