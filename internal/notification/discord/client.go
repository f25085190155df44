package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client는 Discord 웹훅 클라이언트를 구현합니다
type Client struct {
	webhookURL string
	httpClient *http.Client
	footer     string
}

// ClientOption은 클라이언트 생성 옵션을 정의합니다
type ClientOption func(*Client)

// WithTimeout은 HTTP 클라이언트의 타임아웃을 설정합니다
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithFooter는 임베드 푸터 문구를 설정합니다
func WithFooter(footer string) ClientOption {
	return func(c *Client) {
		c.footer = footer
	}
}

// NewClient는 새로운 Discord 클라이언트를 생성합니다
func NewClient(webhookURL string, opts ...ClientOption) *Client {
	c := &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		footer:     "Trendwatch 📈",
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SendError는 에러 알림을 전송합니다
func (c *Client) SendError(ctx context.Context, err error) error {
	embed := NewEmbed().
		SetTitle("에러 발생").
		SetDescription(fmt.Sprintf("```%v```", err)).
		SetColor(ColorError).
		SetFooter(c.footer).
		SetTimestamp(time.Now())

	return c.sendToWebhook(ctx, WebhookMessage{Embeds: []Embed{*embed}})
}

// SendInfo는 일반 정보 알림을 전송합니다
func (c *Client) SendInfo(ctx context.Context, message string) error {
	embed := NewEmbed().
		SetDescription(message).
		SetColor(ColorInfo).
		SetFooter(c.footer).
		SetTimestamp(time.Now())

	return c.sendToWebhook(ctx, WebhookMessage{Embeds: []Embed{*embed}})
}

// sendToWebhook은 웹훅으로 메시지를 전송합니다
func (c *Client) sendToWebhook(ctx context.Context, msg WebhookMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("메시지 마샬링 실패: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("요청 생성 실패: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("웹훅 전송 실패: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("웹훅 응답 에러(%d): %s", resp.StatusCode, string(body))
	}

	return nil
}
