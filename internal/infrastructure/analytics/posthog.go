package analytics

import (
	"os"

	"github.com/posthog/posthog-go"
	"github.com/sirupsen/logrus"
)

// Client PostHogイベント送信のラッパー
// APIキーが未設定の場合は何も送信しないno-opクライアントとして動作する。
type Client struct {
	ph     posthog.Client
	logger *logrus.Logger
}

// NewClient 環境変数からPostHogクライアントを構築
func NewClient(logger *logrus.Logger) *Client {
	apiKey := os.Getenv("POSTHOG_API_KEY")
	if apiKey == "" {
		logger.Info("PostHog APIキー未設定のためアナリティクスを無効化します")
		return &Client{logger: logger}
	}

	endpoint := os.Getenv("POSTHOG_ENDPOINT")
	if endpoint == "" {
		endpoint = "https://app.posthog.com"
	}

	ph, err := posthog.NewWithConfig(apiKey, posthog.Config{
		Endpoint: endpoint,
	})
	if err != nil {
		logger.Warnf("⚠️ PostHogの初期化に失敗しました: %v", err)
		return &Client{logger: logger}
	}

	logger.Info("✅ PostHog client initialized")
	return &Client{ph: ph, logger: logger}
}

// Capture イベントを送信する（無効時はno-op）
func (c *Client) Capture(distinctID, event string, properties map[string]interface{}) {
	if c.ph == nil {
		return
	}

	props := posthog.NewProperties()
	for k, v := range properties {
		props.Set(k, v)
	}

	if err := c.ph.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: props,
	}); err != nil {
		c.logger.Debugf("PostHogイベント送信に失敗: %v", err)
	}
}

// Close クライアントを終了する
func (c *Client) Close() {
	if c.ph != nil {
		c.ph.Close()
	}
}
