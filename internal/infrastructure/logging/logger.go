package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger 環境変数に基づいてアプリケーションロガーを構築する
// LOOPEE_DEBUG=true でデバッグ出力、さらに LOOPEE_VERBOSE=true で詳細出力を有効にする。
// グローバルロガーは使わず、構築したインスタンスを各コンポーネントに注入する。
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	level := logrus.InfoLevel
	if os.Getenv("LOOPEE_DEBUG") == "true" {
		level = logrus.DebugLevel
		if os.Getenv("LOOPEE_VERBOSE") == "true" {
			level = logrus.TraceLevel
		}
	}
	logger.SetLevel(level)

	return logger
}

// NewTestLogger テスト用に出力を抑制したロガーを構築する
func NewTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(logrus.WarnLevel)
	return logger
}
