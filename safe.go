package memo

import "go.uber.org/zap"

func safeGo(log *zap.Logger, fn func()) {
	go func() {
		defer func() {
			if err := recover(); err != nil {
				// This should never panic but we want to log it if it does.
				log.Error("memo: recovered panic in background goroutine", zap.Any("panic", err))
			}
		}()
		fn()
	}()
}
