// Package eino 注册 Eino 全局回调，把模型调用接入指标、追踪与会话用量
package eino

import (
	"sync"

	einocallbacks "github.com/cloudwego/eino/callbacks"
	cbtemplate "github.com/cloudwego/eino/utils/callbacks"

	"kitab-ai-api/internal/domain/service"
)

var initOnce sync.Once

// Init 注册 Eino 全局 callbacks（进程级一次）。
func Init(recorder service.LLMUsageRecorder) {
	initOnce.Do(func() {
		einocallbacks.AppendGlobalHandlers(newHandler(recorder))
	})
}

func newHandler(recorder service.LLMUsageRecorder) einocallbacks.Handler {
	return cbtemplate.NewHandlerHelper().
		ChatModel(newChatModelCallbackHandler(recorder)).
		Handler()
}
