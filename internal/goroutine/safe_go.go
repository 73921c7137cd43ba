package goroutine

import (
	"context"
	"log"
	"runtime/debug"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/portfolio-backend/internal/logger"
)

// SafeGo запускает горутину с перехватом panic. Упавшая фоновая задача
// (рассылка события, запись в медленный вебсокет) не должна ронять процесс.
func SafeGo(fn func()) {
	go func() {
		defer recoverPanic()
		fn()
	}()
}

// SafeGoWithContext — то же, но функция получает контекст.
func SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	go func() {
		defer recoverPanic()
		fn(ctx)
	}()
}

// recoverPanic логирует panic со стеком.
func recoverPanic() {
	r := recover()
	if r == nil {
		return
	}

	if logger.Log != nil {
		logger.Log.WithFields(logrus.Fields{
			"panic": r,
			"stack": string(debug.Stack()),
		}).Error("goroutine: перехвачен panic")
		return
	}

	log.Printf("goroutine: перехвачен panic: %v\n%s", r, debug.Stack())
}
