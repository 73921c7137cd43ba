package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ignatzorin/portfolio-backend/internal/goroutine"
	"github.com/ignatzorin/portfolio-backend/internal/models"
)

// ItemDeletedEvent публикуется после успешного удаления документа.
// Несёт старый payload, чтобы подписчик (очистка медиа) мог убрать
// связанные файлы. Корректность хранилища от подписчиков не зависит.
type ItemDeletedEvent struct {
	Collection string
	ItemID     uuid.UUID
	Payload    models.Payload
}

// ItemDeletedSubscriber получает события удаления.
type ItemDeletedSubscriber interface {
	ItemDeleted(ctx context.Context, event ItemDeletedEvent)
}

// Events — простая шина post-commit событий. Публикация асинхронная:
// ошибка подписчика не влияет на уже зафиксированную операцию.
type Events struct {
	mu   sync.RWMutex
	subs []ItemDeletedSubscriber
}

// NewEvents создаёт шину событий.
func NewEvents() *Events {
	return &Events{}
}

// Subscribe регистрирует подписчика.
func (e *Events) Subscribe(sub ItemDeletedSubscriber) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = append(e.subs, sub)
}

// PublishItemDeleted рассылает событие всем подписчикам.
func (e *Events) PublishItemDeleted(ctx context.Context, event ItemDeletedEvent) {
	e.mu.RLock()
	subs := make([]ItemDeletedSubscriber, len(e.subs))
	copy(subs, e.subs)
	e.mu.RUnlock()

	for _, sub := range subs {
		sub := sub
		goroutine.SafeGoWithContext(context.WithoutCancel(ctx), func(ctx context.Context) {
			sub.ItemDeleted(ctx, event)
		})
	}
}
