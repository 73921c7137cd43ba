package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ignatzorin/portfolio-backend/internal/content"
	"github.com/ignatzorin/portfolio-backend/internal/models"
	"github.com/ignatzorin/portfolio-backend/internal/pkg/apperror"
	"github.com/ignatzorin/portfolio-backend/internal/repository"
)

// Направления перестановки.
const (
	ReorderUp   = "up"
	ReorderDown = "down"
)

// ContentRepository описывает взаимодействие сервиса с хранилищем
// упорядоченных коллекций.
type ContentRepository interface {
	List(ctx context.Context, collection content.Collection) ([]models.ContentItem, error)
	GetByID(ctx context.Context, collection content.Collection, id uuid.UUID) (*models.ContentItem, error)
	Create(ctx context.Context, collection content.Collection, payload models.Payload, policy content.AppendPolicy) (*models.ContentItem, error)
	UpdatePayload(ctx context.Context, collection content.Collection, id uuid.UUID, payload models.Payload) (*models.ContentItem, error)
	Delete(ctx context.Context, collection content.Collection, id uuid.UUID) error
	SwapOrder(ctx context.Context, collection content.Collection, firstID uuid.UUID, firstOrd int, secondID uuid.UUID, secondOrd int) error
	Renumber(ctx context.Context, collection content.Collection) error
}

// ContentService — единое хранилище упорядоченных коллекций контента.
// Инварианты порядка (уникальность ord, атомарность перестановки) и
// проверка прав применяются здесь, а не в каждом хэндлере.
type ContentService struct {
	repo   ContentRepository
	events *Events

	// Мутекс на коллекцию сериализует мутации: две конкурентные
	// перестановки или перестановка наперегонки с удалением не могут
	// перемешать двухшаговый своп.
	locks map[content.Collection]*sync.Mutex
}

// NewContentService создаёт сервис контента.
func NewContentService(repo ContentRepository, events *Events) *ContentService {
	locks := make(map[content.Collection]*sync.Mutex)
	for _, c := range content.All() {
		locks[c] = &sync.Mutex{}
	}

	return &ContentService{
		repo:   repo,
		events: events,
		locks:  locks,
	}
}

// authorize — единственная точка проверки прав для всех мутирующих
// операций. Вызывается до любого обращения к хранилищу.
func authorize(principal *models.Principal) error {
	if principal == nil || !principal.IsAdmin {
		return apperror.ErrAdminRequired
	}
	return nil
}

// lock возвращает мутекс коллекции.
func (s *ContentService) lock(collection content.Collection) *sync.Mutex {
	return s.locks[collection]
}

// List возвращает документы коллекции в порядке отображения. Публичная
// операция, авторизация не требуется.
func (s *ContentService) List(ctx context.Context, collection content.Collection) ([]models.ContentItem, error) {
	if _, ok := content.Lookup(collection); !ok {
		return nil, apperror.New(apperror.ErrCodeBadRequest, "неизвестная коллекция "+string(collection))
	}

	items, err := s.repo.List(ctx, collection)
	if err != nil {
		return nil, storageError(err)
	}

	return items, nil
}

// Get возвращает документ по идентификатору. Публичная операция.
func (s *ContentService) Get(ctx context.Context, collection content.Collection, id uuid.UUID) (*models.ContentItem, error) {
	if _, ok := content.Lookup(collection); !ok {
		return nil, apperror.New(apperror.ErrCodeBadRequest, "неизвестная коллекция "+string(collection))
	}

	item, err := s.repo.GetByID(ctx, collection, id)
	if err != nil {
		return nil, mapContentError(err, collection, id)
	}

	return item, nil
}

// Create валидирует payload по обязательным полям коллекции и добавляет
// документ согласно её политике: в конец (max+1) или в начало (min-1).
func (s *ContentService) Create(ctx context.Context, principal *models.Principal, collection content.Collection, payload models.Payload) (*models.ContentItem, error) {
	if err := authorize(principal); err != nil {
		return nil, err
	}

	spec, ok := content.Lookup(collection)
	if !ok {
		return nil, apperror.New(apperror.ErrCodeBadRequest, "неизвестная коллекция "+string(collection))
	}

	if err := validatePayload(spec, payload); err != nil {
		return nil, err
	}

	mu := s.lock(collection)
	mu.Lock()
	defer mu.Unlock()

	item, err := s.repo.Create(ctx, collection, payload, spec.Policy)
	if err != nil {
		return nil, storageError(err)
	}

	return item, nil
}

// Update накладывает частичный payload поверх существующего. Поле ord
// не меняется: перестановка — отдельная операция.
func (s *ContentService) Update(ctx context.Context, principal *models.Principal, collection content.Collection, id uuid.UUID, partial models.Payload) (*models.ContentItem, error) {
	if err := authorize(principal); err != nil {
		return nil, err
	}

	spec, ok := content.Lookup(collection)
	if !ok {
		return nil, apperror.New(apperror.ErrCodeBadRequest, "неизвестная коллекция "+string(collection))
	}

	mu := s.lock(collection)
	mu.Lock()
	defer mu.Unlock()

	existing, err := s.repo.GetByID(ctx, collection, id)
	if err != nil {
		return nil, mapContentError(err, collection, id)
	}

	merged := existing.Payload.Clone()
	for k, v := range partial {
		merged[k] = v
	}

	// Слитый payload снова проверяется: update не должен оставить
	// документ без обязательного поля.
	if err := validatePayload(spec, merged); err != nil {
		return nil, err
	}

	item, err := s.repo.UpdatePayload(ctx, collection, id, merged)
	if err != nil {
		return nil, mapContentError(err, collection, id)
	}

	return item, nil
}

// Delete удаляет документ и публикует post-commit событие со старым
// payload для очистки связанных файлов. Соседи не перенумеровываются.
func (s *ContentService) Delete(ctx context.Context, principal *models.Principal, collection content.Collection, id uuid.UUID) error {
	if err := authorize(principal); err != nil {
		return err
	}

	if _, ok := content.Lookup(collection); !ok {
		return apperror.New(apperror.ErrCodeBadRequest, "неизвестная коллекция "+string(collection))
	}

	mu := s.lock(collection)
	mu.Lock()
	defer mu.Unlock()

	existing, err := s.repo.GetByID(ctx, collection, id)
	if err != nil {
		return mapContentError(err, collection, id)
	}

	if err := s.repo.Delete(ctx, collection, id); err != nil {
		return mapContentError(err, collection, id)
	}

	if s.events != nil {
		s.events.PublishItemDeleted(ctx, ItemDeletedEvent{
			Collection: string(collection),
			ItemID:     id,
			Payload:    existing.Payload,
		})
	}

	return nil
}

// Reorder двигает документ на одну позицию вверх или вниз, меняя местами
// значения ord с соседом. Граница — тихий no-op, не ошибка. Позиции
// перечитываются внутри критической секции: индекс, вычисленный до
// захвата мутекса, мог устареть.
func (s *ContentService) Reorder(ctx context.Context, principal *models.Principal, collection content.Collection, id uuid.UUID, direction string) error {
	if err := authorize(principal); err != nil {
		return err
	}

	if _, ok := content.Lookup(collection); !ok {
		return apperror.New(apperror.ErrCodeBadRequest, "неизвестная коллекция "+string(collection))
	}

	if direction != ReorderUp && direction != ReorderDown {
		return apperror.New(apperror.ErrCodeBadRequest, "направление должно быть up или down")
	}

	mu := s.lock(collection)
	mu.Lock()
	defer mu.Unlock()

	items, err := s.repo.List(ctx, collection)
	if err != nil {
		return storageError(err)
	}

	idx := -1
	for i := range items {
		if items[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return apperror.NotFound(string(collection), id.String())
	}

	var neighbor int
	switch direction {
	case ReorderUp:
		if idx == 0 {
			return nil
		}
		neighbor = idx - 1
	case ReorderDown:
		if idx == len(items)-1 {
			return nil
		}
		neighbor = idx + 1
	}

	// Документ получает ord соседа, сосед — ord документа. Остальные
	// документы не затрагиваются.
	err = s.repo.SwapOrder(ctx, collection,
		items[idx].ID, items[neighbor].Order,
		items[neighbor].ID, items[idx].Order)
	if err != nil {
		if apperror.IsPartialReorder(err) {
			// Не повторяем автоматически: слепой повтор может сделать
			// двойной своп против уже изменившегося состояния.
			return err
		}
		return storageError(err)
	}

	return nil
}

// Renumber перенумеровывает коллекцию подряд. Обслуживающая операция
// для восстановления после частично применённой перестановки.
func (s *ContentService) Renumber(ctx context.Context, principal *models.Principal, collection content.Collection) error {
	if err := authorize(principal); err != nil {
		return err
	}

	if _, ok := content.Lookup(collection); !ok {
		return apperror.New(apperror.ErrCodeBadRequest, "неизвестная коллекция "+string(collection))
	}

	mu := s.lock(collection)
	mu.Lock()
	defer mu.Unlock()

	if err := s.repo.Renumber(ctx, collection); err != nil {
		return storageError(err)
	}

	return nil
}

// validatePayload проверяет обязательные поля коллекции и возвращает
// ошибку валидации с первым отсутствующим полем.
func validatePayload(spec content.Spec, payload models.Payload) error {
	for _, field := range spec.Required {
		value, ok := payload[field]
		if !ok {
			return apperror.Validation(field)
		}
		if str, isStr := value.(string); isStr && strings.TrimSpace(str) == "" {
			return apperror.Validation(field)
		}
	}
	return nil
}

// isNotFoundRepoError проверяет сентинел отсутствия документа.
func isNotFoundRepoError(err error) bool {
	return errors.Is(err, repository.ErrContentItemNotFound)
}

// mapContentError переводит ошибки репозитория в типизированные ошибки
// границы хранилища.
func mapContentError(err error, collection content.Collection, id uuid.UUID) error {
	if isNotFoundRepoError(err) {
		return apperror.NotFound(string(collection), id.String())
	}
	return storageError(err)
}

// storageError помечает ошибку как недоступность хранилища, сохраняя
// уже типизированные ошибки как есть.
func storageError(err error) error {
	if apperror.Code(err) != apperror.ErrCodeInternal {
		return err
	}
	return apperror.Wrap(err, apperror.ErrCodeStorage, "хранилище недоступно или отклонило операцию")
}
