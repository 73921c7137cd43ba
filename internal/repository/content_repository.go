package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/portfolio-backend/internal/content"
	"github.com/ignatzorin/portfolio-backend/internal/logger"
	"github.com/ignatzorin/portfolio-backend/internal/models"
	"github.com/ignatzorin/portfolio-backend/internal/pkg/apperror"
)

// ErrContentItemNotFound возвращается, когда документ коллекции не найден.
var ErrContentItemNotFound = errors.New("content item not found")

// ContentRepository отвечает за хранение документов упорядоченных коллекций.
// Все коллекции живут в одной таблице content_items; payload лежит в JSONB.
type ContentRepository struct {
	db *sqlx.DB
}

// NewContentRepository создаёт экземпляр репозитория.
func NewContentRepository(db *sqlx.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// List возвращает документы коллекции, отсортированные по возрастанию ord.
// Вторичная сортировка по created_at и id даёт детерминированный порядок
// даже в переходном состоянии с дублирующимся ord.
func (r *ContentRepository) List(ctx context.Context, collection content.Collection) ([]models.ContentItem, error) {
	query := `
		SELECT id, collection, ord, payload, created_at, updated_at
		FROM content_items
		WHERE collection = $1
		ORDER BY ord, created_at, id
	`

	var items []models.ContentItem
	if err := r.db.SelectContext(ctx, &items, query, collection); err != nil {
		return nil, fmt.Errorf("content repository: list %w", err)
	}

	return items, nil
}

// GetByID возвращает документ по идентификатору.
func (r *ContentRepository) GetByID(ctx context.Context, collection content.Collection, id uuid.UUID) (*models.ContentItem, error) {
	query := `
		SELECT id, collection, ord, payload, created_at, updated_at
		FROM content_items
		WHERE id = $1 AND collection = $2
	`

	var item models.ContentItem
	if err := r.db.GetContext(ctx, &item, query, id, collection); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContentItemNotFound
		}
		return nil, fmt.Errorf("content repository: get by id %w", err)
	}

	return &item, nil
}

// Create добавляет документ. Значение ord вычисляется в самой вставке
// согласно политике: max+1 для конца, min-1 для начала; для пустой
// коллекции — 1.
func (r *ContentRepository) Create(ctx context.Context, collection content.Collection, payload models.Payload, policy content.AppendPolicy) (*models.ContentItem, error) {
	ordExpr := `COALESCE(MAX(ord) + 1, 1)`
	if policy == content.AppendStart {
		ordExpr = `COALESCE(MIN(ord) - 1, 1)`
	}

	query := fmt.Sprintf(`
		INSERT INTO content_items (collection, ord, payload)
		VALUES ($1, (SELECT %s FROM content_items WHERE collection = $1), $2)
		RETURNING id, collection, ord, payload, created_at, updated_at
	`, ordExpr)

	var item models.ContentItem
	if err := r.db.GetContext(ctx, &item, query, collection, payload); err != nil {
		return nil, fmt.Errorf("content repository: insert %w", err)
	}

	return &item, nil
}

// UpdatePayload записывает новый payload документа, не трогая ord.
func (r *ContentRepository) UpdatePayload(ctx context.Context, collection content.Collection, id uuid.UUID, payload models.Payload) (*models.ContentItem, error) {
	query := `
		UPDATE content_items
		SET payload = $1, updated_at = NOW()
		WHERE id = $2 AND collection = $3
		RETURNING id, collection, ord, payload, created_at, updated_at
	`

	var item models.ContentItem
	if err := r.db.GetContext(ctx, &item, query, payload, id, collection); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContentItemNotFound
		}
		return nil, fmt.Errorf("content repository: update payload %w", err)
	}

	return &item, nil
}

// Delete удаляет документ. Соседи не перенумеровываются: порядок
// отображения определяется сортировкой, непрерывность ord не требуется.
func (r *ContentRepository) Delete(ctx context.Context, collection content.Collection, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM content_items WHERE id = $1 AND collection = $2`, id, collection)
	if err != nil {
		return fmt.Errorf("content repository: delete %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("content repository: delete rows affected %w", err)
	}

	if rowsAffected == 0 {
		return ErrContentItemNotFound
	}

	return nil
}

// SwapOrder меняет местами значения ord двух документов одной коллекции.
// Обе записи выполняются в одной транзакции: либо обе применяются, либо
// ни одна. Уникальный индекс (collection, ord) объявлен DEFERRABLE,
// поэтому промежуточное состояние внутри транзакции допустимо.
//
// Если вторая запись не прошла и откат первой тоже не удался, наружу
// уходит PARTIAL_REORDER с обоими id и целевыми значениями ord —
// состояние с дубликатом ord детектируемо и чинится вручную или через
// Renumber; автоматический повтор запрещён.
func (r *ContentRepository) SwapOrder(ctx context.Context, collection content.Collection, firstID uuid.UUID, firstOrd int, secondID uuid.UUID, secondOrd int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("content repository: begin tx %w", err)
	}

	if err := swapOrderUpdate(ctx, tx, collection, firstID, firstOrd); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := swapOrderUpdate(ctx, tx, collection, secondID, secondOrd); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			if logger.Log != nil {
				logger.Log.WithFields(logrus.Fields{
					"collection":   collection,
					"first_id":     firstID,
					"first_ord":    firstOrd,
					"second_id":    secondID,
					"second_ord":   secondOrd,
					"write_error":  err.Error(),
					"rollback_err": rbErr.Error(),
				}).Error("content repository: перестановка применена частично")
			}
			return apperror.Wrap(err, apperror.ErrCodePartialReorder,
				"перестановка применена частично, требуется сверка порядка")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("content repository: swap commit %w", err)
	}

	return nil
}

// swapOrderUpdate обновляет только ord одного документа внутри транзакции.
func swapOrderUpdate(ctx context.Context, tx *sqlx.Tx, collection content.Collection, id uuid.UUID, ord int) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE content_items SET ord = $1, updated_at = NOW() WHERE id = $2 AND collection = $3`,
		ord, id, collection)
	if err != nil {
		return fmt.Errorf("content repository: swap update %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("content repository: swap rows affected %w", err)
	}

	if rowsAffected == 0 {
		return ErrContentItemNotFound
	}

	return nil
}

// Renumber перенумеровывает коллекцию подряд начиная с 1. Обслуживающая
// операция: в обычном потоке reorder её не вызывает.
func (r *ContentRepository) Renumber(ctx context.Context, collection content.Collection) error {
	query := `
		UPDATE content_items c
		SET ord = t.rn, updated_at = NOW()
		FROM (
			SELECT id, ROW_NUMBER() OVER (ORDER BY ord, created_at, id) AS rn
			FROM content_items
			WHERE collection = $1
		) t
		WHERE c.id = t.id AND c.ord <> t.rn
	`

	if _, err := r.db.ExecContext(ctx, query, collection); err != nil {
		return fmt.Errorf("content repository: renumber %w", err)
	}

	return nil
}
