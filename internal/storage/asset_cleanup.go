package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/portfolio-backend/internal/logger"
	"github.com/ignatzorin/portfolio-backend/internal/repository"
	"github.com/ignatzorin/portfolio-backend/internal/service"
)

// AssetCleaner удаляет файлы, на которые ссылался payload удалённого
// документа. Подписывается на шину событий: очистка идёт после фиксации
// удаления и не влияет на его результат.
type AssetCleaner struct {
	storage *MediaStorage
	media   *repository.MediaRepository
}

// NewAssetCleaner создаёт подписчика очистки медиа.
func NewAssetCleaner(storage *MediaStorage, media *repository.MediaRepository) *AssetCleaner {
	return &AssetCleaner{storage: storage, media: media}
}

// Поля payload, в которых документы хранят ссылки на изображения.
var imageFields = []string{"icon", "image", "cover", "photo"}

// ItemDeleted реализует service.ItemDeletedSubscriber.
func (c *AssetCleaner) ItemDeleted(ctx context.Context, event service.ItemDeletedEvent) {
	for _, field := range imageFields {
		path := event.Payload.StringField(field)
		if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
			continue
		}

		c.remove(ctx, event.Collection, path)
	}
}

// remove удаляет файл и его метаданные. Файл считается нашим, только
// если путь известен репозиторию медиа.
func (c *AssetCleaner) remove(ctx context.Context, collection, path string) {
	file, err := c.media.GetByPath(ctx, path)
	if err != nil {
		if !errors.Is(err, repository.ErrMediaNotFound) && logger.Log != nil {
			logger.Log.WithError(err).WithField("path", path).Warn("asset cleaner: не удалось найти метаданные файла")
		}
		return
	}

	if err := c.storage.Delete(ctx, file.FilePath); err != nil {
		if logger.Log != nil {
			logger.Log.WithError(err).WithField("path", file.FilePath).Warn("asset cleaner: не удалось удалить файл")
		}
		return
	}

	if err := c.media.Delete(ctx, file.ID); err != nil && !errors.Is(err, repository.ErrMediaNotFound) {
		if logger.Log != nil {
			logger.Log.WithError(err).WithField("path", file.FilePath).Warn("asset cleaner: не удалось удалить метаданные")
		}
		return
	}

	if logger.Log != nil {
		logger.Log.WithFields(logrus.Fields{
			"collection": collection,
			"path":       file.FilePath,
		}).Info("asset cleaner: файл удалён")
	}
}
