package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Payload хранит специфичные для коллекции поля документа.
// В базе лежит как JSONB.
type Payload map[string]any

// Value сериализует payload для записи в JSONB колонку.
func (p Payload) Value() (driver.Value, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p)
}

// Scan читает payload из JSONB колонки.
func (p *Payload) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	case nil:
		*p = Payload{}
		return nil
	default:
		return fmt.Errorf("models: неподдерживаемый тип payload %T", src)
	}
}

// Clone возвращает неглубокую копию payload.
func (p Payload) Clone() Payload {
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// StringField возвращает строковое поле payload (пустая строка, если нет).
func (p Payload) StringField(key string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return ""
}

// ContentItem — документ упорядоченной коллекции. Поле Order задаёт
// позицию в рамках коллекции: значения уникальны, но не обязаны быть
// непрерывными; порядок отображения — сортировка по возрастанию.
type ContentItem struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Collection string    `db:"collection" json:"collection"`
	Order      int       `db:"ord" json:"order"`
	Payload    Payload   `db:"payload" json:"payload"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
