package models

import "time"

// Секции контента сайта (singleton-документы).
const (
	SiteSectionHeader = "header"
	SiteSectionFooter = "footer"
)

// SiteContent — содержимое секции сайта (шапка, подвал).
type SiteContent struct {
	Section   string    `db:"section" json:"section"`
	Payload   Payload   `db:"payload" json:"payload"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
