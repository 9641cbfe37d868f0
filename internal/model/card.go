package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// IES card type constants
var (
	CardTypeNews        = "news"
	CardTypeHighlight   = "highlight"
	CardTypeAchievement = "achievement"
)

// ValidCardType reports whether t is one of the known card types.
func ValidCardType(t string) error {
	if t != CardTypeNews && t != CardTypeHighlight && t != CardTypeAchievement {
		return fmt.Errorf("invalid card type: %s", t)
	}
	return nil
}

// IesCard is a per-institution announcement card. Cards flagged
// IsFeaturedOnHome surface on the landing page highlight feed.
type IesCard struct {
	ID uint `gorm:"primaryKey;autoIncrement;->" json:"id"`

	IesID uuid.UUID   `gorm:"type:uuid;not null;index" json:"ies_id"`
	Ies   Institution `gorm:"foreignKey:IesID;references:ID" json:"ies,omitempty"`

	Title   string `gorm:"type:text;not null" json:"title"`
	Content string `gorm:"type:text" json:"content"`
	Type    string `gorm:"type:text;default:'news'" json:"type"`

	ImageID  *int   `json:"image_id"`
	Image    File   `gorm:"foreignKey:ImageID;references:ID" json:"-"`
	ImageURL string `gorm:"type:text" json:"image_url"`

	IsFeaturedOnHome bool `gorm:"default:false" json:"is_featured_on_home"`

	CreatedAt time.Time `json:"created_at"`
}
