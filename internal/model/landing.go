package model

import "time"

// LandingImage is one slide of the public landing carousel. Slides are
// ordered by OrderIndex and individually toggled active.
type LandingImage struct {
	ID    uint   `gorm:"primaryKey;autoIncrement;->" json:"id"`
	Title string `gorm:"type:text" json:"title"`

	ImageID  *int   `json:"image_id"`
	Image    File   `gorm:"foreignKey:ImageID;references:ID" json:"-"`
	ImageURL string `gorm:"type:text;not null" json:"image_url"`

	OrderIndex int  `gorm:"not null;default:0" json:"order_index"`
	IsActive   bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
}
