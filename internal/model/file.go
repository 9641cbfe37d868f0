package model

// File is an uploaded blob (logos, covers, card images, carousel slides).
// Content is kept in the database as source of truth; URL points at the
// public object in blob storage when one was uploaded.
type File struct {
	ID        int    `gorm:"primaryKey" json:"id"`
	Content   []byte `json:"-"`
	Extension string `json:"extension"`
	URL       string `gorm:"type:text" json:"url"`
}
