package models

// CustomEmojiModel is a user-uploaded emoji image. Names are not unique:
// a local fallback entry and a server-persisted entry may share one, so the
// identifying pair is (name, src).
type CustomEmojiModel struct {
	Base
	Name       string `json:"name"       gorm:"index;not null"`
	Src        string `json:"src"        gorm:"index;not null"` // URL or data URI
	Storage    string `json:"storage"    gorm:"default:'local'"` // local | s3
	UploadedBy string `json:"uploadedBy"`
}

func (CustomEmojiModel) TableName() string { return "custom_emojis" }
