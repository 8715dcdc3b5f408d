package models

// OptionModel is the generic key-value row backing the durable settings store.
// Values are JSON blobs; the title settings, presets, and the standard-emoji
// blacklist each live under their own key.
type OptionModel struct {
	ID    uint   `json:"-" gorm:"primaryKey;autoIncrement"`
	Name  string `json:"name"  gorm:"uniqueIndex;not null"`
	Value string `json:"value" gorm:"type:longtext"`
}

func (OptionModel) TableName() string { return "options" }
