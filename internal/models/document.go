package models

// DocumentModel tracks an uploaded document and where its bytes live.
// Status is "pending" until the upload is claimed by a consumer; pending
// rows older than the cleanup window are treated as orphans.
type DocumentModel struct {
	Base
	Name        string `json:"name"        gorm:"not null"`
	FileName    string `json:"fileName"    gorm:"index;not null"`
	URL         string `json:"url"         gorm:"index;not null"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
	Storage     string `json:"storage"     gorm:"default:'local'"` // local | s3
	Status      string `json:"status"      gorm:"index;default:'pending'"`
	UploadedBy  string `json:"uploadedBy"  gorm:"index"`
}

func (DocumentModel) TableName() string { return "documents" }
