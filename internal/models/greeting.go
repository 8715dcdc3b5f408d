package models

// GreetingTemplateModel is a reusable congratulation text. Body is markdown
// and may contain [[ ... ]] macros expanded at preview/send time.
type GreetingTemplateModel struct {
	Base
	Title string `json:"title" gorm:"not null"`
	Body  string `json:"body"  gorm:"type:longtext"`
}

func (GreetingTemplateModel) TableName() string { return "greeting_templates" }

// CongratulationModel logs a sent congratulation.
type CongratulationModel struct {
	Base
	EmployeeID string `json:"employeeId" gorm:"index;not null"`
	Text       string `json:"text"       gorm:"type:longtext"`
	SentBy     string `json:"sentBy"     gorm:"index"`
	Source     string `json:"source"     gorm:"default:'manual'"` // manual | template | ai
}

func (CongratulationModel) TableName() string { return "congratulations" }
