package model

type Exception struct {
	ExceptionID  uint64 `gorm:"column:exception_id;primaryKey;autoIncrement"`
	DeliveryID   string `gorm:"column:delivery_id;type:text;not null"`
	CustomerName string `gorm:"column:customer_name;type:text;not null"`
	IssueType    string `gorm:"column:issue_type;type:text;not null;index"`
	Priority     string `gorm:"column:priority;type:text;not null"`
	Status       string `gorm:"column:status;type:text;not null;index"`
	Notes        string `gorm:"column:notes;type:text;not null;default:''"`
	CreatedAt    string `gorm:"column:created_at;type:text;not null"`
	UpdatedAt    string `gorm:"column:updated_at;type:text;not null"`
}

func (Exception) TableName() string {
	return "exceptions"
}
