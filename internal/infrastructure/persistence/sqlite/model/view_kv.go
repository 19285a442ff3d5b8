package model

type ViewKV struct {
	Key       string `gorm:"column:key;type:text;primaryKey"`
	Value     string `gorm:"column:value;type:text;not null"`
	UpdatedAt string `gorm:"column:updated_at;type:text;not null"`
}

func (ViewKV) TableName() string {
	return "view_kv"
}

// All lists every model the schema migration creates.
func All() []any {
	return []any{&Exception{}, &ViewKV{}}
}
