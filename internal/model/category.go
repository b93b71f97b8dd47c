package model

import "time"

type Category struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Slug      string    `gorm:"size:64;not null;uniqueIndex:uk_categories_slug" json:"slug"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Category) TableName() string {
	return "categories"
}
