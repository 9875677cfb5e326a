package models

import "time"

// BaseModel is gorm.Model without DeletedAt. Account teardown must leave
// zero rows behind, so soft deletion is not used anywhere in the ownership
// tree.
type BaseModel struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
