package models

import (
	"time"

	"github.com/verbatim-inc/verbatim/internal/shared/constants"
)

// UserModel represents the database persistence model for users
// This is the anti-corruption layer between domain and database
type UserModel struct {
	ID        uint   `gorm:"primarykey"`
	Username  string `gorm:"uniqueIndex;not null;size:150"`
	Email     string `gorm:"not null;size:254"`
	FirstName string `gorm:"not null;default:'';size:30"`
	LastName  string `gorm:"not null;default:'';size:30"`
	IsActive  bool   `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (UserModel) TableName() string {
	return constants.TableUsers
}
