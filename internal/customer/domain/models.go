package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Customer struct {
	ID                         snowflake.ID `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name                       string       `gorm:"size:200;not null" json:"name" validate:"required,max=200"`
	ContactPerson              string       `gorm:"size:100" json:"contactPerson" validate:"max=100"`
	Phone                      string       `gorm:"size:50" json:"phone" validate:"max=50"`
	Email                      string       `gorm:"size:200" json:"email" validate:"omitempty,email,max=200"`
	Address                    string       `gorm:"type:text" json:"address"`
	BusinessRegistrationNumber string       `gorm:"size:50" json:"businessRegistrationNumber" validate:"max=50"`
	CreatedAt                  time.Time    `gorm:"not null;autoCreateTime:false" json:"createdAt"`
	UpdatedAt                  time.Time    `gorm:"not null;autoUpdateTime:false" json:"updatedAt"`
}
