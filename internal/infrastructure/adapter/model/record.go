package model

import (
	"time"
)

// Record represents the database model for staff records
type Record struct {
	ID        string    `gorm:"primaryKey;type:varchar(255)"`
	Login     string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_login"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Salary    float64   `gorm:"not null;index:idx_users_salary;check:chk_users_salary_non_negative,salary >= 0"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false"`
}

// TableName specifies the table name for Record
func (Record) TableName() string {
	return "users"
}
