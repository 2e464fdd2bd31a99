package models

import (
	"time"

	"github.com/google/uuid"
)

type ContactStatus string

const (
	ContactStatusNew     ContactStatus = "NEW"
	ContactStatusRead    ContactStatus = "READ"
	ContactStatusReplied ContactStatus = "REPLIED"
)

func (s ContactStatus) Valid() bool {
	switch s {
	case ContactStatusNew, ContactStatusRead, ContactStatusReplied:
		return true
	}
	return false
}

// Contact is a message left through the public contact form
type Contact struct {
	ID        uuid.UUID     `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name      string        `json:"name" db:"name" gorm:"type:varchar(100);not null"`
	Email     string        `json:"email" db:"email" gorm:"type:text;not null;index"`
	Subject   string        `json:"subject" db:"subject" gorm:"type:varchar(200);not null"`
	Message   string        `json:"message" db:"message" gorm:"type:text;not null"`
	Status    ContactStatus `json:"status" db:"status" gorm:"type:text;not null;default:'NEW';index"`
	CreatedAt time.Time     `json:"createdAt" db:"created_at" gorm:"not null;index:,sort:desc"`
	UpdatedAt time.Time     `json:"updatedAt" db:"updated_at" gorm:"not null"`
}
