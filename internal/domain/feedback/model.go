package feedback

import (
	"io"
	"time"
)

const (
	MaxImages        = 5
	MaxMessageLength = 5000
)

type Feedback struct {
	ID       uint      `gorm:"primaryKey"`
	PersonID *uint     `gorm:"index"`
	Message  string    `gorm:"not null"`
	AddedAt  time.Time `gorm:"autoCreateTime"`

	Images []Image `gorm:"foreignKey:FeedbackID"`
}

func (Feedback) TableName() string { return "feedbacks" }

type Image struct {
	ID         uint      `gorm:"primaryKey"`
	FeedbackID uint      `gorm:"not null;index"`
	ObjectKey  string    `gorm:"not null"`
	URL        string    `gorm:"column:url;not null"`
	AddedAt    time.Time `gorm:"autoCreateTime"`
}

func (Image) TableName() string { return "feedback_images" }

type Upload struct {
	Filename string
	Content  io.Reader
}
