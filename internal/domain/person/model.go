package person

import (
	"strconv"
	"strings"
	"time"

	"campus-market-go/internal/domain/campus"
)

type Person struct {
	ID               uint        `gorm:"primaryKey"`
	Name             string      `gorm:"size:100;not null"`
	Email            string      `gorm:"not null;uniqueIndex"`
	IsSubscribed     bool        `gorm:"not null;default:true"`
	Phone            *string     `gorm:"size:20"`
	Campus           campus.Code `gorm:"type:varchar(5);not null"`
	HostelName       *string     `gorm:"size:100"`
	LastNotification time.Time   `gorm:"not null"`
	RegisteredAt     time.Time   `gorm:"autoCreateTime"`
}

func (Person) TableName() string { return "persons" }

// Year reads the admission year from institutional ids such as f20210001@...
func (p Person) Year() (int, bool) {
	local, _, _ := strings.Cut(p.Email, "@")
	if len(local) < 5 {
		return 0, false
	}
	year, err := strconv.Atoi(local[1:5])
	if err != nil {
		return 0, false
	}
	return year, true
}

// Identity is what the identity provider vouches for.
type Identity struct {
	Email string
	Name  string
}

// ContactUpdate carries optional profile changes. A nil field is left as is;
// an empty string clears the value.
type ContactUpdate struct {
	Phone  *string
	Hostel *string
}
