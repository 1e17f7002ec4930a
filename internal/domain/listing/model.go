package listing

import (
	"io"
	"time"

	"campus-market-go/internal/domain/campus"
	"campus-market-go/internal/domain/person"
	"campus-market-go/internal/domain/reaction"
)

const (
	MaxImages       = 5
	SimilarLimit    = 6
	inquiryTemplate = "Hello, I am interested in buying %s. Is it available?"
)

type Hostel struct {
	Name   string      `gorm:"primaryKey;size:100"`
	Campus campus.Code `gorm:"type:varchar(5);not null"`
}

func (Hostel) TableName() string { return "hostels" }

type Category struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:100;not null"`
	IconClass *string   `gorm:"size:100"`
	AddedAt   time.Time `gorm:"autoCreateTime"`
}

func (Category) TableName() string { return "categories" }

// CategoryCount is a category with the number of items under the active campus filter.
type CategoryCount struct {
	ID        uint
	Name      string
	IconClass *string
	ItemCount int64
}

type Item struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"size:500;not null"`
	Description string    `gorm:"not null;default:''"`
	Price       Price     `gorm:"type:numeric(10,2);not null"`
	SellerID    uint      `gorm:"not null"`
	IsSold      bool      `gorm:"not null;default:false"`
	WhatsApp    *string   `gorm:"column:whatsapp;size:500"`
	CategoryID  uint      `gorm:"not null"`
	HostelName  *string   `gorm:"size:100"`
	Phone       *string   `gorm:"size:20"`
	AddedAt     time.Time `gorm:"autoCreateTime"`
	// Only meaningful edits advance UpdatedAt, so gorm must not touch it.
	UpdatedAt   time.Time `gorm:"autoUpdateTime:false;not null"`

	Seller   person.Person `gorm:"foreignKey:SellerID"`
	Category Category      `gorm:"foreignKey:CategoryID"`
	Images   []Image       `gorm:"foreignKey:ItemID"`
}

func (Item) TableName() string { return "items" }

type Image struct {
	ID           uint      `gorm:"primaryKey"`
	ItemID       uint      `gorm:"not null;index"`
	ObjectKey    string    `gorm:"not null"`
	URL          string    `gorm:"column:url;not null"`
	DisplayOrder int       `gorm:"not null;default:0"`
	AddedAt      time.Time `gorm:"autoCreateTime"`
}

func (Image) TableName() string { return "item_images" }

// Upload is a single image submitted with a listing.
type Upload struct {
	Filename string
	Content  io.Reader
}

// ItemInput is the seller-editable part of a listing. Phone and Hostel also
// update the seller's own profile when set.
type ItemInput struct {
	Name        string
	Description string
	Price       Price
	CategoryID  uint
	Phone       *string
	Hostel      *string
	Images      []Upload
}

// ItemDetail is an item with its neighbours in the same category and its reactions.
type ItemDetail struct {
	Item      Item
	Similar   []Item
	Reactions *reaction.Summary
}
