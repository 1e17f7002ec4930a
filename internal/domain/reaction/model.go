package reaction

import "time"

const (
	MaxEmojiLength = 10
	TopEmojiLimit  = 3
	RecentLimit    = 20
)

type Reaction struct {
	ID           uint      `gorm:"primaryKey"`
	ItemID       uint      `gorm:"not null;uniqueIndex:reactions_item_person_key"`
	PersonID     uint      `gorm:"not null;uniqueIndex:reactions_item_person_key"`
	ReactionType string    `gorm:"size:10;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (Reaction) TableName() string { return "reactions" }

// Entry is a stored reaction joined with its author's display name.
type Entry struct {
	ItemID     uint
	PersonID   uint
	Emoji      string
	PersonName string
	CreatedAt  time.Time
}

type Reactor struct {
	Name    string `json:"name"`
	Initial string `json:"initial"`
	Emoji   string `json:"emoji"`
}

type Group struct {
	Emoji string   `json:"emoji"`
	Count int      `json:"count"`
	Names []string `json:"names"`
}

// Summary is the detail view of an item's reactions.
type Summary struct {
	Total     int       `json:"total"`
	TopEmojis []string  `json:"recent_emojis"`
	Groups    []Group   `json:"emoji_groups"`
	Reactors  []Reactor `json:"reactors"`
	MyEmoji   *string   `json:"my_emoji"`
}

// Badge is the compact per-item view used on feed pages.
type Badge struct {
	Emojis []string `json:"emojis"`
	Total  int      `json:"total"`
	Mine   *string  `json:"mine"`
}
