package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Article lifecycle states. There is no third state; an article is either a
// private draft or publicly visible.
const (
	StateDraft     = "draft"
	StatePublished = "published"
)

// Article represents a blog article. Ownership is tracked by UserID, captured
// at creation and never reassigned; authorization compares IDs, never names.
type Article struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"uniqueIndex;not null" json:"title"`
	Description string     `json:"description"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	User        User       `gorm:"foreignKey:UserID" json:"user"`
	State       string     `gorm:"not null;default:draft;index" json:"state"`
	ReadCount   int64      `gorm:"not null;default:0" json:"read_count"`
	ReadingTime int        `gorm:"not null" json:"reading_time"`
	Tags        StringList `gorm:"type:text" json:"tags"`
	Body        string     `gorm:"type:text" json:"body"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Author returns the display name of the article's author when the user
// association is loaded.
func (a *Article) Author() string {
	return a.User.FirstName
}

// ValidState reports whether s is a known lifecycle state.
func ValidState(s string) bool {
	return s == StateDraft || s == StatePublished
}

// StringList is an order-preserving list of strings persisted as a single
// comma-separated text column. JSON encoding stays a plain array.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	return strings.Join(l, ","), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}

	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}

	if s == "" {
		*l = nil
		return nil
	}
	*l = strings.Split(s, ",")
	return nil
}

// NormalizeTags trims whitespace and drops empty entries while preserving the
// caller's order. Commas cannot appear inside a tag because of the storage
// encoding.
func NormalizeTags(tags []string) StringList {
	var out StringList
	for _, t := range tags {
		t = strings.TrimSpace(strings.ReplaceAll(t, ",", " "))
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}
