package model

import "time"

// CategoryID uniquely identifies a category
type CategoryID string

// Category is a prompt topic; rounds pick one at random from the active set
type Category struct {
	ID          CategoryID
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
}
