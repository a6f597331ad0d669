package domain

import (
	"time"

	"github.com/google/uuid"
)

type ReadingStatus string

const (
	StatusWantToRead ReadingStatus = "want_to_read"
	StatusReading    ReadingStatus = "reading"
	StatusRead       ReadingStatus = "read"
)

func (s ReadingStatus) Valid() bool {
	switch s {
	case StatusWantToRead, StatusReading, StatusRead:
		return true
	}
	return false
}

type UserBookStatus struct {
	ID            uuid.UUID     `json:"id"`
	UserID        uuid.UUID     `json:"userId"`
	OpenLibraryID string        `json:"openLibraryId"`
	Status        ReadingStatus `json:"status"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}
