package models

import (
	"strings"
	"time"

	id "crossclass/pkg/domain"
	dErrors "crossclass/pkg/domain-errors"
)

// Document is the subject artifact a conversion request classifies. Title and
// description are encrypted at rest by the persistence layer; the model only
// ever holds plaintext.
type Document struct {
	ID          id.DocumentID `json:"id"`
	CreatorID   id.UserID     `json:"creator_id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func NewDocument(creator id.UserID, title, description string, now time.Time) (*Document, error) {
	if strings.TrimSpace(title) == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "document title cannot be empty")
	}
	return &Document{
		ID:          id.NewDocumentID(),
		CreatorID:   creator,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
