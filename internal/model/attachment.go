package model

import (
	"time"

	"github.com/google/uuid"
)

type MediaType string

const (
	MediaTypeImage    MediaType = "image"
	MediaTypeVideo    MediaType = "video"
	MediaTypeDocument MediaType = "document"
	MediaTypeContact  MediaType = "contact"
)

func (m MediaType) Valid() bool {
	switch m {
	case MediaTypeImage, MediaTypeVideo, MediaTypeDocument, MediaTypeContact:
		return true
	}
	return false
}

type AttachmentCategory string

const (
	CategoryReference   AttachmentCategory = "reference"
	CategoryWork        AttachmentCategory = "work"
	CategoryInstruction AttachmentCategory = "instruction"
)

func (c AttachmentCategory) Valid() bool {
	switch c {
	case CategoryReference, CategoryWork, CategoryInstruction:
		return true
	}
	return false
}

// Attachment carries file metadata only; blob storage is out of scope.
type Attachment struct {
	ID         uuid.UUID          `json:"id"`
	MediaType  MediaType          `json:"media_type"`
	Category   AttachmentCategory `json:"category"`
	FileName   string             `json:"file_name"`
	SizeBytes  int64              `json:"size_bytes"`
	UploadedBy uuid.UUID          `json:"uploaded_by"`
	UploadedAt time.Time          `json:"uploaded_at"`
	Caption    string             `json:"caption,omitempty"`
}
