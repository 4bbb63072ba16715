package model

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	CreatedBy uuid.UUID   `json:"created_by"`
	Members   []uuid.UUID `json:"members"`
	CreatedAt time.Time   `json:"created_at"`
}

// HasMember reports whether the user belongs to the project.
// The creator is always a member.
func (p *Project) HasMember(userID uuid.UUID) bool {
	if p.CreatedBy == userID {
		return true
	}
	for _, id := range p.Members {
		if id == userID {
			return true
		}
	}
	return false
}
