package models

import "time"

// Member is a directory entry, unique by LinkedInID.
type Member struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Photo      *string   `json:"photo"`
	Batch      string    `json:"batch"`
	LinkedInID string    `json:"linkedinId"`
	Field      string    `json:"field"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type NewMember struct {
	Name       string
	Batch      string
	LinkedInID string
	Field      string
}

// MemberPatch carries a partial update. A nil field is left untouched.
type MemberPatch struct {
	Name       *string
	Batch      *string
	LinkedInID *string
	Field      *string
	Photo      *string
}

func (p MemberPatch) IsEmpty() bool {
	return p.Name == nil && p.Batch == nil && p.LinkedInID == nil && p.Field == nil && p.Photo == nil
}

// Apply copies the set fields onto m.
func (p MemberPatch) Apply(m *Member) {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Batch != nil {
		m.Batch = *p.Batch
	}
	if p.LinkedInID != nil {
		m.LinkedInID = *p.LinkedInID
	}
	if p.Field != nil {
		m.Field = *p.Field
	}
	if p.Photo != nil {
		photo := *p.Photo
		m.Photo = &photo
	}
}
