package domain

import "time"

type Fundraiser struct {
	ID           uint          `json:"id"`
	Slug         string        `json:"slug"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	StartsAt     time.Time     `json:"starts_at"`
	EndsAt       time.Time     `json:"ends_at"`
	Active       bool          `json:"active"`
	Featured     bool          `json:"featured"`
	Participants []Participant `json:"participants,omitempty"`
	Items        []Item        `json:"items,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// IsOpen reports whether the fundraiser currently accepts orders.
func (f *Fundraiser) IsOpen(now time.Time) bool {
	if !f.Active {
		return false
	}
	if !f.StartsAt.IsZero() && now.Before(f.StartsAt) {
		return false
	}
	if !f.EndsAt.IsZero() && now.After(f.EndsAt) {
		return false
	}
	return true
}

type Participant struct {
	ID           uint      `json:"id"`
	FundraiserID uint      `json:"fundraiser_id"`
	Name         string    `json:"name"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
