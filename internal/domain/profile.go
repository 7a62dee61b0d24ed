package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Profile is the stored profile for one authenticated user. GoogleID is
// the lookup key and doubles as the owner id on expense records.
// Demographics are optional and only inform peer comparisons.
type Profile struct {
	GoogleID      string          `json:"googleId"`
	Email         string          `json:"email"`
	FirstName     string          `json:"firstName,omitempty"`
	LastName      string          `json:"lastName,omitempty"`
	Picture       string          `json:"picture,omitempty"`
	Age           int64           `json:"age,omitempty"`
	Gender        string          `json:"gender,omitempty"`
	MaritalStatus string          `json:"maritalStatus,omitempty"`
	Dependents    int64           `json:"dependents,omitempty"`
	Income        decimal.Decimal `json:"income"`
	Location      string          `json:"location,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ProfileUpdate carries the fields a profile update may change. Nil
// pointers leave the stored value untouched.
type ProfileUpdate struct {
	Email         *string          `json:"email"`
	FirstName     *string          `json:"firstName"`
	LastName      *string          `json:"lastName"`
	Picture       *string          `json:"picture"`
	Age           *int64           `json:"age"`
	Gender        *string          `json:"gender"`
	MaritalStatus *string          `json:"maritalStatus"`
	Dependents    *int64           `json:"dependents"`
	Income        *decimal.Decimal `json:"income"`
	Location      *string          `json:"location"`
}

// Apply copies the set fields onto p and stamps UpdatedAt.
func (u ProfileUpdate) Apply(p *Profile, now time.Time) {
	if u.Email != nil {
		p.Email = *u.Email
	}
	if u.FirstName != nil {
		p.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		p.LastName = *u.LastName
	}
	if u.Picture != nil {
		p.Picture = *u.Picture
	}
	if u.Age != nil {
		p.Age = *u.Age
	}
	if u.Gender != nil {
		p.Gender = *u.Gender
	}
	if u.MaritalStatus != nil {
		p.MaritalStatus = *u.MaritalStatus
	}
	if u.Dependents != nil {
		p.Dependents = *u.Dependents
	}
	if u.Income != nil {
		p.Income = *u.Income
	}
	if u.Location != nil {
		p.Location = *u.Location
	}
	p.UpdatedAt = now
}
