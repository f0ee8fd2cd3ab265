package entities

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile is the one-to-one extension of a user account. It is created
// together with the user and removed with it.
type UserProfile struct {
	ID     uuid.UUID `json:"-"`
	UserID uuid.UUID `json:"-"`

	CompanyName string `json:"companyName,omitempty"`
	JobTitle    string `json:"jobTitle,omitempty"`
	Industry    string `json:"industry,omitempty"`

	AddressLine1  string `json:"addressLine1,omitempty"`
	AddressLine2  string `json:"addressLine2,omitempty"`
	City          string `json:"city,omitempty"`
	StateProvince string `json:"stateProvince,omitempty"`
	PostalCode    string `json:"postalCode,omitempty"`

	Website         string `json:"website,omitempty"`
	LinkedinProfile string `json:"linkedinProfile,omitempty"`
	TwitterHandle   string `json:"twitterHandle,omitempty"`

	Bio      string `json:"bio,omitempty"`
	Timezone string `json:"timezone"`

	ProfilePublic bool `json:"profilePublic"`
	ShowEmail     bool `json:"showEmail"`
	ShowPhone     bool `json:"showPhone"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProfileInput represents profile fields accepted on registration and update
type ProfileInput struct {
	CompanyName     *string `json:"companyName,omitempty" binding:"omitempty,max=200"`
	JobTitle        *string `json:"jobTitle,omitempty" binding:"omitempty,max=100"`
	Industry        *string `json:"industry,omitempty" binding:"omitempty,max=100"`
	AddressLine1    *string `json:"addressLine1,omitempty" binding:"omitempty,max=255"`
	AddressLine2    *string `json:"addressLine2,omitempty" binding:"omitempty,max=255"`
	City            *string `json:"city,omitempty" binding:"omitempty,max=100"`
	StateProvince   *string `json:"stateProvince,omitempty" binding:"omitempty,max=100"`
	PostalCode      *string `json:"postalCode,omitempty" binding:"omitempty,max=20"`
	Website         *string `json:"website,omitempty" binding:"omitempty,url"`
	LinkedinProfile *string `json:"linkedinProfile,omitempty" binding:"omitempty,url"`
	TwitterHandle   *string `json:"twitterHandle,omitempty" binding:"omitempty,max=50"`
	Bio             *string `json:"bio,omitempty"`
	Timezone        *string `json:"timezone,omitempty" binding:"omitempty,max=50"`
	ProfilePublic   *bool   `json:"profilePublic,omitempty"`
	ShowEmail       *bool   `json:"showEmail,omitempty"`
	ShowPhone       *bool   `json:"showPhone,omitempty"`
}

// Apply overwrites profile fields that are present in the input
func (in *ProfileInput) Apply(p *UserProfile) {
	if in == nil {
		return
	}
	if in.CompanyName != nil {
		p.CompanyName = *in.CompanyName
	}
	if in.JobTitle != nil {
		p.JobTitle = *in.JobTitle
	}
	if in.Industry != nil {
		p.Industry = *in.Industry
	}
	if in.AddressLine1 != nil {
		p.AddressLine1 = *in.AddressLine1
	}
	if in.AddressLine2 != nil {
		p.AddressLine2 = *in.AddressLine2
	}
	if in.City != nil {
		p.City = *in.City
	}
	if in.StateProvince != nil {
		p.StateProvince = *in.StateProvince
	}
	if in.PostalCode != nil {
		p.PostalCode = *in.PostalCode
	}
	if in.Website != nil {
		p.Website = *in.Website
	}
	if in.LinkedinProfile != nil {
		p.LinkedinProfile = *in.LinkedinProfile
	}
	if in.TwitterHandle != nil {
		p.TwitterHandle = *in.TwitterHandle
	}
	if in.Bio != nil {
		p.Bio = *in.Bio
	}
	if in.Timezone != nil {
		p.Timezone = *in.Timezone
	}
	if in.ProfilePublic != nil {
		p.ProfilePublic = *in.ProfilePublic
	}
	if in.ShowEmail != nil {
		p.ShowEmail = *in.ShowEmail
	}
	if in.ShowPhone != nil {
		p.ShowPhone = *in.ShowPhone
	}
}
