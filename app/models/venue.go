package models

import (
	"encoding/json"
)

type Venue struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Address          string          `json:"address"`
	ContactPerson    string          `json:"contactPerson,omitempty"`
	ContactPhone     string          `json:"contactPhone,omitempty"`
	ContactEmail     string          `json:"contactEmail,omitempty"`
	Description      string          `json:"description,omitempty"`
	SeatedCapacity   int             `json:"seatedCapacity"`
	StandingCapacity int             `json:"standingCapacity"`
	Zone             Ref             `json:"zone"`
	PricingSchedule  PricingSchedule `json:"pricingSchedule"`
	IsActive         bool            `json:"isActive"`
	IsTopPick        bool            `json:"isTopPick"`
	Thumbnail        string          `json:"thumbnail,omitempty"`
	Images           []string        `json:"images,omitempty"`
}

// TotalCapacity is derived, the backend does not store it.
func (v Venue) TotalCapacity() int {
	return v.SeatedCapacity + v.StandingCapacity
}

func (v *Venue) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID               string          `json:"id"`
		MongoID          string          `json:"_id"`
		Name             string          `json:"name"`
		VenueName        string          `json:"venueName"`
		Address          string          `json:"address"`
		VenueAddress     string          `json:"venueAddress"`
		ContactPerson    string          `json:"contactPerson"`
		ContactPhone     string          `json:"contactPhone"`
		ContactEmail     string          `json:"contactEmail"`
		Description      string          `json:"description"`
		SeatedCapacity   flexInt         `json:"seatedCapacity"`
		SeatingCapacity  flexInt         `json:"seatingCapacity"`
		StandingCapacity flexInt         `json:"standingCapacity"`
		FloatingCapacity flexInt         `json:"floatingCapacity"`
		Zone             Ref             `json:"zone"`
		PricingSchedule  PricingSchedule `json:"pricingSchedule"`
		IsActive         *bool           `json:"isActive"`
		IsTopPick        bool            `json:"isTopPick"`
		Thumbnail        string          `json:"thumbnail"`
		Images           []string        `json:"images"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	seated := int(raw.SeatedCapacity)
	if seated == 0 {
		seated = int(raw.SeatingCapacity)
	}
	standing := int(raw.StandingCapacity)
	if standing == 0 {
		standing = int(raw.FloatingCapacity)
	}

	*v = Venue{
		ID:               firstNonEmpty(raw.MongoID, raw.ID),
		Name:             firstNonEmpty(raw.Name, raw.VenueName),
		Address:          firstNonEmpty(raw.Address, raw.VenueAddress),
		ContactPerson:    raw.ContactPerson,
		ContactPhone:     raw.ContactPhone,
		ContactEmail:     raw.ContactEmail,
		Description:      raw.Description,
		SeatedCapacity:   seated,
		StandingCapacity: standing,
		Zone:             raw.Zone,
		PricingSchedule:  raw.PricingSchedule.Normalize(),
		IsActive:         raw.IsActive == nil || *raw.IsActive,
		IsTopPick:        raw.IsTopPick,
		Thumbnail:        raw.Thumbnail,
		Images:           raw.Images,
	}
	return nil
}
