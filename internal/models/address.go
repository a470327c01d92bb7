package models

import "strings"

// Address is a shipping address embedded in orders and user profiles.
// It is a value object: no identity, no lifecycle of its own.
type Address struct {
	Phone        string `json:"phone" validate:"required"`
	UnitNumber   string `json:"unit_number" validate:"omitempty,max=50"`
	AddressLine1 string `json:"address_line1" validate:"required"`
	AddressLine2 string `json:"address_line2" validate:"omitempty,max=200"`
	Landmark     string `json:"landmark" validate:"omitempty,max=200"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	Pincode      string `json:"pincode" validate:"required,min=4"`
	Country      string `json:"country"`
}

// DefaultCountry is used when an address is created without a country.
const DefaultCountry = "India"

// IsValid reports whether the address carries the minimum fields needed to
// ship a parcel: phone, address line 1, city and state non-blank, and a
// pincode of at least 4 characters.
func (a Address) IsValid() bool {
	if strings.TrimSpace(a.Phone) == "" ||
		strings.TrimSpace(a.AddressLine1) == "" ||
		strings.TrimSpace(a.City) == "" ||
		strings.TrimSpace(a.State) == "" {
		return false
	}
	return len(strings.TrimSpace(a.Pincode)) >= 4
}

// FormattedString renders the address as a human-readable multi-line block,
// optionally prefixed with a recipient name. Blank optional fields (unit
// number, address line 2, landmark) produce no line at all.
func (a Address) FormattedString(name string) string {
	lines := make([]string, 0, 8)
	if strings.TrimSpace(name) != "" {
		lines = append(lines, strings.TrimSpace(name))
	}
	if strings.TrimSpace(a.UnitNumber) != "" {
		lines = append(lines, strings.TrimSpace(a.UnitNumber))
	}
	lines = append(lines, strings.TrimSpace(a.AddressLine1))
	if strings.TrimSpace(a.AddressLine2) != "" {
		lines = append(lines, strings.TrimSpace(a.AddressLine2))
	}
	if strings.TrimSpace(a.Landmark) != "" {
		lines = append(lines, "Landmark: "+strings.TrimSpace(a.Landmark))
	}
	lines = append(lines, strings.TrimSpace(a.City)+", "+strings.TrimSpace(a.State)+" - "+strings.TrimSpace(a.Pincode))
	country := a.Country
	if strings.TrimSpace(country) == "" {
		country = DefaultCountry
	}
	lines = append(lines, country)
	lines = append(lines, "Phone: "+strings.TrimSpace(a.Phone))
	return strings.Join(lines, "\n")
}
