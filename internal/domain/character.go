package domain

import (
	"fmt"
	"strings"
)

type CharacterRole string

const (
	RoleMain       CharacterRole = "MAIN"
	RoleSupporting CharacterRole = "SUPPORTING"
	RoleBackground CharacterRole = "BACKGROUND"
	RoleUnknown    CharacterRole = "UNKNOWN"
)

// ParseRole maps the role reported on a character edge. Anything outside the
// known set becomes RoleUnknown.
func ParseRole(raw string) CharacterRole {
	role := CharacterRole(strings.ToUpper(strings.TrimSpace(raw)))
	if role.IsValid() {
		return role
	}
	return RoleUnknown
}

func (r CharacterRole) String() string {
	return string(r)
}

func (r CharacterRole) IsValid() bool {
	switch r {
	case RoleMain, RoleSupporting, RoleBackground:
		return true
	default:
		return false
	}
}

// Label is the lower-case form shown under a character card.
func (r CharacterRole) Label() string {
	if r == "" {
		return strings.ToLower(string(RoleUnknown))
	}
	return strings.ToLower(string(r))
}

// CharacterSummary is one entry of a cast list.
type CharacterSummary struct {
	ID    int           `json:"id"`
	Name  string        `json:"name"`
	Role  CharacterRole `json:"role"`
	Image string        `json:"image,omitempty"`
}

func (c CharacterSummary) Key() int {
	return c.ID
}

// FuzzyDate is a partial calendar date; any part may be absent.
type FuzzyDate struct {
	Year  *int `json:"year,omitempty"`
	Month *int `json:"month,omitempty"`
	Day   *int `json:"day,omitempty"`
}

func (d FuzzyDate) IsZero() bool {
	return d.Year == nil && d.Month == nil && d.Day == nil
}

// String renders d/m/y with "?" for missing parts, or "" when no part is known.
func (d FuzzyDate) String() string {
	if d.IsZero() {
		return ""
	}
	part := func(p *int) string {
		if p == nil {
			return "?"
		}
		return fmt.Sprintf("%d", *p)
	}
	return part(d.Day) + "/" + part(d.Month) + "/" + part(d.Year)
}

// CharacterDetail is the full record behind the character detail view.
type CharacterDetail struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	NativeName  *string   `json:"native_name,omitempty"`
	Image       string    `json:"image,omitempty"`
	Age         *string   `json:"age,omitempty"`
	Gender      *string   `json:"gender,omitempty"`
	DateOfBirth FuzzyDate `json:"date_of_birth"`
	Description string    `json:"description,omitempty"`
	SiteURL     string    `json:"site_url,omitempty"`
}

// Summary derives the cast-list form of a detail record for the given edge role.
func (c CharacterDetail) Summary(role CharacterRole) CharacterSummary {
	if !role.IsValid() {
		role = RoleUnknown
	}
	return CharacterSummary{
		ID:    c.ID,
		Name:  c.Name,
		Role:  role,
		Image: c.Image,
	}
}
