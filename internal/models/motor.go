package models

import (
	"strings"
	"time"

	apperrors "github.com/electrodrive/catalog-api/pkg/errors"
)

// Dimensions holds the physical size of a motor in millimeters
type Dimensions struct {
	Length float64 `json:"length" dynamodbav:"length"`
	Width  float64 `json:"width" dynamodbav:"width"`
	Height float64 `json:"height" dynamodbav:"height"`
}

// Motor represents a catalog entry
type Motor struct {
	ID           string     `json:"id" dynamodbav:"id"`
	Name         string     `json:"name" dynamodbav:"name"`
	Model        string     `json:"model" dynamodbav:"model"`
	Description  string     `json:"description" dynamodbav:"description"`
	Power        float64    `json:"power" dynamodbav:"power"`     // watts
	Voltage      float64    `json:"voltage" dynamodbav:"voltage"` // volts
	Current      float64    `json:"current" dynamodbav:"current"` // amperes
	Speed        float64    `json:"speed" dynamodbav:"speed"`     // rpm
	Weight       float64    `json:"weight" dynamodbav:"weight"`   // grams
	Dimensions   Dimensions `json:"dimensions" dynamodbav:"dimensions"`
	Images       []string   `json:"images" dynamodbav:"images"`
	Features     []string   `json:"features" dynamodbav:"features"`
	Applications []string   `json:"applications" dynamodbav:"applications"`
	Price        float64    `json:"price" dynamodbav:"price"`
	Available    bool       `json:"available" dynamodbav:"available"`
	CreatedAt    time.Time  `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" dynamodbav:"updated_at"`
}

// MotorInput is the create/update payload. Nil fields are absent, which
// allows partial updates without clobbering existing values.
type MotorInput struct {
	Name         *string     `json:"name"`
	Model        *string     `json:"model"`
	Description  *string     `json:"description"`
	Power        *float64    `json:"power"`
	Voltage      *float64    `json:"voltage"`
	Current      *float64    `json:"current"`
	Speed        *float64    `json:"speed"`
	Weight       *float64    `json:"weight"`
	Dimensions   *Dimensions `json:"dimensions"`
	Images       *[]string   `json:"images"`
	Features     *[]string   `json:"features"`
	Applications *[]string   `json:"applications"`
	Price        *float64    `json:"price"`
	Available    *bool       `json:"available"`
}

// ValidateCreate checks that every required field is present for a new entry.
func (in *MotorInput) ValidateCreate() error {
	missing := func(field string) error {
		return apperrors.Newf(apperrors.CodeBadRequest, "please provide the motor %s", field)
	}

	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return missing("name")
	}
	if in.Model == nil || strings.TrimSpace(*in.Model) == "" {
		return missing("model")
	}
	if in.Description == nil || strings.TrimSpace(*in.Description) == "" {
		return missing("description")
	}
	if in.Power == nil {
		return missing("power")
	}
	if in.Voltage == nil {
		return missing("voltage")
	}
	if in.Current == nil {
		return missing("current")
	}
	if in.Speed == nil {
		return missing("speed")
	}
	if in.Weight == nil {
		return missing("weight")
	}
	if in.Dimensions == nil {
		return missing("dimensions")
	}
	if in.Images == nil || len(*in.Images) == 0 {
		return apperrors.New(apperrors.CodeBadRequest, "please provide at least one image")
	}
	return nil
}

// Apply merges the non-nil fields of the input into m.
func (in *MotorInput) Apply(m *Motor) {
	if in.Name != nil {
		m.Name = *in.Name
	}
	if in.Model != nil {
		m.Model = *in.Model
	}
	if in.Description != nil {
		m.Description = *in.Description
	}
	if in.Power != nil {
		m.Power = *in.Power
	}
	if in.Voltage != nil {
		m.Voltage = *in.Voltage
	}
	if in.Current != nil {
		m.Current = *in.Current
	}
	if in.Speed != nil {
		m.Speed = *in.Speed
	}
	if in.Weight != nil {
		m.Weight = *in.Weight
	}
	if in.Dimensions != nil {
		m.Dimensions = *in.Dimensions
	}
	if in.Images != nil {
		m.Images = *in.Images
	}
	if in.Features != nil {
		m.Features = *in.Features
	}
	if in.Applications != nil {
		m.Applications = *in.Applications
	}
	if in.Price != nil {
		m.Price = *in.Price
	}
	if in.Available != nil {
		m.Available = *in.Available
	}
}

// MotorFilter describes the conjunctive listing filters. Zero values
// mean "not set" for Search; nil means "not set" for the rest.
type MotorFilter struct {
	Search    string
	MinPower  *float64
	MaxPower  *float64
	Available *bool
}

// Matches reports whether m satisfies every active filter predicate.
func (f *MotorFilter) Matches(m *Motor) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(m.Name), needle) &&
			!strings.Contains(strings.ToLower(m.Model), needle) {
			return false
		}
	}
	if f.MinPower != nil && m.Power < *f.MinPower {
		return false
	}
	if f.MaxPower != nil && m.Power > *f.MaxPower {
		return false
	}
	if f.Available != nil && m.Available != *f.Available {
		return false
	}
	return true
}

// MatchesKeyword reports whether keyword occurs in the name, model or
// description, case-insensitively.
func (m *Motor) MatchesKeyword(keyword string) bool {
	needle := strings.ToLower(keyword)
	return strings.Contains(strings.ToLower(m.Name), needle) ||
		strings.Contains(strings.ToLower(m.Model), needle) ||
		strings.Contains(strings.ToLower(m.Description), needle)
}

// Pagination describes the page window of a listing response
type Pagination struct {
	Pages int `json:"pages"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// ListResult is the outcome of a filtered, paginated listing
type ListResult struct {
	Motors     []Motor
	Total      int
	Pagination Pagination
}
