// Package models provides the records stored by the user-state service.
// This file contains the profile record: the user's self-description as
// shown on the account page.
package models

import (
	"fmt"
	"time"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/constants"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/utils"
)

// JoinedDateLayout renders JoinedDate as an ISO-8601 UTC timestamp with millisecond precision.
const JoinedDateLayout = "2006-01-02T15:04:05.000Z07:00"

// Profile represents the user's self-description.
// Every field may be empty. A non-empty email, avatar, timezone or joinedDate
// must be well formed when it is updated.
type Profile struct {
	// Name is the display name
	Name string `json:"name"`

	// Email is the contact address, may be empty
	Email string `json:"email"`

	// Avatar is a URI of the profile picture, may be empty
	Avatar string `json:"avatar"`

	// Location is free text such as a city
	Location string `json:"location"`

	// Timezone is an IANA timezone name
	Timezone string `json:"timezone"`

	// Bio is free text
	Bio string `json:"bio"`

	// JoinedDate records when the profile was first created
	JoinedDate string `json:"joinedDate"`
}

// NewDefaultProfile creates the profile used when nothing is stored yet.
//
// Parameters:
//   - now: The creation instant, rendered into JoinedDate
//
// Returns:
//   - A Profile with empty text fields and the default timezone
func NewDefaultProfile(now time.Time) Profile {
	return Profile{
		Timezone:   constants.DefaultTimezone,
		JoinedDate: now.UTC().Format(JoinedDateLayout),
	}
}

// ProfileUpdate represents a partial profile change.
// Nil fields are left untouched by Apply; an empty string clears a field.
type ProfileUpdate struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Email      *string `json:"email,omitempty" validate:"omitempty,max=254"`
	Avatar     *string `json:"avatar,omitempty" validate:"omitempty,max=2048"`
	Location   *string `json:"location,omitempty" validate:"omitempty,max=200"`
	Timezone   *string `json:"timezone,omitempty" validate:"omitempty,max=64"`
	Bio        *string `json:"bio,omitempty" validate:"omitempty,max=2000"`
	JoinedDate *string `json:"joinedDate,omitempty" validate:"omitempty,max=64"`
}

// profileFormats lists the formatted profile fields and their validator tags
var profileFormats = []struct {
	field string
	tag   string
	value func(u *ProfileUpdate) *string
}{
	{constants.FieldEmail, "email", func(u *ProfileUpdate) *string { return u.Email }},
	{constants.FieldAvatar, "uri", func(u *ProfileUpdate) *string { return u.Avatar }},
	{constants.FieldTimezone, "timezone", func(u *ProfileUpdate) *string { return u.Timezone }},
	{constants.FieldJoinedDate, "datetime=2006-01-02T15:04:05Z07:00", func(u *ProfileUpdate) *string { return u.JoinedDate }},
}

// Validate checks the length limits of every field and the format of
// the non-empty email, avatar, timezone and joinedDate values.
func (u *ProfileUpdate) Validate() error {
	if err := utils.ValidateStruct(u); err != nil {
		return err
	}
	for _, f := range profileFormats {
		value := f.value(u)
		if value == nil || *value == "" {
			continue
		}
		if err := utils.ValidateVar(f.field, *value, f.tag); err != nil {
			return err
		}
	}
	return nil
}

// IsEmpty reports whether the update changes nothing.
func (u *ProfileUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.Avatar == nil && u.Location == nil &&
		u.Timezone == nil && u.Bio == nil && u.JoinedDate == nil
}

// Apply merges the non-nil fields of the update onto the profile.
func (p *Profile) Apply(update *ProfileUpdate) {
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Email != nil {
		p.Email = *update.Email
	}
	if update.Avatar != nil {
		p.Avatar = *update.Avatar
	}
	if update.Location != nil {
		p.Location = *update.Location
	}
	if update.Timezone != nil {
		p.Timezone = *update.Timezone
	}
	if update.Bio != nil {
		p.Bio = *update.Bio
	}
	if update.JoinedDate != nil {
		p.JoinedDate = *update.JoinedDate
	}
}

// ProfileUpdateFromField builds a single-field update from a JSON field name.
//
// Parameters:
//   - key: One of the profile JSON field names
//   - value: The new value
//
// Returns:
//   - The update, or a validation error if key is not a profile field
func ProfileUpdateFromField(key, value string) (ProfileUpdate, error) {
	var update ProfileUpdate
	switch key {
	case constants.FieldName:
		update.Name = &value
	case constants.FieldEmail:
		update.Email = &value
	case constants.FieldAvatar:
		update.Avatar = &value
	case constants.FieldLocation:
		update.Location = &value
	case constants.FieldTimezone:
		update.Timezone = &value
	case constants.FieldBio:
		update.Bio = &value
	case constants.FieldJoinedDate:
		update.JoinedDate = &value
	default:
		return update, utils.NewValidationError(key, fmt.Sprintf("Unknown profile field %q", key))
	}
	return update, nil
}
