package models_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/models"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/utils"
)

func strPtr(s string) *string { return &s }

func TestNewDefaultProfile(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 30, 15, 123456789, time.FixedZone("CET", 3600))
	profile := models.NewDefaultProfile(now)

	assert.Equal(t, "", profile.Name)
	assert.Equal(t, "", profile.Email)
	assert.Equal(t, "", profile.Avatar)
	assert.Equal(t, "", profile.Location)
	assert.Equal(t, "", profile.Bio)
	assert.Equal(t, "UTC", profile.Timezone, "Timezone should default to UTC")
	assert.Equal(t, "2024-03-05T13:30:15.123Z", profile.JoinedDate, "JoinedDate should be ISO-8601 UTC with milliseconds")
}

func TestProfile_Apply(t *testing.T) {
	profile := models.NewDefaultProfile(time.Now())
	joined := profile.JoinedDate

	profile.Apply(&models.ProfileUpdate{Name: strPtr("Ada"), Bio: strPtr("hello")})

	assert.Equal(t, "Ada", profile.Name)
	assert.Equal(t, "hello", profile.Bio)
	assert.Equal(t, "UTC", profile.Timezone, "untouched fields keep their value")
	assert.Equal(t, joined, profile.JoinedDate)

	profile.Apply(&models.ProfileUpdate{Name: strPtr("")})
	assert.Equal(t, "", profile.Name, "empty string clears a field")
}

func TestProfileUpdate_IsEmpty(t *testing.T) {
	assert.True(t, (&models.ProfileUpdate{}).IsEmpty())
	assert.False(t, (&models.ProfileUpdate{Location: strPtr("Oslo")}).IsEmpty())
}

func TestProfileUpdateFromField(t *testing.T) {
	update, err := models.ProfileUpdateFromField("location", "Oslo")
	require.NoError(t, err)
	require.NotNil(t, update.Location)
	assert.Equal(t, "Oslo", *update.Location)
	assert.Nil(t, update.Name)

	_, err = models.ProfileUpdateFromField("age", "42")
	require.Error(t, err)
	assert.True(t, utils.IsValidationError(err))
}

func TestProfileUpdate_Validation(t *testing.T) {
	testCases := []struct {
		name    string
		update  models.ProfileUpdate
		wantErr bool
	}{
		{"valid email", models.ProfileUpdate{Email: strPtr("ada@example.com")}, false},
		{"cleared email", models.ProfileUpdate{Email: strPtr("")}, false},
		{"cleared avatar", models.ProfileUpdate{Avatar: strPtr("")}, false},
		{"cleared timezone", models.ProfileUpdate{Timezone: strPtr("")}, false},
		{"cleared joined date", models.ProfileUpdate{JoinedDate: strPtr("")}, false},
		{"name too long", models.ProfileUpdate{Name: strPtr(strings.Repeat("a", 201))}, true},
		{"invalid email", models.ProfileUpdate{Email: strPtr("not-an-email")}, true},
		{"invalid email reports field", models.ProfileUpdate{Name: strPtr("Ada"), Email: strPtr("@")}, true},
		{"valid avatar", models.ProfileUpdate{Avatar: strPtr("https://cdn.example.com/a.png")}, false},
		{"invalid avatar", models.ProfileUpdate{Avatar: strPtr("a b c")}, true},
		{"valid timezone", models.ProfileUpdate{Timezone: strPtr("Europe/Oslo")}, false},
		{"invalid timezone", models.ProfileUpdate{Timezone: strPtr("Mars/Olympus")}, true},
		{"valid joined date", models.ProfileUpdate{JoinedDate: strPtr("2024-01-01T00:00:00.000Z")}, false},
		{"invalid joined date", models.ProfileUpdate{JoinedDate: strPtr("yesterday")}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.update.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProfileUpdate_ValidateReportsField(t *testing.T) {
	update := models.ProfileUpdate{Avatar: strPtr("not a uri")}
	err := update.Validate()

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "avatar", appErr.Field)
	assert.Equal(t, "Must be a valid URI", appErr.Message)
}
