// Package handlers provides HTTP request handlers for the toolkit API.
package handlers

import (
	"context"
	"time"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/models"
)

// ProfileService defines the profile operations used by the profile handlers.
type ProfileService interface {
	Get(ctx context.Context) models.Profile
	Update(ctx context.Context, update models.ProfileUpdate) (models.Profile, error)
	Set(ctx context.Context, key, value string) (models.Profile, error)
	Reset(ctx context.Context) (models.Profile, error)
}

// SettingsService defines the settings operations used by the settings handlers.
type SettingsService interface {
	Get(ctx context.Context) models.Settings
	Update(ctx context.Context, update models.SettingsUpdate) (models.Settings, error)
	Set(ctx context.Context, key string, value any) (models.Settings, error)
	Reset(ctx context.Context) (models.Settings, error)
}

// FavoritesService defines the favorites operations used by the favorites handlers.
type FavoritesService interface {
	List(ctx context.Context) []string
	Has(ctx context.Context, toolID string) bool
	Toggle(ctx context.Context, toolID string) (bool, error)
	Add(ctx context.Context, toolID string) error
	Remove(ctx context.Context, toolID string) error
	Clear(ctx context.Context) error
}

// HistoryService defines the history operations used by the history handlers.
type HistoryService interface {
	List(ctx context.Context) []models.HistoryEntry
	Append(ctx context.Context, visit models.ToolVisit) (models.HistoryEntry, error)
	Clear(ctx context.Context) error
	Recent(ctx context.Context, n int) []models.HistoryEntry
	Since(ctx context.Context, window time.Duration) []models.HistoryEntry
}

// TransferService defines the export and import operations over all entities.
type TransferService interface {
	ExportAll(ctx context.Context) ([]byte, error)
	ImportAll(ctx context.Context, blob []byte) error
}

// TokenService exchanges the access key for an API token.
type TokenService interface {
	IssueToken(ctx context.Context, accessKey string) (*models.TokenResponse, error)
}
