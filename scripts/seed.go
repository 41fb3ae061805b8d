// Package scripts provides utility scripts for state management.
//
// The seeder populates an empty medium with demo state so the API and UI have
// something to show during development. A seed runs only when its key holds
// nothing, which makes seeding safe to repeat.
package scripts

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/constants"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/models"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/repository"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/service"
)

// demoTools are the tools used by the favorites and history seeds
var demoTools = []models.ToolVisit{
	{ToolID: "json-formatter", ToolSlug: "json-formatter", ToolName: "JSON Formatter", ToolIcon: "braces", ToolCategory: "formatters"},
	{ToolID: "base64-encoder", ToolSlug: "base64", ToolName: "Base64 Encoder", ToolIcon: "binary", ToolCategory: "encoders"},
	{ToolID: "uuid-generator", ToolSlug: "uuid", ToolName: "UUID Generator", ToolIcon: "fingerprint", ToolCategory: "generators"},
	{ToolID: "regex-tester", ToolSlug: "regex", ToolName: "Regex Tester", ToolIcon: "search", ToolCategory: "testers"},
}

type seed struct {
	Name     string
	Key      string
	SeedFunc func(ctx context.Context) error
}

// Seeder writes demo state.
type Seeder struct {
	repo  repository.StateRepository
	state *service.UserStateService
}

// NewSeeder creates a new seeder.
//
// Parameters:
//   - repo: The medium checked for existing state
//   - state: The service the demo state is written through
//
// Returns:
//   - *Seeder: A configured seeder
func NewSeeder(repo repository.StateRepository, state *service.UserStateService) *Seeder {
	return &Seeder{
		repo:  repo,
		state: state,
	}
}

// SeedState runs every seed whose key is still empty.
//
// Parameters:
//   - ctx: Context for storage operations and cancellation
//
// Returns:
//   - The names of the seeds that ran
//   - error: Any error encountered during seeding, nil if successful
func (s *Seeder) SeedState(ctx context.Context) ([]string, error) {
	log.Info().Msg("Seeding user state")
	startTime := time.Now()

	seeds := []seed{
		{"demo_profile", constants.KeyUserProfile, s.seedProfile},
		{"demo_favorites", constants.KeyUserFavorites, s.seedFavorites},
		{"demo_history", constants.KeyUserHistory, s.seedHistory},
	}

	var executed []string
	for _, sd := range seeds {
		_, found, err := s.repo.Get(ctx, sd.Key)
		if err != nil {
			return executed, fmt.Errorf("failed to check %s: %w", sd.Key, err)
		}
		if found {
			log.Debug().Str("seed", sd.Name).Msg("State already present, seed skipped")
			continue
		}

		log.Info().Str("seed", sd.Name).Msg("Running seed")
		if err := sd.SeedFunc(ctx); err != nil {
			return executed, fmt.Errorf("seed %s failed: %w", sd.Name, err)
		}
		executed = append(executed, sd.Name)
	}

	log.Info().
		Int("seeds", len(executed)).
		Dur("duration", time.Since(startTime)).
		Msg("User state seeding completed")

	return executed, nil
}

func (s *Seeder) seedProfile(ctx context.Context) error {
	name := "Demo User"
	location := "Oslo, Norway"
	bio := "Exploring the toolkit."
	_, err := s.state.Profile().Update(ctx, models.ProfileUpdate{
		Name:     &name,
		Location: &location,
		Bio:      &bio,
	})
	return err
}

func (s *Seeder) seedFavorites(ctx context.Context) error {
	for _, tool := range demoTools[:2] {
		if err := s.state.Favorites().Add(ctx, tool.ToolID); err != nil {
			return err
		}
	}
	return nil
}

// seedHistory visits the demo tools in reverse so the first one ends up most recent
func (s *Seeder) seedHistory(ctx context.Context) error {
	for i := len(demoTools) - 1; i >= 0; i-- {
		if _, err := s.state.History().Append(ctx, demoTools[i]); err != nil {
			return err
		}
	}
	return nil
}
