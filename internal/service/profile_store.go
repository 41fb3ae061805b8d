package service

import (
	"context"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/constants"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/models"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/utils"
)

// ProfileStore is the accessor for the profile entity
type ProfileStore struct {
	s *UserStateService
}

// Get returns the current profile, or the default profile when none is stored
func (p *ProfileStore) Get(ctx context.Context) models.Profile {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	return p.s.profileLocked(ctx)
}

// Update merges a partial change onto the current profile and persists the result.
//
// Parameters:
//   - ctx: Context for the operation
//   - update: The fields to change; nil fields are kept
//
// Returns:
//   - The merged profile
//   - A validation error for malformed fields, or a storage error if the
//     write failed; the cached profile is unchanged on error
func (p *ProfileStore) Update(ctx context.Context, update models.ProfileUpdate) (models.Profile, error) {
	if err := update.Validate(); err != nil {
		return models.Profile{}, err
	}

	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	next := p.s.profileLocked(ctx)
	next.Apply(&update)

	if err := p.s.persist(ctx, constants.KeyUserProfile, next); err != nil {
		return models.Profile{}, err
	}
	p.s.profile = &next

	utils.LogStateChange(constants.LogEventProfileUpdate, constants.KeyUserProfile, profileLogFields(&update))

	return next, nil
}

// Set changes a single profile field by its JSON name
func (p *ProfileStore) Set(ctx context.Context, key, value string) (models.Profile, error) {
	update, err := models.ProfileUpdateFromField(key, value)
	if err != nil {
		return models.Profile{}, err
	}
	return p.Update(ctx, update)
}

// Reset overwrites the profile with a fresh default profile
func (p *ProfileStore) Reset(ctx context.Context) (models.Profile, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	def := models.NewDefaultProfile(p.s.now())
	if err := p.s.persist(ctx, constants.KeyUserProfile, def); err != nil {
		return models.Profile{}, err
	}
	p.s.profile = &def

	utils.LogStateChange(constants.LogEventReset, constants.KeyUserProfile, nil)

	return def, nil
}

func (s *UserStateService) profileLocked(ctx context.Context) models.Profile {
	if s.profile != nil {
		return *s.profile
	}
	now := s.now()
	profile, cacheable := loadEntity(ctx, s.repo, constants.KeyUserProfile, func() models.Profile {
		return models.NewDefaultProfile(now)
	})
	if cacheable {
		s.profile = &profile
	}
	return profile
}

// profileLogFields lists the changed fields without logging personal data
func profileLogFields(update *models.ProfileUpdate) map[string]interface{} {
	var fields []string
	add := func(name string, v *string) {
		if v != nil {
			fields = append(fields, name)
		}
	}
	add(constants.FieldName, update.Name)
	add(constants.FieldEmail, update.Email)
	add(constants.FieldAvatar, update.Avatar)
	add(constants.FieldLocation, update.Location)
	add(constants.FieldTimezone, update.Timezone)
	add(constants.FieldBio, update.Bio)
	add(constants.FieldJoinedDate, update.JoinedDate)

	result := map[string]interface{}{"fields": fields}
	if update.Email != nil {
		result["email"] = utils.MaskEmail(*update.Email)
	}
	return result
}
