package search

import (
	"context"

	"go.uber.org/zap"

	"github.com/geoexplorer/core/internal/models"
)

// Sweep runs every active term of every onboarded business against every
// active model. A single failed combination is logged and skipped; the sweep
// keeps going.
func (s *Service) Sweep(ctx context.Context) error {
	var profiles []models.BusinessProfileModel
	if err := s.db.Where("onboarding_completed = ?", true).Find(&profiles).Error; err != nil {
		return err
	}

	var activeModels []models.AIModelModel
	if err := s.db.Where("is_active = ?", true).Find(&activeModels).Error; err != nil {
		return err
	}
	if len(activeModels) == 0 {
		return nil
	}

	for i := range profiles {
		profile := &profiles[i]

		var terms []models.SearchTermModel
		err := s.db.Where("business_profile_id = ? AND is_active = ?", profile.ID, true).Find(&terms).Error
		if err != nil {
			s.log.Error("sweep: load terms failed",
				zap.String("business_profile_id", profile.ID),
				zap.Error(err),
			)
			continue
		}

		for j := range terms {
			for k := range activeModels {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if _, err := s.run(ctx, profile, &terms[j], &activeModels[k], RequestMeta{}); err != nil {
					s.log.Warn("sweep: search failed",
						zap.String("business_profile_id", profile.ID),
						zap.String("term", terms[j].Term),
						zap.String("model", activeModels[k].Name),
						zap.Error(err),
					)
				}
			}
		}
	}
	return nil
}
