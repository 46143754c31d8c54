package business

import (
	"errors"

	"gorm.io/gorm"

	"github.com/geoexplorer/core/internal/models"
)

var (
	ErrProfileNotFound = errors.New("business profile not found")
	ErrNameRequired    = errors.New("business_name is required")
)

// ProfileDTO carries a full or partial profile update. Nil fields are left
// untouched on update.
type ProfileDTO struct {
	BusinessName           *string `json:"business_name"`
	Industry               *string `json:"industry"`
	BusinessDescription    *string `json:"business_description"`
	YearFounded            *int    `json:"year_founded"`
	BusinessSize           *string `json:"business_size"`
	TargetMarket           *string `json:"target_market"`
	TargetDemographics     *string `json:"target_demographics"`
	GeographicMarkets      *string `json:"geographic_markets"`
	ProductsServices       *string `json:"products_services"`
	UniqueValueProposition *string `json:"unique_value_proposition"`
	PricingStrategy        *string `json:"pricing_strategy"`
	MainCompetitors        *string `json:"main_competitors"`
	CompetitiveAdvantages  *string `json:"competitive_advantages"`
	BusinessGoals          *string `json:"business_goals"`
	CurrentChallenges      *string `json:"current_challenges"`
	CurrentMarketing       *string `json:"current_marketing"`
	BrandValues            *string `json:"brand_values"`
	WebsiteURL             *string `json:"website_url"`
	OnboardingCompleted    *bool   `json:"onboarding_completed"`
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) Get(userID string) (*models.BusinessProfileModel, error) {
	var profile models.BusinessProfileModel
	err := s.db.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Upsert creates the user's profile on first submit and applies a partial
// update afterwards.
func (s *Service) Upsert(userID string, dto *ProfileDTO) (*models.BusinessProfileModel, error) {
	profile, err := s.Get(userID)
	if errors.Is(err, ErrProfileNotFound) {
		profile = &models.BusinessProfileModel{UserID: userID}
		applyProfileDTO(profile, dto)
		if profile.BusinessName == "" {
			return nil, ErrNameRequired
		}
		return profile, s.db.Create(profile).Error
	}
	if err != nil {
		return nil, err
	}

	applyProfileDTO(profile, dto)
	if profile.BusinessName == "" {
		return nil, ErrNameRequired
	}
	return profile, s.db.Save(profile).Error
}

func applyProfileDTO(p *models.BusinessProfileModel, dto *ProfileDTO) {
	if dto.BusinessName != nil {
		p.BusinessName = *dto.BusinessName
	}
	if dto.Industry != nil {
		p.Industry = *dto.Industry
	}
	if dto.BusinessDescription != nil {
		p.BusinessDescription = *dto.BusinessDescription
	}
	if dto.YearFounded != nil {
		p.YearFounded = dto.YearFounded
	}
	if dto.BusinessSize != nil {
		p.BusinessSize = *dto.BusinessSize
	}
	if dto.TargetMarket != nil {
		p.TargetMarket = *dto.TargetMarket
	}
	if dto.TargetDemographics != nil {
		p.TargetDemographics = *dto.TargetDemographics
	}
	if dto.GeographicMarkets != nil {
		p.GeographicMarkets = *dto.GeographicMarkets
	}
	if dto.ProductsServices != nil {
		p.ProductsServices = *dto.ProductsServices
	}
	if dto.UniqueValueProposition != nil {
		p.UniqueValueProposition = *dto.UniqueValueProposition
	}
	if dto.PricingStrategy != nil {
		p.PricingStrategy = *dto.PricingStrategy
	}
	if dto.MainCompetitors != nil {
		p.MainCompetitors = *dto.MainCompetitors
	}
	if dto.CompetitiveAdvantages != nil {
		p.CompetitiveAdvantages = *dto.CompetitiveAdvantages
	}
	if dto.BusinessGoals != nil {
		p.BusinessGoals = *dto.BusinessGoals
	}
	if dto.CurrentChallenges != nil {
		p.CurrentChallenges = *dto.CurrentChallenges
	}
	if dto.CurrentMarketing != nil {
		p.CurrentMarketing = *dto.CurrentMarketing
	}
	if dto.BrandValues != nil {
		p.BrandValues = *dto.BrandValues
	}
	if dto.WebsiteURL != nil {
		p.WebsiteURL = *dto.WebsiteURL
	}
	if dto.OnboardingCompleted != nil {
		p.OnboardingCompleted = *dto.OnboardingCompleted
	}
}
