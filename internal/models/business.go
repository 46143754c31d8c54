package models

// BusinessProfileModel holds the onboarding questionnaire for a business.
// One per user; search terms, logs and analyses hang off it.
type BusinessProfileModel struct {
	Base
	UserID                 string `json:"-"                        gorm:"uniqueIndex;not null"`
	BusinessName           string `json:"business_name"            gorm:"not null"`
	Industry               string `json:"industry"`
	BusinessDescription    string `json:"business_description"     gorm:"type:text"`
	YearFounded            *int   `json:"year_founded"`
	BusinessSize           string `json:"business_size"`
	TargetMarket           string `json:"target_market"            gorm:"type:text"`
	TargetDemographics     string `json:"target_demographics"      gorm:"type:text"`
	GeographicMarkets      string `json:"geographic_markets"       gorm:"type:text"`
	ProductsServices       string `json:"products_services"        gorm:"type:text"`
	UniqueValueProposition string `json:"unique_value_proposition" gorm:"type:text"`
	PricingStrategy        string `json:"pricing_strategy"`
	MainCompetitors        string `json:"main_competitors"         gorm:"type:text"`
	CompetitiveAdvantages  string `json:"competitive_advantages"   gorm:"type:text"`
	BusinessGoals          string `json:"business_goals"           gorm:"type:text"`
	CurrentChallenges      string `json:"current_challenges"       gorm:"type:text"`
	CurrentMarketing       string `json:"current_marketing"        gorm:"type:text"`
	BrandValues            string `json:"brand_values"             gorm:"type:text"`
	WebsiteURL             string `json:"website_url"`
	OnboardingCompleted    bool   `json:"onboarding_completed"`
}

func (BusinessProfileModel) TableName() string { return "business_profiles" }
