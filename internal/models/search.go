package models

// Sentiment values an analysis may carry.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
	SentimentMixed    = "mixed"
)

// AnalysisModelFallback marks a judgment produced by the deterministic
// substring fallback instead of the classifier model.
const AnalysisModelFallback = "fallback"

// SearchTermModel is a monitored query owned by a business.
type SearchTermModel struct {
	Base
	BusinessProfileID string `json:"business_profile_id" gorm:"index;uniqueIndex:idx_term_per_business;not null"`
	Term              string `json:"term"                gorm:"uniqueIndex:idx_term_per_business;not null"`
	Description       string `json:"description"         gorm:"type:text"`
	IsActive          bool   `json:"is_active"           gorm:"default:true"`
}

func (SearchTermModel) TableName() string { return "search_terms" }

// AIModelModel is a configured monitored model. Shared reference data,
// not owned by any business.
type AIModelModel struct {
	Base
	Name                    string   `json:"name"     gorm:"uniqueIndex;not null"`
	Provider                string   `json:"provider"`
	Version                 string   `json:"version"`
	IsActive                bool     `json:"is_active" gorm:"index;default:true"`
	CostPerMillionInputUSD  *float64 `json:"cost_per_million_input_usd"  gorm:"type:decimal(10,4)"`
	CostPerMillionOutputUSD *float64 `json:"cost_per_million_output_usd" gorm:"type:decimal(10,4)"`
}

func (AIModelModel) TableName() string { return "ai_models" }

// SearchLogModel records one dispatch of a term to a model. Immutable once
// written. Cost columns are snapshots of the model's pricing at dispatch
// time, not live references.
type SearchLogModel struct {
	Base
	BusinessProfileID    string   `json:"-"                gorm:"index;not null"`
	SearchTermID         string   `json:"-"                gorm:"index;not null"`
	AIModelID            string   `json:"-"                gorm:"index;not null"`
	Query                string   `json:"query"            gorm:"type:text;not null"`
	Response             string   `json:"response"         gorm:"type:longtext"`
	ResponseTimeMs       int      `json:"response_time_ms"`
	TokensUsed           int      `json:"tokens_used"`
	CurrentCostInputUSD  *float64 `json:"current_cost_input_usd"  gorm:"type:decimal(10,4)"`
	CurrentCostOutputUSD *float64 `json:"current_cost_output_usd" gorm:"type:decimal(10,4)"`
	UserAgent            string   `json:"user_agent"       gorm:"type:text"`
	IPAddress            string   `json:"ip_address"`

	SearchTerm *SearchTermModel `json:"search_term,omitempty" gorm:"foreignKey:SearchTermID"`
	AIModel    *AIModelModel    `json:"ai_model,omitempty"    gorm:"foreignKey:AIModelID"`
	Analysis   *AnalysisModel   `json:"analysis"              gorm:"foreignKey:SearchLogID"`
}

func (SearchLogModel) TableName() string { return "search_logs" }

// AnalysisModel is the mention/sentiment judgment for one search log.
// Exactly one per log once analysis has run; a log without one is
// "analysis pending", not corruption.
type AnalysisModel struct {
	Base
	SearchLogID         string  `json:"-"                   gorm:"uniqueIndex;not null"`
	BusinessProfileID   string  `json:"-"                   gorm:"index;not null"`
	BusinessMentioned   bool    `json:"business_mentioned"`
	MentionContext      string  `json:"mention_context"     gorm:"type:text"`
	Sentiment           string  `json:"sentiment"           gorm:"index;default:'neutral'"`
	ConfidenceScore     float64 `json:"confidence_score"`
	AnalysisModelName   string  `json:"analysis_model"      gorm:"column:analysis_model;index"`
	AnalysisDurationMs  int     `json:"analysis_duration_ms"`
	RawAnalysisResponse string  `json:"raw_analysis_response" gorm:"type:longtext"`
}

func (AnalysisModel) TableName() string { return "analyses" }
