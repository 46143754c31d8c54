package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/geoexplorer/core/internal/models"
	"github.com/geoexplorer/core/internal/modules/classifier"
	"github.com/geoexplorer/core/internal/modules/gateway"
)

var (
	ErrProfileNotFound = errors.New("business profile not found")
	ErrTermNotFound    = errors.New("search term not found")
	ErrModelNotFound   = errors.New("ai model not found")
)

// ModelGateway dispatches a query to a monitored model.
type ModelGateway interface {
	Dispatch(ctx context.Context, model, query string) (*gateway.Result, error)
}

// Classifier judges a model response for business mentions.
type Classifier interface {
	Classify(ctx context.Context, prompt string) (string, error)
	Model() string
}

// RequestMeta carries client metadata recorded alongside a search.
type RequestMeta struct {
	UserAgent string
	IPAddress string
}

// RunInput identifies which term to run against which model.
type RunInput struct {
	SearchTermID string
	AIModelID    string
}

// Service runs the two-stage monitoring pipeline: dispatch the search term to
// a monitored model, then classify the response for mentions and sentiment.
type Service struct {
	db  *gorm.DB
	gw  ModelGateway
	cls Classifier
	log *zap.Logger
}

func NewService(db *gorm.DB, gw ModelGateway, cls Classifier, log *zap.Logger) *Service {
	return &Service{db: db, gw: gw, cls: cls, log: log}
}

// Run executes a single search for the given user. The search log and its
// analysis are persisted; a classifier failure degrades to the deterministic
// fallback rather than failing the run.
func (s *Service) Run(ctx context.Context, userID string, input RunInput, meta RequestMeta) (*models.SearchLogModel, error) {
	profile, err := s.profileForUser(userID)
	if err != nil {
		return nil, err
	}

	var term models.SearchTermModel
	err = s.db.Where("id = ? AND business_profile_id = ?", input.SearchTermID, profile.ID).First(&term).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTermNotFound
	}
	if err != nil {
		return nil, err
	}

	var model models.AIModelModel
	err = s.db.Where("id = ? AND is_active = ?", input.AIModelID, true).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrModelNotFound
	}
	if err != nil {
		return nil, err
	}

	return s.run(ctx, profile, &term, &model, meta)
}

// run is the shared pipeline core, also driven by the scheduled sweep.
func (s *Service) run(ctx context.Context, profile *models.BusinessProfileModel, term *models.SearchTermModel, model *models.AIModelModel, meta RequestMeta) (*models.SearchLogModel, error) {
	// The model receives the bare term; the prefixed string is only the
	// human-readable query recorded on the log.
	query := fmt.Sprintf("Search for information about: %s", term.Term)

	result, err := s.gw.Dispatch(ctx, model.Name, term.Term)
	if err != nil {
		// Nothing is persisted when the monitored model fails.
		return nil, err
	}

	entry := &models.SearchLogModel{
		BusinessProfileID: profile.ID,
		SearchTermID:      term.ID,
		AIModelID:         model.ID,
		Query:             query,
		Response:          result.Response,
		ResponseTimeMs:    result.DurationMs,
		TokensUsed:        result.TokensUsed,
		// Pricing snapshot at search time; historical rows keep the rate
		// that applied when they were written.
		CurrentCostInputUSD:  model.CostPerMillionInputUSD,
		CurrentCostOutputUSD: model.CostPerMillionOutputUSD,
		UserAgent:            meta.UserAgent,
		IPAddress:            meta.IPAddress,
	}
	if err := s.db.Create(entry).Error; err != nil {
		return nil, err
	}

	analysis := s.analyze(ctx, profile, entry, result.Response)
	if err := s.db.Create(analysis).Error; err != nil {
		s.log.Error("persist analysis failed",
			zap.String("search_log_id", entry.ID),
			zap.Error(err),
		)
	}

	var out models.SearchLogModel
	if err := s.db.Preload("SearchTerm").Preload("AIModel").Preload("Analysis").First(&out, "id = ?", entry.ID).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// analyze produces the Analysis row for a model response. It never returns an
// error; classifier failures degrade to the deterministic fallback.
func (s *Service) analyze(ctx context.Context, profile *models.BusinessProfileModel, entry *models.SearchLogModel, responseText string) *models.AnalysisModel {
	start := time.Now()

	prompt := classifier.BuildPrompt(responseText, profile.BusinessName)
	raw, err := s.cls.Classify(ctx, prompt)

	var judgment *classifier.Judgment
	analysisModel := s.cls.Model()

	switch {
	case err != nil:
		s.log.Warn("classifier call failed, using fallback",
			zap.String("search_log_id", entry.ID),
			zap.Error(err),
		)
		judgment = classifier.FallbackJudgment(responseText, profile.BusinessName)
		analysisModel = models.AnalysisModelFallback
		raw = fmt.Sprintf("Fallback analysis due to error: %v", err)
	default:
		judgment, err = classifier.ParseJudgment(raw)
		if err != nil {
			s.log.Warn("classifier output unparseable, using fallback",
				zap.String("search_log_id", entry.ID),
				zap.Error(err),
			)
			judgment = classifier.FallbackJudgment(responseText, profile.BusinessName)
			analysisModel = models.AnalysisModelFallback
		}
	}

	return &models.AnalysisModel{
		SearchLogID:         entry.ID,
		BusinessProfileID:   profile.ID,
		BusinessMentioned:   judgment.BusinessMentioned,
		MentionContext:      judgment.MentionContext,
		Sentiment:           judgment.Sentiment,
		ConfidenceScore:     judgment.ConfidenceScore,
		AnalysisModelName:   analysisModel,
		AnalysisDurationMs:  int(time.Since(start).Milliseconds()),
		RawAnalysisResponse: raw,
	}
}

func (s *Service) profileForUser(userID string) (*models.BusinessProfileModel, error) {
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
