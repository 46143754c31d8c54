package search

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/geoexplorer/core/internal/models"
	"github.com/geoexplorer/core/internal/modules/gateway"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:search_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.UserModel{},
		&models.BusinessProfileModel{},
		&models.SearchTermModel{},
		&models.AIModelModel{},
		&models.SearchLogModel{},
		&models.AnalysisModel{},
	))
	return db
}

type fakeGateway struct {
	result *gateway.Result
	err    error

	gotModel string
	gotQuery string
}

func (f *fakeGateway) Dispatch(ctx context.Context, model, query string) (*gateway.Result, error) {
	f.gotModel = model
	f.gotQuery = query
	if f.err != nil {
		return nil, &gateway.UpstreamError{Model: model, Err: f.err}
	}
	return f.result, nil
}

type fakeClassifier struct {
	output string
	err    error

	gotPrompt string
}

func (f *fakeClassifier) Classify(ctx context.Context, prompt string) (string, error) {
	f.gotPrompt = prompt
	return f.output, f.err
}

func (f *fakeClassifier) Model() string { return "google/gemma-2-9b-it" }

func seedFixtures(t *testing.T, db *gorm.DB) (*models.UserModel, *models.BusinessProfileModel, *models.SearchTermModel, *models.AIModelModel) {
	t.Helper()

	user := &models.UserModel{Email: "owner@rivermate.com", Username: "owner", Password: "x"}
	require.NoError(t, db.Create(user).Error)

	profile := &models.BusinessProfileModel{
		UserID:              user.ID,
		BusinessName:        "Rivermate",
		BusinessDescription: "We enable businesses to hire anywhere",
		OnboardingCompleted: true,
	}
	require.NoError(t, db.Create(profile).Error)

	term := &models.SearchTermModel{
		BusinessProfileID: profile.ID,
		Term:              "best EOR providers",
		IsActive:          true,
	}
	require.NoError(t, db.Create(term).Error)

	inputCost := 2.5
	outputCost := 10.0
	model := &models.AIModelModel{
		Name:                    "gpt-4o",
		Provider:                "openai",
		IsActive:                true,
		CostPerMillionInputUSD:  &inputCost,
		CostPerMillionOutputUSD: &outputCost,
	}
	require.NoError(t, db.Create(model).Error)

	return user, profile, term, model
}

func TestRunPersistsLogAndAnalysis(t *testing.T) {
	db := newTestDB(t)
	user, _, term, model := seedFixtures(t, db)

	gw := &fakeGateway{result: &gateway.Result{
		Response:   "Rivermate is a top EOR provider for global teams.",
		TokensUsed: 42,
		DurationMs: 120,
	}}
	cls := &fakeClassifier{output: `{"business_mentioned": true, "mention_context": "Rivermate is a top EOR provider", "sentiment": "positive", "confidence_score": 0.9, "reasoning": "direct mention"}`}

	svc := NewService(db, gw, cls, zap.NewNop())

	entry, err := svc.Run(context.Background(), user.ID, RunInput{SearchTermID: term.ID, AIModelID: model.ID}, RequestMeta{
		UserAgent: "Mozilla/5.0",
		IPAddress: "203.0.113.7",
	})
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", gw.gotModel)
	// The monitored model gets the term verbatim; only the stored log
	// carries the prefixed query string.
	assert.Equal(t, "best EOR providers", gw.gotQuery)
	assert.Contains(t, cls.gotPrompt, "Rivermate")

	assert.Equal(t, "Search for information about: best EOR providers", entry.Query)
	assert.Equal(t, "Rivermate is a top EOR provider for global teams.", entry.Response)
	assert.Equal(t, 42, entry.TokensUsed)
	assert.Equal(t, 120, entry.ResponseTimeMs)
	assert.Equal(t, "Mozilla/5.0", entry.UserAgent)
	assert.Equal(t, "203.0.113.7", entry.IPAddress)

	require.NotNil(t, entry.CurrentCostInputUSD)
	assert.InDelta(t, 2.5, *entry.CurrentCostInputUSD, 1e-9)
	require.NotNil(t, entry.CurrentCostOutputUSD)
	assert.InDelta(t, 10.0, *entry.CurrentCostOutputUSD, 1e-9)

	require.NotNil(t, entry.Analysis)
	assert.True(t, entry.Analysis.BusinessMentioned)
	assert.Equal(t, models.SentimentPositive, entry.Analysis.Sentiment)
	assert.InDelta(t, 0.9, entry.Analysis.ConfidenceScore, 1e-9)
	assert.Equal(t, "google/gemma-2-9b-it", entry.Analysis.AnalysisModelName)

	require.NotNil(t, entry.SearchTerm)
	assert.Equal(t, "best EOR providers", entry.SearchTerm.Term)
	require.NotNil(t, entry.AIModel)
	assert.Equal(t, "gpt-4o", entry.AIModel.Name)

	var logCount, analysisCount int64
	require.NoError(t, db.Model(&models.SearchLogModel{}).Count(&logCount).Error)
	require.NoError(t, db.Model(&models.AnalysisModel{}).Count(&analysisCount).Error)
	assert.EqualValues(t, 1, logCount)
	assert.EqualValues(t, 1, analysisCount)
}

func TestRunClassifierFailureDegradesToFallback(t *testing.T) {
	db := newTestDB(t)
	user, _, term, model := seedFixtures(t, db)

	gw := &fakeGateway{result: &gateway.Result{Response: "Consider Rivermate for payroll.", TokensUsed: 10}}
	cls := &fakeClassifier{err: errors.New("openrouter timeout")}

	svc := NewService(db, gw, cls, zap.NewNop())

	entry, err := svc.Run(context.Background(), user.ID, RunInput{SearchTermID: term.ID, AIModelID: model.ID}, RequestMeta{})
	require.NoError(t, err)

	require.NotNil(t, entry.Analysis)
	assert.Equal(t, models.AnalysisModelFallback, entry.Analysis.AnalysisModelName)
	assert.True(t, entry.Analysis.BusinessMentioned)
	assert.Equal(t, models.SentimentNeutral, entry.Analysis.Sentiment)
	assert.InDelta(t, 0.5, entry.Analysis.ConfidenceScore, 1e-9)
	assert.Contains(t, entry.Analysis.RawAnalysisResponse, "openrouter timeout")
}

func TestRunUnparseableClassifierOutputDegradesToFallback(t *testing.T) {
	db := newTestDB(t)
	user, _, term, model := seedFixtures(t, db)

	gw := &fakeGateway{result: &gateway.Result{Response: "Deel and Remote lead the market.", TokensUsed: 10}}
	cls := &fakeClassifier{output: "I cannot produce JSON today."}

	svc := NewService(db, gw, cls, zap.NewNop())

	entry, err := svc.Run(context.Background(), user.ID, RunInput{SearchTermID: term.ID, AIModelID: model.ID}, RequestMeta{})
	require.NoError(t, err)

	require.NotNil(t, entry.Analysis)
	assert.Equal(t, models.AnalysisModelFallback, entry.Analysis.AnalysisModelName)
	assert.False(t, entry.Analysis.BusinessMentioned)
	// The classifier's raw output is preserved for debugging.
	assert.Equal(t, "I cannot produce JSON today.", entry.Analysis.RawAnalysisResponse)
}

func TestRunUpstreamFailurePersistsNothing(t *testing.T) {
	db := newTestDB(t)
	user, _, term, model := seedFixtures(t, db)

	gw := &fakeGateway{err: errors.New("model unavailable")}
	svc := NewService(db, gw, &fakeClassifier{}, zap.NewNop())

	_, err := svc.Run(context.Background(), user.ID, RunInput{SearchTermID: term.ID, AIModelID: model.ID}, RequestMeta{})
	require.Error(t, err)

	var upstream *gateway.UpstreamError
	assert.ErrorAs(t, err, &upstream)

	var logCount int64
	require.NoError(t, db.Model(&models.SearchLogModel{}).Count(&logCount).Error)
	assert.EqualValues(t, 0, logCount)
}

func TestRunPreconditions(t *testing.T) {
	db := newTestDB(t)
	user, _, term, model := seedFixtures(t, db)

	svc := NewService(db, &fakeGateway{}, &fakeClassifier{}, zap.NewNop())

	t.Run("no profile", func(t *testing.T) {
		_, err := svc.Run(context.Background(), "missing-user", RunInput{SearchTermID: term.ID, AIModelID: model.ID}, RequestMeta{})
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})

	t.Run("unknown term", func(t *testing.T) {
		_, err := svc.Run(context.Background(), user.ID, RunInput{SearchTermID: "nope", AIModelID: model.ID}, RequestMeta{})
		assert.ErrorIs(t, err, ErrTermNotFound)
	})

	t.Run("foreign term", func(t *testing.T) {
		other := &models.UserModel{Email: "other@example.com", Username: "other", Password: "x"}
		require.NoError(t, db.Create(other).Error)
		otherProfile := &models.BusinessProfileModel{UserID: other.ID, BusinessName: "Acme"}
		require.NoError(t, db.Create(otherProfile).Error)
		foreignTerm := &models.SearchTermModel{BusinessProfileID: otherProfile.ID, Term: "acme reviews", IsActive: true}
		require.NoError(t, db.Create(foreignTerm).Error)

		_, err := svc.Run(context.Background(), user.ID, RunInput{SearchTermID: foreignTerm.ID, AIModelID: model.ID}, RequestMeta{})
		assert.ErrorIs(t, err, ErrTermNotFound)
	})

	t.Run("inactive model", func(t *testing.T) {
		inactive := &models.AIModelModel{Name: "gpt-3.5-turbo", IsActive: false}
		require.NoError(t, db.Create(inactive).Error)

		_, err := svc.Run(context.Background(), user.ID, RunInput{SearchTermID: term.ID, AIModelID: inactive.ID}, RequestMeta{})
		assert.ErrorIs(t, err, ErrModelNotFound)
	})
}

func TestSweepRunsAllCombinations(t *testing.T) {
	db := newTestDB(t)
	_, profile, _, _ := seedFixtures(t, db)

	// A second active term for the same business.
	second := &models.SearchTermModel{BusinessProfileID: profile.ID, Term: "global payroll tools", IsActive: true}
	require.NoError(t, db.Create(second).Error)
	// Inactive terms are skipped.
	inactive := &models.SearchTermModel{BusinessProfileID: profile.ID, Term: "dormant", IsActive: false}
	require.NoError(t, db.Create(inactive).Error)

	gw := &fakeGateway{result: &gateway.Result{Response: "nothing relevant", TokensUsed: 1}}
	cls := &fakeClassifier{output: `{"business_mentioned": false}`}
	svc := NewService(db, gw, cls, zap.NewNop())

	require.NoError(t, svc.Sweep(context.Background()))

	var logCount int64
	require.NoError(t, db.Model(&models.SearchLogModel{}).Count(&logCount).Error)
	assert.EqualValues(t, 2, logCount)
}
