package search

import (
	"fmt"
	"math"
	"time"

	"github.com/geoexplorer/core/internal/models"
)

// AnalyticsReport summarizes monitoring results over a date window.
type AnalyticsReport struct {
	TotalSearches      int64            `json:"total_searches"`
	BusinessMentions   int64            `json:"business_mentions"`
	MentionRate        float64          `json:"mention_rate"`
	SentimentBreakdown []SentimentCount `json:"sentiment_breakdown"`
	TopSearchTerms     []TermCount      `json:"top_search_terms"`
	TopAIModels        []ModelCount     `json:"top_ai_models"`
	DateRange          string           `json:"date_range"`
}

type SentimentCount struct {
	Sentiment string `json:"sentiment"`
	Count     int64  `json:"count"`
}

type TermCount struct {
	Term  string `json:"term"`
	Count int64  `json:"count"`
}

type ModelCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// Analytics computes the report for one business over the last N days.
func (s *Service) Analytics(businessProfileID string, days int) (*AnalyticsReport, error) {
	since := time.Now().AddDate(0, 0, -days)

	report := &AnalyticsReport{
		SentimentBreakdown: []SentimentCount{},
		TopSearchTerms:     []TermCount{},
		TopAIModels:        []ModelCount{},
		DateRange:          fmt.Sprintf("Last %d days", days),
	}

	err := s.db.Model(&models.SearchLogModel{}).
		Where("business_profile_id = ? AND created_at >= ?", businessProfileID, since).
		Count(&report.TotalSearches).Error
	if err != nil {
		return nil, err
	}

	err = s.db.Model(&models.SearchLogModel{}).
		Joins("JOIN analyses ON analyses.search_log_id = search_logs.id").
		Where("search_logs.business_profile_id = ? AND search_logs.created_at >= ? AND analyses.business_mentioned = ?", businessProfileID, since, true).
		Count(&report.BusinessMentions).Error
	if err != nil {
		return nil, err
	}

	if report.TotalSearches > 0 {
		rate := float64(report.BusinessMentions) / float64(report.TotalSearches) * 100
		report.MentionRate = math.Round(rate*100) / 100
	}

	err = s.db.Model(&models.SearchLogModel{}).
		Select("analyses.sentiment AS sentiment, COUNT(*) AS count").
		Joins("JOIN analyses ON analyses.search_log_id = search_logs.id").
		Where("search_logs.business_profile_id = ? AND search_logs.created_at >= ? AND analyses.business_mentioned = ?", businessProfileID, since, true).
		Group("analyses.sentiment").
		Scan(&report.SentimentBreakdown).Error
	if err != nil {
		return nil, err
	}

	err = s.db.Model(&models.SearchLogModel{}).
		Select("search_terms.term AS term, COUNT(*) AS count").
		Joins("JOIN search_terms ON search_terms.id = search_logs.search_term_id").
		Where("search_logs.business_profile_id = ? AND search_logs.created_at >= ?", businessProfileID, since).
		Group("search_terms.term").
		Order("count DESC").
		Limit(10).
		Scan(&report.TopSearchTerms).Error
	if err != nil {
		return nil, err
	}

	err = s.db.Model(&models.SearchLogModel{}).
		Select("ai_models.name AS name, COUNT(*) AS count").
		Joins("JOIN ai_models ON ai_models.id = search_logs.ai_model_id").
		Where("search_logs.business_profile_id = ? AND search_logs.created_at >= ?", businessProfileID, since).
		Group("ai_models.name").
		Order("count DESC").
		Limit(5).
		Scan(&report.TopAIModels).Error
	if err != nil {
		return nil, err
	}

	return report, nil
}
