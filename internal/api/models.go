package api

import (
	"time"

	"github.com/hanbit-app/srs-api/internal/domain"
	"github.com/hanbit-app/srs-api/internal/service"
	"github.com/hanbit-app/srs-api/internal/service/streak"
)

// CardResponse represents the response data for a card
type CardResponse struct {
	ID               string     `json:"id"`
	VocabID          string     `json:"vocab_id"`
	FolderID         string     `json:"folder_id"`
	CurveType        string     `json:"learning_curve_type"`
	Stage            int        `json:"stage"`
	EaseFactor       float64    `json:"ease_factor"`
	IntervalSeconds  int64      `json:"interval_seconds"`
	NextDueAt        *time.Time `json:"next_due_at,omitempty"`
	CorrectCount     int        `json:"correct_count"`
	IncorrectCount   int        `json:"incorrect_count"`
	TotalStudyTimeMs int64      `json:"total_study_time_ms"`
	IsMastered       bool       `json:"is_mastered"`
}

// VocabResponse represents the response data for a vocabulary item
type VocabResponse struct {
	ID          string  `json:"id"`
	Lemma       string  `json:"lemma"`
	Pos         string  `json:"pos,omitempty"`
	LevelCEFR   string  `json:"level_cefr,omitempty"`
	Translation *string `json:"translation,omitempty"`
	Example     *string `json:"example,omitempty"`
}

// DueReviewResponse pairs a due card with its vocabulary item
type DueReviewResponse struct {
	Card  CardResponse   `json:"card"`
	Vocab *VocabResponse `json:"vocab,omitempty"`
}

// ReviewOutcomeResponse represents the result of submitting a review
type ReviewOutcomeResponse struct {
	Card            CardResponse   `json:"card"`
	Streak          StreakResponse `json:"streak"`
	StreakExtended  bool           `json:"streak_extended"`
	TierUnlocked    bool           `json:"tier_unlocked"`
	CardMastered    bool           `json:"card_mastered"`
	FolderCompleted bool           `json:"folder_completed"`
}

// FolderResponse represents the response data for a folder
type FolderResponse struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	ParentID        *string    `json:"parent_id,omitempty"`
	CurveType       string     `json:"learning_curve_type"`
	Kind            string     `json:"kind"`
	Stage           int        `json:"stage"`
	AlarmActive     bool       `json:"alarm_active"`
	IsCompleted     bool       `json:"is_completed"`
	IsMastered      bool       `json:"is_mastered"`
	CompletionCount int        `json:"completion_count"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// FolderSummaryResponse is one dashboard row
type FolderSummaryResponse struct {
	Folder         FolderResponse `json:"folder"`
	TotalCards     int            `json:"total_cards"`
	MasteredCards  int            `json:"mastered_cards"`
	RemainingCards int            `json:"remaining_cards"`
	ChildrenCount  int            `json:"children_count"`
	IsDue          bool           `json:"is_due"`
}

// StreakResponse represents the response data for streak state
type StreakResponse struct {
	CurrentStreak  int                `json:"current_streak"`
	RequiredDaily  int                `json:"required_daily"`
	DailyQuizCount int                `json:"daily_quiz_count"`
	QuotaMet       bool               `json:"quota_met"`
	LastQuizDate   string             `json:"last_quiz_date,omitempty"`
	BonusTier      *BonusTierResponse `json:"bonus_tier,omitempty"`
}

// BonusTierResponse is the badge a streak has earned
type BonusTierResponse struct {
	Threshold int    `json:"threshold"`
	Badge     string `json:"badge"`
}

// cardToResponse converts a domain.Card to a CardResponse
func cardToResponse(card *domain.Card) CardResponse {
	return CardResponse{
		ID:               card.ID.String(),
		VocabID:          card.VocabID.String(),
		FolderID:         card.FolderID.String(),
		CurveType:        string(card.CurveType),
		Stage:            card.Stage,
		EaseFactor:       card.EaseFactor,
		IntervalSeconds:  card.IntervalSeconds,
		NextDueAt:        card.NextDueAt,
		CorrectCount:     card.CorrectCount,
		IncorrectCount:   card.IncorrectCount,
		TotalStudyTimeMs: card.TotalStudyTimeMs,
		IsMastered:       card.IsMastered,
	}
}

// vocabToResponse converts a domain.VocabItem to a VocabResponse
func vocabToResponse(item *domain.VocabItem) *VocabResponse {
	if item == nil {
		return nil
	}
	return &VocabResponse{
		ID:          item.ID.String(),
		Lemma:       item.Lemma,
		Pos:         item.Pos,
		LevelCEFR:   item.LevelCEFR,
		Translation: item.Translation,
		Example:     item.Example,
	}
}

// folderToResponse converts a domain.Folder to a FolderResponse
func folderToResponse(folder *domain.Folder) FolderResponse {
	resp := FolderResponse{
		ID:              folder.ID.String(),
		Name:            folder.Name,
		CurveType:       string(folder.CurveType),
		Kind:            string(folder.Kind),
		Stage:           folder.Stage,
		AlarmActive:     folder.AlarmActive,
		IsCompleted:     folder.IsCompleted,
		IsMastered:      folder.IsMastered,
		CompletionCount: folder.CompletionCount,
		CompletedAt:     folder.CompletedAt,
		CreatedAt:       folder.CreatedAt,
	}
	if folder.ParentID != nil {
		parent := folder.ParentID.String()
		resp.ParentID = &parent
	}
	return resp
}

// streakToResponse converts a domain.StreakState and its earned bonus
// tier to a StreakResponse
func streakToResponse(state *domain.StreakState, tier *streak.BonusTier) StreakResponse {
	resp := StreakResponse{
		CurrentStreak:  state.CurrentStreak,
		RequiredDaily:  state.RequiredDaily,
		DailyQuizCount: state.DailyQuizCount,
		QuotaMet:       state.QuotaMet(),
		LastQuizDate:   state.LastQuizDate,
	}
	if tier != nil {
		resp.BonusTier = &BonusTierResponse{Threshold: tier.Threshold, Badge: tier.Badge}
	}
	return resp
}

// summaryToResponse converts a service.FolderSummary to a FolderSummaryResponse
func summaryToResponse(summary service.FolderSummary) FolderSummaryResponse {
	return FolderSummaryResponse{
		Folder:         folderToResponse(summary.Folder),
		TotalCards:     summary.TotalCards,
		MasteredCards:  summary.MasteredCards,
		RemainingCards: summary.RemainingCards,
		ChildrenCount:  summary.ChildrenCount,
		IsDue:          summary.IsDue,
	}
}
