package entry

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mood-space/core/internal/insight"
	"github.com/mood-space/core/internal/models"
)

const (
	// maxTitleRunes bounds the first line that is still shown as a title.
	maxTitleRunes = 20
	maxMoodRunes  = 32
)

type CreateEntryDTO struct {
	ProfileID  string `json:"profile_id"`
	Content    string `json:"content"`
	Food       string `json:"food"`
	Mood       string `json:"mood"`
	CustomMood string `json:"custom_mood"`
	MealType   string `json:"meal_type"`
	ImageURL   string `json:"image_url"`
	IsPublic   bool   `json:"is_public"`
}

type entryResponse struct {
	ID        string    `json:"id"`
	ProfileID string    `json:"profile_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	BodyHTML  string    `json:"body_html,omitempty"`
	Content   string    `json:"content"`
	Mood      string    `json:"mood"`
	MoodScore int       `json:"mood_score"`
	MealType  string    `json:"meal_type"`
	IsFood    bool      `json:"is_food"`
	ImageURL  string    `json:"image_url,omitempty"`
	IsPublic  bool      `json:"is_public"`
	Created   time.Time `json:"created"`
}

func toResponse(e *models.EntryModel, renderHTML bool) entryResponse {
	title, body := SplitContent(e.Content)
	resp := entryResponse{
		ID:        e.ID,
		ProfileID: e.ProfileID,
		Title:     title,
		Body:      body,
		Content:   e.Content,
		Mood:      insight.Normalize(e.Mood),
		MoodScore: insight.ScoreOf(e.Mood),
		MealType:  e.MealType,
		IsFood:    e.MealType != "" && e.MealType != insight.MealTypeLife,
		ImageURL:  e.ImageURL,
		IsPublic:  e.IsPublic,
		Created:   e.CreatedAt,
	}
	if renderHTML {
		resp.BodyHTML = RenderBody(body)
	}
	return resp
}

// SplitContent uses the first line as a title when it is short enough to read
// as one; otherwise the whole content is body.
func SplitContent(content string) (title, body string) {
	text := strings.TrimSpace(content)
	first, rest, found := strings.Cut(text, "\n")
	first = strings.TrimSpace(first)
	if !found || first == "" || utf8.RuneCountInString(first) >= maxTitleRunes {
		return "", text
	}
	return first, strings.TrimSpace(rest)
}

// buildEntry turns a create request into a row. The custom mood wins over the
// picked one, and a food line is prepended to the content.
func buildEntry(accountID, profileID string, dto *CreateEntryDTO) (*models.EntryModel, error) {
	content := strings.TrimSpace(dto.Content)
	food := strings.TrimSpace(dto.Food)
	mealType := strings.TrimSpace(dto.MealType)

	if food != "" {
		content = strings.TrimSpace(food + "\n" + content)
	}
	if mealType == "" {
		mealType = insight.MealTypeLife
	}

	if content == "" && strings.TrimSpace(dto.ImageURL) == "" {
		return nil, ErrEmptyEntry
	}

	mood := strings.TrimSpace(dto.Mood)
	if custom := strings.TrimSpace(dto.CustomMood); custom != "" {
		mood = custom
	}
	if utf8.RuneCountInString(mood) > maxMoodRunes {
		return nil, ErrMoodTooLong
	}

	return &models.EntryModel{
		AccountID: accountID,
		ProfileID: profileID,
		Content:   content,
		Mood:      mood,
		MealType:  mealType,
		ImageURL:  strings.TrimSpace(dto.ImageURL),
		IsPublic:  dto.IsPublic,
	}, nil
}

// ToInsight converts stored rows into the read-only view used by the insight engine.
func ToInsight(rows []models.EntryModel) []insight.Entry {
	out := make([]insight.Entry, len(rows))
	for i := range rows {
		r := &rows[i]
		out[i] = insight.Entry{
			ID:        r.ID,
			CreatedAt: r.CreatedAt,
			Mood:      r.Mood,
			Content:   r.Content,
			MealType:  r.MealType,
			ImageURL:  r.ImageURL,
			IsPublic:  r.IsPublic,
			ProfileID: r.ProfileID,
		}
	}
	return out
}
