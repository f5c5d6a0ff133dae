package entry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mood-space/core/internal/insight"
	"github.com/mood-space/core/internal/models"
	"github.com/mood-space/core/internal/modules/content/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestSplitContent(t *testing.T) {
	tests := map[string]struct {
		content, title, body string
	}{
		"short first line": {"Sunday brunch\nPancakes with Mia", "Sunday brunch", "Pancakes with Mia"},
		"single line":      {"Just a quiet day", "", "Just a quiet day"},
		"long first line":  {"This first line is definitely too long\nrest", "", "This first line is definitely too long\nrest"},
		"multi-byte title": {"今天很开心\n和朋友吃饭", "今天很开心", "和朋友吃饭"},
		"blank first line": {"\n\nbody only", "", "body only"},
		"empty":            {"", "", ""},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			title, body := SplitContent(tt.content)
			assert.Equal(t, tt.title, title)
			assert.Equal(t, tt.body, body)
		})
	}
}

func TestSplitContent_TitleBoundary(t *testing.T) {
	nineteen := strings.Repeat("a", maxTitleRunes-1)
	title, _ := SplitContent(nineteen + "\nbody")
	assert.Equal(t, nineteen, title)

	twenty := strings.Repeat("a", maxTitleRunes)
	title, body := SplitContent(twenty + "\nbody")
	assert.Empty(t, title)
	assert.Equal(t, twenty+"\nbody", body)
}

func TestBuildEntry(t *testing.T) {
	row, err := buildEntry("acc-1", "prof-1", &CreateEntryDTO{
		Content: "  walked by the river ",
		Mood:    "Calm",
	})
	require.NoError(t, err)
	assert.Equal(t, "acc-1", row.AccountID)
	assert.Equal(t, "prof-1", row.ProfileID)
	assert.Equal(t, "walked by the river", row.Content)
	assert.Equal(t, "Calm", row.Mood)
	assert.Equal(t, insight.MealTypeLife, row.MealType)
}

func TestBuildEntry_FoodAndCustomMood(t *testing.T) {
	row, err := buildEntry("acc-1", "prof-1", &CreateEntryDTO{
		Food:       "Ramen",
		Content:    "rainy evening",
		MealType:   "Dinner",
		Mood:       "Joy",
		CustomMood: "Cozy",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ramen\nrainy evening", row.Content)
	assert.Equal(t, "Dinner", row.MealType)
	assert.Equal(t, "Cozy", row.Mood)
}

func TestBuildEntry_Rejects(t *testing.T) {
	_, err := buildEntry("acc-1", "prof-1", &CreateEntryDTO{Content: "   "})
	assert.ErrorIs(t, err, ErrEmptyEntry)

	_, err = buildEntry("acc-1", "prof-1", &CreateEntryDTO{Content: "x", CustomMood: strings.Repeat("m", maxMoodRunes+1)})
	assert.ErrorIs(t, err, ErrMoodTooLong)

	row, err := buildEntry("acc-1", "prof-1", &CreateEntryDTO{ImageURL: "https://img.example/cat.jpg"})
	require.NoError(t, err)
	assert.Empty(t, row.Content)
}

func TestToResponse(t *testing.T) {
	row := &models.EntryModel{
		Content:  "Lunch\n**great** noodles",
		MealType: "Lunch",
	}
	row.ID = "e1"
	row.CreatedAt = time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC)

	resp := toResponse(row, true)
	assert.Equal(t, "Lunch", resp.Title)
	assert.Equal(t, "**great** noodles", resp.Body)
	assert.Contains(t, resp.BodyHTML, "<strong>great</strong>")
	assert.Equal(t, insight.MoodOther, resp.Mood)
	assert.Equal(t, insight.NeutralScore, resp.MoodScore)
	assert.True(t, resp.IsFood)

	plain := toResponse(row, false)
	assert.Empty(t, plain.BodyHTML)
}

func TestRenderBody(t *testing.T) {
	assert.Empty(t, RenderBody("   "))

	html := RenderBody("line one\nline two")
	assert.Contains(t, html, "<br />")

	html = RenderBody("hi <script>alert(1)</script>")
	assert.NotContains(t, html, "<script>")
}

func TestToInsight(t *testing.T) {
	rows := []models.EntryModel{
		{Content: "a", Mood: "Joy", ProfileID: "p1", MealType: "Life"},
		{Content: "b", Mood: "", ProfileID: "p1", IsPublic: true},
	}
	rows[0].ID = "e1"
	rows[0].CreatedAt = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	rows[1].ID = "e2"

	out := ToInsight(rows)
	require.Len(t, out, 2)
	assert.Equal(t, "e1", out[0].ID)
	assert.Equal(t, rows[0].CreatedAt, out[0].CreatedAt)
	assert.Equal(t, "Joy", out[0].Mood)
	assert.True(t, out[1].CreatedAt.IsZero())
	assert.True(t, out[1].IsPublic)
}

func TestParseOrder(t *testing.T) {
	assert.Equal(t, OrderDesc, ParseOrder(" DESC "))
	assert.Equal(t, OrderAsc, ParseOrder("asc"))
	assert.Equal(t, OrderAsc, ParseOrder(""))
	assert.Equal(t, "created_at DESC, id DESC", OrderDesc.clause())
}

func TestWriteError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := map[error]int{
		ErrEntryNotFound:           http.StatusNotFound,
		profile.ErrProfileNotFound: http.StatusNotFound,
		ErrEmptyEntry:              http.StatusUnprocessableEntity,
		ErrMoodTooLong:             http.StatusUnprocessableEntity,
	}
	for err, status := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		writeError(c, err)
		assert.Equal(t, status, w.Code, err.Error())
	}
}

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "root:password@tcp(127.0.0.1:3306)/mood_space?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

func TestKeywordScope(t *testing.T) {
	db := dryRunDB(t)

	var rows []models.EntryModel
	stmt := db.Model(&models.EntryModel{}).
		Where("account_id = ? AND profile_id = ?", "acc-1", "me").
		Scopes(keywordScope("  Pizza ")).
		Find(&rows).Statement
	assert.Contains(t, stmt.SQL.String(), "LOWER(content) LIKE ? OR LOWER(meal_type) LIKE ?")
	assert.Equal(t, []interface{}{"acc-1", "me", "%pizza%", "%pizza%"}, stmt.Vars)

	stmt = db.Model(&models.EntryModel{}).Scopes(keywordScope(`50%_Off\`)).Find(&rows).Statement
	assert.Equal(t, []interface{}{`%50\%\_off\\%`, `%50\%\_off\\%`}, stmt.Vars)
}

func TestKeywordScope_BlankKeepsEverything(t *testing.T) {
	db := dryRunDB(t)

	var rows []models.EntryModel
	stmt := db.Model(&models.EntryModel{}).
		Where("account_id = ? AND profile_id = ?", "acc-1", "me").
		Scopes(keywordScope("   ")).
		Find(&rows).Statement
	assert.NotContains(t, stmt.SQL.String(), "LIKE")
	assert.Equal(t, []interface{}{"acc-1", "me"}, stmt.Vars)
}
