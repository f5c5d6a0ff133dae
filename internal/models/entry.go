package models

// EntryModel is one journal entry written under a sub-profile.
type EntryModel struct {
	Base
	AccountID string `json:"account_id" gorm:"type:char(36);index:idx_entries_owner,priority:1;not null"`
	ProfileID string `json:"profile_id" gorm:"type:char(36);index:idx_entries_owner,priority:2;not null"`
	Content   string `json:"content"    gorm:"type:longtext"`
	Mood      string `json:"mood"       gorm:"size:64"`
	MealType  string `json:"meal_type"  gorm:"size:64;default:Life"`
	ImageURL  string `json:"image_url"  gorm:"size:512"`
	IsPublic  bool   `json:"is_public"  gorm:"default:false;index"`
}

func (EntryModel) TableName() string { return "entries" }
