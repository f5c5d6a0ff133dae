package models

const (
	ProfileTypeHuman = "human"
	ProfileTypePet   = "pet"
)

// SubProfileModel is a person or pet whose entries an account keeps.
type SubProfileModel struct {
	Base
	AccountID   string `json:"account_id"   gorm:"type:char(36);uniqueIndex:uniq_profiles_account_name,priority:1;not null"`
	Name        string `json:"name"         gorm:"size:64;uniqueIndex:uniq_profiles_account_name,priority:2;not null"`
	Type        string `json:"type"         gorm:"size:16;default:human;not null"`
	AvatarEmoji string `json:"avatar_emoji" gorm:"size:32"`
}

func (SubProfileModel) TableName() string { return "sub_profiles" }

// IsHuman reports whether the profile belongs to a person.
func (p SubProfileModel) IsHuman() bool { return p.Type == ProfileTypeHuman }
