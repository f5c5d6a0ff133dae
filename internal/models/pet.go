package models

import "time"

// PetStateModel tracks when the account's companion pet was last fed.
type PetStateModel struct {
	AccountID string     `json:"account_id"  gorm:"type:char(36);primaryKey"`
	LastFedAt *time.Time `json:"last_fed_at"`
	UpdatedAt time.Time  `json:"modified"`
}

func (PetStateModel) TableName() string { return "pet_states" }
