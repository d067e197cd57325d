package models

import "time"

// SettingAEDToKRWRate holds the single AED->KRW exchange rate.
const SettingAEDToKRWRate = "aed_to_krw_rate"

// Setting is a key/value pair of user configuration.
type Setting struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `gorm:"not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
