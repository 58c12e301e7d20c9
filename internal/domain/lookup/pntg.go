package lookup

import "time"

// PNTG is a Telegram notification target.
type PNTG struct {
	TgID      int64     `gorm:"column:tg_id;primaryKey;autoIncrement:false" json:"tg_id"`
	TgName    string    `gorm:"column:tg_name;type:varchar(255);not null" json:"tg_name"`
	BotToken  string    `gorm:"column:bot_token;type:varchar(255);not null" json:"bot_token"`
	ChatID    string    `gorm:"column:chat_id;type:varchar(255);not null" json:"chat_id"`
	URL       string    `gorm:"column:url;type:text;not null" json:"url"`
	StateCode string    `gorm:"column:state_code;type:text;not null" json:"state_code"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (PNTG) TableName() string { return "pntg" }

// DefaultPNTGStateCode is stored when a config is created without one.
const DefaultPNTGStateCode = "0"

type PNTGSummary struct {
	TgID   int64  `json:"tg_id"`
	TgName string `json:"tg_name"`
}

type PNTGPatch struct {
	TgName    *string `json:"tg_name"`
	BotToken  *string `json:"bot_token"`
	ChatID    *string `json:"chat_id"`
	URL       *string `json:"url"`
	StateCode *string `json:"state_code"`
}

type NewPNTG struct {
	TgName    string
	BotToken  string
	ChatID    string
	URL       string
	StateCode string
}
