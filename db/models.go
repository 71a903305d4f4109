package db

import "time"

type ChannelBlam struct {
	ID        uint   `gorm:"primaryKey"`
	ChannelID string `gorm:"uniqueIndex:idx_blam_channel_user;not null"`
	UserID    string `gorm:"uniqueIndex:idx_blam_channel_user;not null"`
	BlammedBy string
	CreatedAt time.Time
}

type ChannelWhitelist struct {
	ID        uint   `gorm:"primaryKey"`
	ChannelID string `gorm:"uniqueIndex:idx_whitelist_channel_user;not null"`
	UserID    string `gorm:"uniqueIndex:idx_whitelist_channel_user;not null"`
	CreatedAt time.Time
}

// ChannelPolicy carries the per-channel IDV requirement. Levels: 0 none,
// 1 any verified, 2 verified under-18 category only.
type ChannelPolicy struct {
	ID               uint   `gorm:"primaryKey"`
	ChannelID        string `gorm:"uniqueIndex;not null"`
	IDVRequiredLevel int    `gorm:"column:idv_required_level;not null;default:0"`
	UpdatedAt        time.Time
}

// ChannelManager remembers the most recent actor who blammed someone in the
// channel. Last write wins.
type ChannelManager struct {
	ID            uint   `gorm:"primaryKey"`
	ChannelID     string `gorm:"uniqueIndex;not null"`
	ManagerUserID string `gorm:"not null"`
	UpdatedAt     time.Time
}
