package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetIDVRequiredLevel returns the channel's IDV level, defaulting to 0 when
// no row exists.
func (s *Store) GetIDVRequiredLevel(ctx context.Context, channelID string) (int, error) {
	var policy ChannelPolicy
	err := s.db.WithContext(ctx).Where("channel_id = ?", channelID).First(&policy).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return policy.IDVRequiredLevel, nil
}

func (s *Store) SetIDVRequiredLevel(ctx context.Context, channelID string, level int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "channel_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"idv_required_level", "updated_at"}),
	}).Create(&ChannelPolicy{
		ChannelID:        channelID,
		IDVRequiredLevel: level,
		UpdatedAt:        time.Now().UTC(),
	}).Error
}
