package db

import (
	"context"
	"time"

	"gorm.io/gorm/clause"
)

func (s *Store) AddWhitelist(ctx context.Context, channelID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&ChannelWhitelist{
			ChannelID: channelID,
			UserID:    userID,
			CreatedAt: time.Now().UTC(),
		}).Error
}

func (s *Store) RemoveWhitelist(ctx context.Context, channelID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.WithContext(ctx).
		Where("channel_id = ? AND user_id = ?", channelID, userID).
		Delete(&ChannelWhitelist{}).Error
}

func (s *Store) ListWhitelisted(ctx context.Context, channelID string) ([]string, error) {
	var entries []ChannelWhitelist
	err := s.db.WithContext(ctx).
		Where("channel_id = ?", channelID).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	users := make([]string, 0, len(entries))
	for _, e := range entries {
		users = append(users, e.UserID)
	}
	return users, nil
}

func (s *Store) IsWhitelisted(ctx context.Context, channelID, userID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&ChannelWhitelist{}).
		Where("channel_id = ? AND user_id = ?", channelID, userID).
		Count(&count).Error
	return count > 0, err
}
