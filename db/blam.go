package db

import (
	"context"
	"time"

	"gorm.io/gorm/clause"
)

// AddBlam records a blam for the user in the channel. Adding an existing
// entry is a no-op success.
func (s *Store) AddBlam(ctx context.Context, channelID, userID, blammedBy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&ChannelBlam{
			ChannelID: channelID,
			UserID:    userID,
			BlammedBy: blammedBy,
			CreatedAt: time.Now().UTC(),
		}).Error
}

// RemoveBlam deletes the blam entry if present. Removing an absent entry is
// a no-op success.
func (s *Store) RemoveBlam(ctx context.Context, channelID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.WithContext(ctx).
		Where("channel_id = ? AND user_id = ?", channelID, userID).
		Delete(&ChannelBlam{}).Error
}

// ListBlammed returns blammed user ids for the channel, newest first.
func (s *Store) ListBlammed(ctx context.Context, channelID string) ([]string, error) {
	var entries []ChannelBlam
	err := s.db.WithContext(ctx).
		Where("channel_id = ?", channelID).
		Order("created_at DESC, id DESC").
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

func (s *Store) IsBlammed(ctx context.Context, channelID, userID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&ChannelBlam{}).
		Where("channel_id = ? AND user_id = ?", channelID, userID).
		Count(&count).Error
	return count > 0, err
}
