package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetManager returns the most recent blam actor for the channel, or "" when
// nobody has blammed there yet.
func (s *Store) GetManager(ctx context.Context, channelID string) (string, error) {
	var m ChannelManager
	err := s.db.WithContext(ctx).Where("channel_id = ?", channelID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return m.ManagerUserID, nil
}

func (s *Store) SetManager(ctx context.Context, channelID, managerUserID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "channel_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"manager_user_id", "updated_at"}),
	}).Create(&ChannelManager{
		ChannelID:     channelID,
		ManagerUserID: managerUserID,
		UpdatedAt:     time.Now().UTC(),
	}).Error
}
