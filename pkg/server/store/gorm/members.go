package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/model"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/server/store"
)

// Ensure MemberStore implements store.MemberStore
var _ store.MemberStore = (*MemberStore)(nil)

// MemberStore implements store.MemberStore using GORM
type MemberStore struct {
	db *gorm.DB
}

// NewMemberStore creates a new MemberStore
func NewMemberStore(db *gorm.DB) *MemberStore {
	return &MemberStore{db: db}
}

// FindMember loads a member and its roles
func (s *MemberStore) FindMember(ctx context.Context, userID string) (*model.Member, error) {
	var member model.Member
	tx := s.db.WithContext(ctx).Preload("Roles").Where("user_id = ?", userID).First(&member)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrMemberNotFound
		}
		return nil, tx.Error
	}
	return &member, nil
}

// CreateMember stores member and its roles in one transaction
func (s *MemberStore) CreateMember(ctx context.Context, member *model.Member) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(member).Error; err != nil {
			return err
		}
		if len(member.Roles) == 0 {
			return nil
		}
		for i := range member.Roles {
			member.Roles[i].UserID = member.UserID
		}
		return tx.Create(&member.Roles).Error
	})
}

// SetRoles replaces every role of userID with roles
func (s *MemberStore) SetRoles(ctx context.Context, userID string, roles []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Member{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return store.ErrMemberNotFound
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.MemberRole{}).Error; err != nil {
			return err
		}
		if len(roles) == 0 {
			return nil
		}
		rows := make([]model.MemberRole, 0, len(roles))
		for _, r := range roles {
			rows = append(rows, model.MemberRole{UserID: userID, Role: r})
		}
		return tx.Create(&rows).Error
	})
}

// SetActive flips the active flag of userID
func (s *MemberStore) SetActive(ctx context.Context, userID string, active bool) error {
	tx := s.db.WithContext(ctx).Model(&model.Member{}).Where("user_id = ?", userID).Update("active", active)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrMemberNotFound
	}
	return nil
}
