package storage

import (
	"chat-tester/internal/types"
	"chat-tester/log"
	apperrors "chat-tester/pkg/errors"

	"go.uber.org/zap"
)

// DeleteMessagesByText removes every message with exactly this text.
func (s *Store) DeleteMessagesByText(text string) (int64, error) {
	result := s.DB.Where("message = ?", text).Delete(&types.Message{})
	if result.Error != nil {
		return 0, apperrors.WrapWithDetail(apperrors.CodeDBError, "delete messages failed", text, result.Error)
	}
	log.GetLogger().Info("deleted messages", zap.String("message", text), zap.Int64("rows", result.RowsAffected))
	return result.RowsAffected, nil
}

// DeleteGroupsByName removes every group with this name.
func (s *Store) DeleteGroupsByName(name string) (int64, error) {
	result := s.DB.Where("groupname = ?", name).Delete(&types.Group{})
	if result.Error != nil {
		return 0, apperrors.WrapWithDetail(apperrors.CodeDBError, "delete groups failed", name, result.Error)
	}
	log.GetLogger().Info("deleted groups", zap.String("groupname", name), zap.Int64("rows", result.RowsAffected))
	return result.RowsAffected, nil
}

// DeleteMembershipsByGroup removes all membership rows pointing at a group.
func (s *Store) DeleteMembershipsByGroup(groupID int64) (int64, error) {
	result := s.DB.Where("group_id = ?", groupID).Delete(&types.Membership{})
	if result.Error != nil {
		return 0, apperrors.Wrap(apperrors.CodeDBError, "delete memberships failed", result.Error)
	}
	if result.RowsAffected > 0 {
		log.GetLogger().Info("deleted memberships", zap.Int64("group_id", groupID), zap.Int64("rows", result.RowsAffected))
	}
	return result.RowsAffected, nil
}

// DeleteMembershipsByGroupName removes membership rows of every group with
// this name. It is the fallback when the group id was never resolved.
func (s *Store) DeleteMembershipsByGroupName(name string) (int64, error) {
	groupIDs := s.DB.Model(&types.Group{}).Select("id").Where("groupname = ?", name)
	result := s.DB.Where("group_id IN (?)", groupIDs).Delete(&types.Membership{})
	if result.Error != nil {
		return 0, apperrors.WrapWithDetail(apperrors.CodeDBError, "delete memberships failed", name, result.Error)
	}
	if result.RowsAffected > 0 {
		log.GetLogger().Info("deleted memberships", zap.String("groupname", name), zap.Int64("rows", result.RowsAffected))
	}
	return result.RowsAffected, nil
}

// GroupIDByName returns the id of the newest group with this name. Names are
// not unique, and the group a case just created is the one with the max id.
func (s *Store) GroupIDByName(name string) (int64, error) {
	var group types.Group
	err := s.DB.Where("groupname = ?", name).Order("id desc").First(&group).Error
	if isNotFound(err) {
		return 0, apperrors.WrapWithDetail(apperrors.CodeRowNotFound, "group not found", name, err)
	}
	if err != nil {
		return 0, apperrors.WrapWithDetail(apperrors.CodeDBError, "lookup group failed", name, err)
	}
	return group.Id, nil
}
