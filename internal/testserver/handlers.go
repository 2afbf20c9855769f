package testserver

import (
	"net/http"
	"strconv"

	"chat-tester/internal/auth"
	"chat-tester/internal/storage"
	"chat-tester/internal/types"
	"chat-tester/log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const userIDKey = "user_id"

type Handler struct {
	Store  *storage.Store
	Secret string
}

func (h *Handler) userID(c *gin.Context) (int64, bool) {
	id, err := auth.ParseUserID(h.Secret, auth.BearerToken(c.GetHeader("Authorization")))
	if err != nil {
		return 0, false
	}
	return id, true
}

func (h *Handler) membershipCount(c *gin.Context, userID int64) (int64, int64, bool) {
	groupID, err := strconv.ParseInt(c.Param("group_id"), 10, 64)
	if err != nil {
		abortForbidden(c)
		return 0, 0, false
	}
	var count int64
	err = h.Store.DB.Model(&types.Membership{}).
		Where("user_id = ? AND group_id = ?", userID, groupID).
		Count(&count).Error
	if err != nil {
		log.GetLogger().Error("membership lookup failed", zap.Error(err))
		abortInternal(c)
		return 0, 0, false
	}
	return groupID, count, true
}

// RequireMember lets the request through only for members of the group.
func (h *Handler) RequireMember(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		abortUnauthorized(c)
		return
	}
	groupID, count, ok := h.membershipCount(c, userID)
	if !ok {
		return
	}
	if count == 0 {
		abortForbidden(c)
		return
	}
	c.Set(userIDKey, userID)
	c.Set("group_id", groupID)
	c.Next()
}

// RequireNonMember is the reverse of RequireMember, guarding join.
func (h *Handler) RequireNonMember(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		abortUnauthorized(c)
		return
	}
	groupID, count, ok := h.membershipCount(c, userID)
	if !ok {
		return
	}
	if count > 0 {
		abortForbidden(c)
		return
	}
	c.Set(userIDKey, userID)
	c.Set("group_id", groupID)
	c.Next()
}

func (h *Handler) ListGroups(c *gin.Context) {
	groups := []types.Group{}
	if err := h.Store.DB.Order("id").Find(&groups).Error; err != nil {
		abortInternal(c)
		return
	}
	c.JSON(http.StatusOK, groups)
}

func (h *Handler) CreateGroup(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		abortUnauthorized(c)
		return
	}
	group := types.Group{GroupName: c.PostForm("groupname")}
	if err := h.Store.DB.Create(&group).Error; err != nil {
		abortInternal(c)
		return
	}
	if err := h.Store.DB.Create(&types.Membership{UserId: userID, GroupId: group.Id}).Error; err != nil {
		abortInternal(c)
		return
	}
	c.Status(http.StatusCreated)
}

func (h *Handler) ListMessages(c *gin.Context) {
	messages := []types.Message{}
	if err := h.Store.DB.Where("group_id = ?", c.GetInt64("group_id")).Order("id").Find(&messages).Error; err != nil {
		abortInternal(c)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *Handler) PostMessage(c *gin.Context) {
	message := types.Message{
		GroupId: c.GetInt64("group_id"),
		UserId:  c.GetInt64(userIDKey),
		Message: c.PostForm("message"),
	}
	if err := h.Store.DB.Create(&message).Error; err != nil {
		abortInternal(c)
		return
	}
	c.Status(http.StatusCreated)
}

func (h *Handler) JoinGroup(c *gin.Context) {
	membership := types.Membership{UserId: c.GetInt64(userIDKey), GroupId: c.GetInt64("group_id")}
	if err := h.Store.DB.Create(&membership).Error; err != nil {
		abortInternal(c)
		return
	}
	c.Status(http.StatusCreated)
}

func (h *Handler) LeaveGroup(c *gin.Context) {
	err := h.Store.DB.Where("user_id = ? AND group_id = ?", c.GetInt64(userIDKey), c.GetInt64("group_id")).
		Delete(&types.Membership{}).Error
	if err != nil {
		abortInternal(c)
		return
	}
	c.Status(http.StatusNoContent)
}
