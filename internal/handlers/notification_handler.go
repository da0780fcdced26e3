package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "isave/internal/errors"
	"isave/internal/pagination"
	"isave/internal/services"
)

// NotificationHandler handles in-app notification requests
type NotificationHandler struct {
	notificationService services.NotificationServicer
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService services.NotificationServicer) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// NotificationQuery represents the query parameters for listing notifications.
type NotificationQuery struct {
	pagination.PageRequest
	UnreadOnly bool `form:"unread_only"`
}

// GetNotifications lists the user's notifications
// @Summary     List notifications
// @Description Get a paginated list of the user's notifications, newest first
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Param       page        query int  false "Page number"
// @Param       page_size   query int  false "Page size"
// @Param       unread_only query bool false "Only unread notifications"
// @Success     200 {object} pagination.PageResponse[models.Notification]
// @Failure     400 {object} ErrorResponse
// @Failure     401 {object} ErrorResponse
// @Router      /notifications [get]
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query NotificationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.notificationService.GetUserNotifications(c.Request.Context(), userID, query.PageRequest, query.UnreadOnly)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// MarkAsRead marks a notification as read
// @Summary     Mark notification read
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Notification ID"
// @Success     200 {object} map[string]models.Notification
// @Failure     400 {object} ErrorResponse
// @Failure     401 {object} ErrorResponse
// @Failure     404 {object} ErrorResponse
// @Router      /notifications/{id}/read [put]
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	notification, err := h.notificationService.MarkAsRead(c.Request.Context(), userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notification": notification})
}
