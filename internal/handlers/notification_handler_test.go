package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "isave/internal/errors"
	"isave/internal/models"
	"isave/internal/pagination"
)

type mockNotificationService struct {
	listFn       func(userID string, page pagination.PageRequest, unreadOnly bool) (*pagination.PageResponse[models.Notification], error)
	markAsReadFn func(userID, id string) (*models.Notification, error)
}

func (m *mockNotificationService) NotifyTargetReached(_ context.Context, _ *models.SavePlan) {}

func (m *mockNotificationService) GetUserNotifications(_ context.Context, userID string, page pagination.PageRequest, unreadOnly bool) (*pagination.PageResponse[models.Notification], error) {
	if m.listFn != nil {
		return m.listFn(userID, page, unreadOnly)
	}
	resp := pagination.NewPageResponse[models.Notification](nil, 1, pagination.DefaultPageSize, 0)
	return &resp, nil
}

func (m *mockNotificationService) MarkAsRead(_ context.Context, userID, id string) (*models.Notification, error) {
	if m.markAsReadFn != nil {
		return m.markAsReadFn(userID, id)
	}
	return &models.Notification{Base: models.Base{ID: id}, UserID: userID, IsRead: true}, nil
}

func setupNotificationRouter(handler *NotificationHandler) *gin.Engine {
	r := gin.New()
	api := r.Group("", injectUserID(testUserID))
	api.GET("/notifications", handler.GetNotifications)
	api.PUT("/notifications/:id/read", handler.MarkAsRead)
	return r
}

func TestNotificationHandler_GetNotifications(t *testing.T) {
	var gotUnread bool
	svc := &mockNotificationService{
		listFn: func(_ string, _ pagination.PageRequest, unreadOnly bool) (*pagination.PageResponse[models.Notification], error) {
			gotUnread = unreadOnly
			resp := pagination.NewPageResponse([]models.Notification{{Title: "Savings goal reached!"}}, 1, 20, 1)
			return &resp, nil
		},
	}
	r := setupNotificationRouter(NewNotificationHandler(svc))

	rec := doRequest(r, "GET", "/notifications?unread_only=true", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !gotUnread {
		t.Error("expected unread_only to reach the service")
	}
	data := parseJSON(t, rec)["data"].([]interface{})
	if len(data) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(data))
	}
}

func TestNotificationHandler_MarkAsRead(t *testing.T) {
	t.Run("returns the updated notification", func(t *testing.T) {
		r := setupNotificationRouter(NewNotificationHandler(&mockNotificationService{}))

		rec := doRequest(r, "PUT", "/notifications/"+testPlanID+"/read", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		n := parseJSON(t, rec)["notification"].(map[string]interface{})
		if n["is_read"] != true {
			t.Errorf("expected is_read true, got %v", n["is_read"])
		}
	})

	t.Run("returns 404 for unknown notification", func(t *testing.T) {
		svc := &mockNotificationService{
			markAsReadFn: func(_, _ string) (*models.Notification, error) {
				return nil, apperrors.ErrNotificationNotFound
			},
		}
		r := setupNotificationRouter(NewNotificationHandler(svc))

		rec := doRequest(r, "PUT", "/notifications/"+testPlanID+"/read", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "NOTIFICATION_NOT_FOUND")
	})

	t.Run("returns 400 on malformed id", func(t *testing.T) {
		r := setupNotificationRouter(NewNotificationHandler(&mockNotificationService{}))

		rec := doRequest(r, "PUT", "/notifications/42/read", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
