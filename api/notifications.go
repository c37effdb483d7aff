// ABOUTME: Notification inbox endpoints
// ABOUTME: Paged listing, unread count and read receipts
package api

import (
	"context"
	"net/http"

	"github.com/harperreed/adda/models"
)

type NotificationsService service

func (s *NotificationsService) List(ctx context.Context, f NotificationFilter) (*models.Page[models.Notification], error) {
	var out models.Page[models.Notification]
	if err := s.client.call(ctx, http.MethodGet, "/api/notifications", f.values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *NotificationsService) UnreadCount(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	if err := s.client.call(ctx, http.MethodGet, "/api/notifications/unread-count", nil, nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (s *NotificationsService) MarkRead(ctx context.Context, id string) error {
	if err := requireID("Notification", id); err != nil {
		return err
	}
	return s.client.call(ctx, http.MethodPatch, pathID("/api/notifications", id, "read"), nil, nil, nil)
}

func (s *NotificationsService) MarkAllRead(ctx context.Context) error {
	return s.client.call(ctx, http.MethodPatch, "/api/notifications/read-all", nil, nil, nil)
}
