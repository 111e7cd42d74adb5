package service

import (
	"context"
	"net/url"
	"strconv"

	"github.com/locvowork/employee_admin_console/internal/domain"
	"github.com/locvowork/employee_admin_console/internal/gateway"
	"github.com/locvowork/employee_admin_console/internal/logger"
)

type notificationService struct {
	api *gateway.Client
}

// NewNotificationService returns the notification feed resource wrapper.
func NewNotificationService(api *gateway.Client) domain.NotificationService {
	return &notificationService{api: api}
}

func (s *notificationService) List(ctx context.Context, page, limit int, unreadOnly bool) (*domain.NotificationPage, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if unreadOnly {
		query.Set("unreadOnly", "true")
	}

	var resp domain.NotificationPage
	if err := s.api.Get(ctx, "/notifications", query, &resp); err != nil {
		logger.ErrorLog(ctx, "Error fetching notifications", err)
		return nil, err
	}
	return &resp, nil
}

func (s *notificationService) UnreadCount(ctx context.Context) (int, error) {
	var resp struct {
		UnreadCount int `json:"unreadCount"`
	}
	if err := s.api.Get(ctx, "/notifications/unread-count", nil, &resp); err != nil {
		return 0, err
	}
	return resp.UnreadCount, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context) error {
	var resp struct {
		Message string `json:"message"`
	}
	if err := s.api.Patch(ctx, "/notifications/read-all", nil, &resp); err != nil {
		logger.ErrorLog(ctx, "Error marking notifications read", err)
		return err
	}
	return nil
}
