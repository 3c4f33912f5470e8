package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/jdelarosa/tallerflow-backend/internal/notifications"
	"github.com/jdelarosa/tallerflow-backend/pkg/db/models"
	"github.com/jdelarosa/tallerflow-backend/pkg/enums"
)

type testNotificationsService struct {
	listFn        func(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error)
	markReadFn    func(ctx context.Context, recipientID, notificationID uuid.UUID) error
	markAllReadFn func(ctx context.Context, recipientID uuid.UUID) (int64, error)
	countUnreadFn func(ctx context.Context, recipientID uuid.UUID) (int64, error)
}

func (s *testNotificationsService) Create(ctx context.Context, recipientID uuid.UUID, draft notifications.Draft) error {
	return nil
}

func (s *testNotificationsService) NotifyUsers(ctx context.Context, userIDs []uuid.UUID, exclude *uuid.UUID, draft notifications.Draft) (int, error) {
	return 0, nil
}

func (s *testNotificationsService) NotifyByRole(ctx context.Context, roles []enums.UserRole, exclude *uuid.UUID, draft notifications.Draft) (int, error) {
	return 0, nil
}

func (s *testNotificationsService) List(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error) {
	if s.listFn != nil {
		return s.listFn(ctx, params)
	}
	return &notifications.ListResult{}, nil
}

func (s *testNotificationsService) MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error {
	if s.markReadFn != nil {
		return s.markReadFn(ctx, recipientID, notificationID)
	}
	return nil
}

func (s *testNotificationsService) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	if s.markAllReadFn != nil {
		return s.markAllReadFn(ctx, recipientID)
	}
	return 0, nil
}

func (s *testNotificationsService) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	if s.countUnreadFn != nil {
		return s.countUnreadFn(ctx, recipientID)
	}
	return 0, nil
}

func TestListNotificationsForwardsParams(t *testing.T) {
	recipientID := uuid.New()
	var got notifications.ListParams
	svc := &testNotificationsService{
		listFn: func(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error) {
			got = params
			return &notifications.ListResult{
				Items:  []models.Notification{{ID: uuid.New(), RecipientID: recipientID}},
				Cursor: "next-cursor",
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications?limit=10&cursor=abc&unreadOnly=true", nil)
	req = withIdentity(req, recipientID, enums.UserRoleTechnician)

	resp := httptest.NewRecorder()
	ListNotifications(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if got.RecipientID != recipientID {
		t.Fatalf("recipient not forwarded: %s", got.RecipientID)
	}
	if got.Limit != 10 || got.Cursor != "abc" || !got.UnreadOnly {
		t.Fatalf("unexpected params %+v", got)
	}

	var envelope struct {
		Data notifications.ListResult `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Cursor != "next-cursor" {
		t.Fatalf("unexpected cursor %q", envelope.Data.Cursor)
	}
}

func TestListNotificationsRejectsBadLimit(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications?limit=zero", nil)
	req = withIdentity(req, uuid.New(), enums.UserRoleTechnician)

	resp := httptest.NewRecorder()
	ListNotifications(&testNotificationsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestListNotificationsMissingIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)

	resp := httptest.NewRecorder()
	ListNotifications(&testNotificationsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestMarkNotificationReadSuccess(t *testing.T) {
	recipientID := uuid.New()
	notificationID := uuid.New()
	called := false
	svc := &testNotificationsService{
		markReadFn: func(ctx context.Context, rid, nid uuid.UUID) error {
			called = true
			if rid != recipientID {
				t.Fatalf("unexpected recipient %s", rid)
			}
			if nid != notificationID {
				t.Fatalf("unexpected notification %s", nid)
			}
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/"+notificationID.String()+"/read", nil)
	req = withIdentity(req, recipientID, enums.UserRoleTechnician)
	req = addRouteParam(req, "notificationId", notificationID.String())

	resp := httptest.NewRecorder()
	MarkNotificationRead(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if !called {
		t.Fatal("expected service called")
	}
}

func TestMarkNotificationReadInvalidID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/invalid/read", nil)
	req = withIdentity(req, uuid.New(), enums.UserRoleTechnician)
	req = addRouteParam(req, "notificationId", "invalid")

	resp := httptest.NewRecorder()
	MarkNotificationRead(&testNotificationsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestMarkAllNotificationsReadCount(t *testing.T) {
	svc := &testNotificationsService{
		markAllReadFn: func(ctx context.Context, recipientID uuid.UUID) (int64, error) {
			return 4, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/read-all", nil)
	req = withIdentity(req, uuid.New(), enums.UserRoleTechnician)

	resp := httptest.NewRecorder()
	MarkAllNotificationsRead(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data map[string]int64 `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data["updated"] != 4 {
		t.Fatalf("unexpected updated count %d", envelope.Data["updated"])
	}
}

func TestCountUnreadNotifications(t *testing.T) {
	svc := &testNotificationsService{
		countUnreadFn: func(ctx context.Context, recipientID uuid.UUID) (int64, error) {
			return 7, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/unread-count", nil)
	req = withIdentity(req, uuid.New(), enums.UserRoleTechnician)

	resp := httptest.NewRecorder()
	CountUnreadNotifications(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data map[string]int64 `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data["unread"] != 7 {
		t.Fatalf("unexpected unread count %d", envelope.Data["unread"])
	}
}
