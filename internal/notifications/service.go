package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jdelarosa/tallerflow-backend/pkg/db/models"
	"github.com/jdelarosa/tallerflow-backend/pkg/enums"
	pkgerrors "github.com/jdelarosa/tallerflow-backend/pkg/errors"
	"github.com/jdelarosa/tallerflow-backend/pkg/pagination"
)

// Service defines notification dispatch and inbox operations.
type Service interface {
	Create(ctx context.Context, recipientID uuid.UUID, draft Draft) error
	NotifyUsers(ctx context.Context, userIDs []uuid.UUID, exclude *uuid.UUID, draft Draft) (int, error)
	NotifyByRole(ctx context.Context, roles []enums.UserRole, exclude *uuid.UUID, draft Draft) (int, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
}

// Draft is the recipient-independent part of a notification.
type Draft struct {
	Kind     enums.NotificationKind
	Title    string
	Message  string
	Priority enums.NotificationPriority
	OrderID  *uuid.UUID
}

// ListParams configures pagination for a recipient's inbox.
type ListParams struct {
	RecipientID uuid.UUID
	Limit       int
	Cursor      string
	UnreadOnly  bool
}

// ListResult wraps returned notifications and the cursor for the next page.
type ListResult struct {
	Items  []models.Notification `json:"items"`
	Cursor string                `json:"cursor"`
}

type service struct {
	repo  Repository
	users userResolver
	now   func() time.Time
}

// NewService wires notification dependencies. The clock is injectable
// for tests; pass nil to use time.Now.
func NewService(repo Repository, users userResolver, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	if users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "user resolver required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, users: users, now: now}, nil
}

func (d Draft) validate() error {
	if !d.Kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid notification kind")
	}
	if d.Title == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification title required")
	}
	if d.Message == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification message required")
	}
	return nil
}

func (d Draft) priorityOrDefault() enums.NotificationPriority {
	if d.Priority == "" {
		return enums.NotificationPriorityNormal
	}
	return d.Priority
}

func (s *service) Create(ctx context.Context, recipientID uuid.UUID, draft Draft) error {
	if recipientID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient id required")
	}
	if err := draft.validate(); err != nil {
		return err
	}

	notification := models.Notification{
		ID:          uuid.New(),
		RecipientID: recipientID,
		OrderID:     draft.OrderID,
		Kind:        draft.Kind,
		Title:       draft.Title,
		Message:     draft.Message,
		Priority:    draft.priorityOrDefault(),
	}
	if err := s.repo.Create(ctx, &notification); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert notification")
	}
	return nil
}

func (s *service) NotifyUsers(ctx context.Context, userIDs []uuid.UUID, exclude *uuid.UUID, draft Draft) (int, error) {
	if err := draft.validate(); err != nil {
		return 0, err
	}

	recipients := make([]uuid.UUID, 0, len(userIDs))
	seen := make(map[uuid.UUID]struct{}, len(userIDs))
	for _, id := range userIDs {
		if id == uuid.Nil {
			continue
		}
		if exclude != nil && id == *exclude {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		recipients = append(recipients, id)
	}
	if len(recipients) == 0 {
		return 0, nil
	}

	return s.insertBatch(ctx, recipients, draft)
}

func (s *service) NotifyByRole(ctx context.Context, roles []enums.UserRole, exclude *uuid.UUID, draft Draft) (int, error) {
	if err := draft.validate(); err != nil {
		return 0, err
	}

	resolved, err := s.users.FindActiveByRoles(ctx, roles, exclude)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve notification recipients")
	}
	// An empty recipient set stays out of the bulk-insert path entirely.
	if len(resolved) == 0 {
		return 0, nil
	}

	recipients := make([]uuid.UUID, 0, len(resolved))
	for _, user := range resolved {
		recipients = append(recipients, user.ID)
	}
	return s.insertBatch(ctx, recipients, draft)
}

func (s *service) insertBatch(ctx context.Context, recipients []uuid.UUID, draft Draft) (int, error) {
	batch := make([]models.Notification, 0, len(recipients))
	for _, recipientID := range recipients {
		batch = append(batch, models.Notification{
			ID:          uuid.New(),
			RecipientID: recipientID,
			OrderID:     draft.OrderID,
			Kind:        draft.Kind,
			Title:       draft.Title,
			Message:     draft.Message,
			Priority:    draft.priorityOrDefault(),
		})
	}
	if err := s.repo.CreateBatch(ctx, batch); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert notifications")
	}
	return len(batch), nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.RecipientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipient id required")
	}

	query := listNotificationsParams{
		RecipientID: params.RecipientID,
		Limit:       params.Limit,
		UnreadOnly:  params.UnreadOnly,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}

func (s *service) MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error {
	if recipientID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient id required")
	}
	if notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}

	result, err := s.repo.MarkRead(ctx, recipientID, notificationID, s.now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if !result.Found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	if recipientID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "recipient id required")
	}

	count, err := s.repo.MarkAllRead(ctx, recipientID, s.now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return count, nil
}

func (s *service) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	if recipientID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "recipient id required")
	}

	count, err := s.repo.CountUnread(ctx, recipientID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unread notifications")
	}
	return count, nil
}
