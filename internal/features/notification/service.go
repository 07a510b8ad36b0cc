package notification

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"go-custody/internal/features/user"
)

type Input struct {
	Kind     Kind
	Title    string
	Message  string
	RecordID string
}

type NotificationService interface {
	// NotifyUser delivers one in-app notification.
	NotifyUser(ctx context.Context, userID string, input Input) error

	// NotifyRoles fans out a notification to every active user holding
	// any of the given roles.
	NotifyRoles(ctx context.Context, roles []string, input Input) error

	ListForUser(ctx context.Context, userID string, unreadOnly bool, limit int64) ([]Notification, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

type NotificationServiceImpl struct {
	NotificationRepo NotificationRepository
	UserRepo         user.UserRepository
	Logger           *zap.Logger
}

func NewNotificationService(notificationRepo NotificationRepository, userRepo user.UserRepository, logger *zap.Logger) NotificationService {
	return &NotificationServiceImpl{
		NotificationRepo: notificationRepo,
		UserRepo:         userRepo,
		Logger:           logger,
	}
}

func (s *NotificationServiceImpl) NotifyUser(ctx context.Context, userID string, input Input) error {
	if userID == "" {
		return nil
	}
	return s.NotificationRepo.CreateMany(ctx, []Notification{{
		UserID:   userID,
		Kind:     input.Kind,
		Title:    input.Title,
		Message:  input.Message,
		RecordID: input.RecordID,
	}})
}

func (s *NotificationServiceImpl) NotifyRoles(ctx context.Context, roles []string, input Input) error {
	if len(roles) == 0 {
		return nil
	}
	users, err := s.UserRepo.FindByRoles(ctx, roles)
	if err != nil {
		return err
	}

	notifications := make([]Notification, 0, len(users))
	for _, u := range users {
		notifications = append(notifications, Notification{
			UserID:   u.ID.Hex(),
			Kind:     input.Kind,
			Title:    input.Title,
			Message:  input.Message,
			RecordID: input.RecordID,
		})
	}
	if err := s.NotificationRepo.CreateMany(ctx, notifications); err != nil {
		return err
	}

	s.Logger.Debug("notifications fanned out",
		zap.Int("count", len(notifications)),
		zap.Strings("roles", roles),
		zap.String("func", "NotificationService.NotifyRoles"),
	)
	return nil
}

func (s *NotificationServiceImpl) ListForUser(ctx context.Context, userID string, unreadOnly bool, limit int64) ([]Notification, error) {
	return s.NotificationRepo.ListForUser(ctx, userID, unreadOnly, limit)
}

func (s *NotificationServiceImpl) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.NotificationRepo.CountUnread(ctx, userID)
}

func (s *NotificationServiceImpl) MarkRead(ctx context.Context, userID, notificationID string) error {
	objID, err := primitive.ObjectIDFromHex(notificationID)
	if err != nil {
		return err
	}
	return s.NotificationRepo.MarkRead(ctx, userID, objID)
}

func (s *NotificationServiceImpl) MarkAllRead(ctx context.Context, userID string) error {
	return s.NotificationRepo.MarkAllRead(ctx, userID)
}
