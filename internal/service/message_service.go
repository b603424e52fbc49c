package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/iccthub/portal-api/internal/models"
	appErrors "github.com/iccthub/portal-api/pkg/errors"
)

type messageRepository interface {
	Inbox(ctx context.Context, userID string, filter models.MessageFilter) ([]models.Message, error)
	Sent(ctx context.Context, userID string, filter models.MessageFilter) ([]models.Message, error)
	GetByID(ctx context.Context, id string) (*models.Message, error)
	Create(ctx context.Context, message *models.Message) error
	MarkRead(ctx context.Context, id string) error
	SetLabels(ctx context.Context, id string, labels []string) error
	ArchiveForParty(ctx context.Context, id string, asSender bool) error
}

type messageUserRepository interface {
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	RefsByID(ctx context.Context, ids []string) (map[string]models.UserRef, error)
}

// MessageService provides internal mail use cases. Every operation is scoped
// to the acting user: nobody reads or mutates a conversation they are not a
// party to, admins included.
type MessageService struct {
	repo      messageRepository
	users     messageUserRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMessageService constructs a MessageService.
func NewMessageService(repo messageRepository, users messageUserRepository, validate *validator.Validate, logger *zap.Logger) *MessageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &MessageService{repo: repo, users: users, validator: validate, logger: logger}
}

// Inbox returns messages received by the actor, newest first.
func (s *MessageService) Inbox(ctx context.Context, actor *models.User, filter models.MessageFilter) ([]models.Message, error) {
	messages, err := s.repo.Inbox(ctx, actor.ID, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list inbox")
	}
	if err := s.populateParties(ctx, messages); err != nil {
		s.logger.Warn("failed to resolve message parties", zap.Error(err))
	}
	return messages, nil
}

// Sent returns messages sent by the actor, newest first.
func (s *MessageService) Sent(ctx context.Context, actor *models.User, filter models.MessageFilter) ([]models.Message, error) {
	messages, err := s.repo.Sent(ctx, actor.ID, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sent messages")
	}
	if err := s.populateParties(ctx, messages); err != nil {
		s.logger.Warn("failed to resolve message parties", zap.Error(err))
	}
	return messages, nil
}

// Get returns a single message the actor is party to. When the recipient
// opens the message it is marked read as a side effect.
func (s *MessageService) Get(ctx context.Context, actor *models.User, id string) (*models.Message, error) {
	message, err := s.getForParty(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if message.ToID == actor.ID && !message.Read {
		if err := s.repo.MarkRead(ctx, id); err != nil {
			s.logger.Warn("failed to mark message read", zap.Error(err))
		} else {
			message.Read = true
		}
	}

	messages := []models.Message{*message}
	if err := s.populateParties(ctx, messages); err != nil {
		s.logger.Warn("failed to resolve message parties", zap.Error(err))
	}
	return &messages[0], nil
}

// Send delivers a message to the recipient addressed by email or student ID.
// An empty subject is replaced with the default placeholder.
func (s *MessageService) Send(ctx context.Context, actor *models.User, req models.SendMessageRequest) (*models.Message, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid message payload")
	}

	recipient, err := s.users.FindByIdentifier(ctx, req.Recipient)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "recipient not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve recipient")
	}
	if recipient.IsArchived {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "recipient not found")
	}
	if recipient.ID == actor.ID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cannot send a message to yourself")
	}

	subject := req.Subject
	if subject == "" {
		subject = models.DefaultSubject
	}

	message := &models.Message{
		FromID:  actor.ID,
		ToID:    recipient.ID,
		Subject: subject,
		Body:    req.Body,
	}
	if err := s.repo.Create(ctx, message); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to send message")
	}
	return message, nil
}

// MarkRead flags a received message as read without returning its body.
func (s *MessageService) MarkRead(ctx context.Context, actor *models.User, id string) error {
	message, err := s.getForParty(ctx, actor, id)
	if err != nil {
		return err
	}
	if message.ToID != actor.ID {
		return appErrors.Clone(appErrors.ErrForbidden, "only the recipient may mark a message read")
	}
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark message read")
	}
	return nil
}

// SetLabels replaces the label set of a message the actor is party to.
func (s *MessageService) SetLabels(ctx context.Context, actor *models.User, id string, req models.MessageLabelsRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid labels payload")
	}
	if _, err := s.getForParty(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.SetLabels(ctx, id, req.Labels); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set message labels")
	}
	return nil
}

// Archive hides the actor's copy of the message. The other party's view is
// unaffected.
func (s *MessageService) Archive(ctx context.Context, actor *models.User, id string) error {
	message, err := s.getForParty(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.ArchiveForParty(ctx, id, message.FromID == actor.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to archive message")
	}
	return nil
}

func (s *MessageService) getForParty(ctx context.Context, actor *models.User, id string) (*models.Message, error) {
	message, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "message not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load message")
	}
	if !message.IsParty(actor.ID) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "message not found")
	}
	return message, nil
}

func (s *MessageService) populateParties(ctx context.Context, messages []models.Message) error {
	if s.users == nil || len(messages) == 0 {
		return nil
	}
	ids := make([]string, 0, len(messages)*2)
	seen := map[string]struct{}{}
	for _, message := range messages {
		for _, id := range []string{message.FromID, message.ToID} {
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	refs, err := s.users.RefsByID(ctx, ids)
	if err != nil {
		return err
	}
	for i := range messages {
		if ref, ok := refs[messages[i].FromID]; ok {
			r := ref
			messages[i].From = &r
		}
		if ref, ok := refs[messages[i].ToID]; ok {
			r := ref
			messages[i].To = &r
		}
	}
	return nil
}
