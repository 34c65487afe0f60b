package contact

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"

	"github.com/elskow/portfolio-cms/internal/apperror"
	"github.com/elskow/portfolio-cms/internal/content"
	"github.com/elskow/portfolio-cms/internal/rules"
)

type Service struct {
	repository Repository
	log        *zap.Logger
}

func NewService(repo Repository, log *zap.Logger) *Service {
	return &Service{repository: repo, log: log}
}

// SubmitInput is what a visitor sends through the public form.
type SubmitInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Client identifies the sender of a submission.
type Client struct {
	IP        string
	UserAgent string
}

func (s *Service) Submit(ctx context.Context, in SubmitInput, client Client) (*Message, error) {
	m := &Message{
		Name:      content.PlainText(in.Name),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Subject:   content.PlainText(in.Subject),
		Message:   content.PlainText(in.Message),
		Priority:  PriorityMedium,
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
	}
	if err := apperror.Validation(m.Validate()); err != nil {
		return nil, err
	}
	if err := s.repository.Create(ctx, m); err != nil {
		return nil, err
	}
	s.log.Info("contact message received",
		zap.Uint("message_id", m.ID),
		zap.String("ip", client.IP))
	return m, nil
}

// UpdateInput holds the fields an admin may change; nil fields are kept.
type UpdateInput struct {
	IsRead     *bool     `json:"isRead"`
	IsReplied  *bool     `json:"isReplied"`
	Priority   *Priority `json:"priority"`
	AdminNotes *string   `json:"adminNotes"`
}

func (s *Service) Update(ctx context.Context, id uint, in UpdateInput) (*Message, error) {
	m, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.IsRead != nil {
		m.IsRead = *in.IsRead
	}
	if in.IsReplied != nil {
		m.IsReplied = *in.IsReplied
	}
	if in.Priority != nil {
		m.Priority = *in.Priority
	}
	if in.AdminNotes != nil {
		m.AdminNotes = content.PlainText(*in.AdminNotes)
	}

	if err := apperror.Validation(m.Validate()); err != nil {
		return nil, err
	}
	if err := s.repository.Update(ctx, m); err != nil {
		return nil, err
	}
	s.log.Info("contact message updated", zap.Uint("message_id", m.ID))
	return m, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.repository.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("contact message deleted", zap.Uint("message_id", id))
	return nil
}

func (s *Service) Get(ctx context.Context, id uint) (*Message, error) {
	return s.repository.FindByID(ctx, id)
}

type ListResult struct {
	Messages    []Message `json:"messages"`
	UnreadCount int64     `json:"unreadCount"`
	Total       int64     `json:"-"`
}

func (s *Service) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	err := validation.Validate(filter.Priority, validation.In(rules.Strings(Priorities...)...))
	if err != nil {
		return nil, apperror.FieldInvalid("priority", err.Error())
	}

	messages, total, err := s.repository.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	unread, err := s.repository.CountUnread(ctx)
	if err != nil {
		return nil, err
	}
	return &ListResult{Messages: messages, UnreadCount: unread, Total: total}, nil
}
