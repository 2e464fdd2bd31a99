package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/rpupo63/portfolio-site-backend/database"
	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/metrics"
	"github.com/rpupo63/portfolio-site-backend/models"
)

const (
	defaultContactPageSize = 10
	maxContactPageSize     = 100
	notifyTimeout          = 30 * time.Second

	smtpNotConfigured = "SMTP not configured"
)

type ContactStore interface {
	Add(ctx context.Context, contact *models.Contact) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Contact, error)
	List(ctx context.Context, filter database.ContactFilter) ([]models.Contact, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ContactStatus) (*models.Contact, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NotificationPolicy decides whether a new message alerts the admin.
type NotificationPolicy interface {
	NotificationTarget(ctx context.Context) NotificationTarget
}

// ContactInput is the public contact form.
type ContactInput struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,min=5,max=200"`
	Message string `json:"message" validate:"required,min=10,max=2000"`
}

// EmailStatus reports what happened to the two emails sent for a submission.
type EmailStatus struct {
	Notification      bool    `json:"notification"`
	Confirmation      bool    `json:"confirmation"`
	NotificationError *string `json:"notificationError"`
	ConfirmationError *string `json:"confirmationError"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type ContactService struct {
	contacts ContactStore
	mailer   Mailer
	sms      SMSSender
	policy   NotificationPolicy
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewContactService wires the contact inbox. mailer, sms, policy and m may be nil.
func NewContactService(contacts ContactStore, mailer Mailer, sms SMSSender, policy NotificationPolicy, m *metrics.Metrics) *ContactService {
	return &ContactService{
		contacts: contacts,
		mailer:   mailer,
		sms:      sms,
		policy:   policy,
		metrics:  m,
		logger:   log.With().Str("service", "ContactService").Logger(),
	}
}

// Submit stores a message and then notifies the admin and the sender concurrently.
// Delivery failures never fail the submission; they are reported in EmailStatus.
func (s *ContactService) Submit(ctx context.Context, in ContactInput) (*models.Contact, EmailStatus, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
	if err := validateStruct(in); err != nil {
		return nil, EmailStatus{}, err
	}

	now := time.Now()
	contact := &models.Contact{
		Name:      in.Name,
		Email:     in.Email,
		Subject:   in.Subject,
		Message:   in.Message,
		Status:    models.ContactStatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.contacts.Add(ctx, contact); err != nil {
		return nil, EmailStatus{}, errs.NewDatabaseError("create", "Contact", err)
	}
	s.logger.Info().Str("contactId", contact.ID.String()).Str("email", contact.Email).Msg("contact message received")

	return contact, s.notify(ctx, contact), nil
}

func (s *ContactService) notify(ctx context.Context, contact *models.Contact) EmailStatus {
	if s.mailer == nil {
		msg := smtpNotConfigured
		return EmailStatus{NotificationError: &msg, ConfirmationError: &msg}
	}

	target := NotificationTarget{Enabled: true, SiteName: "Portfolio"}
	if s.policy != nil {
		target = s.policy.NotificationTarget(ctx)
	}

	// delivery outlives a client that disconnects after the row is stored
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	data := newContactEmailData(contact, target.SiteName)
	var notificationErr, confirmationErr error
	var g errgroup.Group

	if target.Enabled && target.AdminEmail != "" {
		g.Go(func() error {
			notificationErr = s.sendNotification(notifyCtx, target.AdminEmail, data)
			s.metrics.RecordNotification("email_notification", notificationErr)
			return nil
		})
		if s.sms != nil {
			g.Go(func() error {
				body := fmt.Sprintf("New portfolio message from %s <%s>: %s", contact.Name, contact.Email, contact.Subject)
				err := s.sms.SendSMS(notifyCtx, body)
				if err != nil {
					s.logger.Warn().Err(err).Msg("sms alert failed")
				}
				s.metrics.RecordNotification("sms", err)
				return nil
			})
		}
	} else {
		notificationErr = fmt.Errorf("email notifications disabled")
	}

	g.Go(func() error {
		confirmationErr = s.sendConfirmation(notifyCtx, contact.Email, data)
		s.metrics.RecordNotification("email_confirmation", confirmationErr)
		return nil
	})
	_ = g.Wait()

	status := EmailStatus{
		Notification: notificationErr == nil,
		Confirmation: confirmationErr == nil,
	}
	if notificationErr != nil {
		msg := notificationErr.Error()
		status.NotificationError = &msg
	}
	if confirmationErr != nil {
		msg := confirmationErr.Error()
		status.ConfirmationError = &msg
		s.logger.Warn().Err(confirmationErr).Msg("confirmation email failed")
	}
	return status
}

func (s *ContactService) sendNotification(ctx context.Context, to string, data contactEmailData) error {
	html, err := render(notificationTemplate, data)
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, EmailMessage{
		To:      []string{to},
		ReplyTo: data.Email,
		Subject: fmt.Sprintf("[%s] New message from %s", data.SiteName, data.Name),
		HTML:    html,
	})
}

func (s *ContactService) sendConfirmation(ctx context.Context, to string, data contactEmailData) error {
	html, err := render(confirmationTemplate, data)
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, EmailMessage{
		To:      []string{to},
		Subject: "Thanks for getting in touch",
		HTML:    html,
	})
}

// List returns one page of messages, newest first. page and limit fall back to 1 and 10.
func (s *ContactService) List(ctx context.Context, page, limit int, status string) ([]models.Contact, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultContactPageSize
	}
	limit = min(limit, maxContactPageSize)

	filter := database.ContactFilter{Page: page, Limit: limit}
	if status != "" {
		st, err := parseContactStatus(status)
		if err != nil {
			return nil, Pagination{}, err
		}
		filter.Status = st
	}

	contacts, total, err := s.contacts.List(ctx, filter)
	if err != nil {
		return nil, Pagination{}, errs.NewDatabaseError("find", "Contacts", err)
	}
	return contacts, Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

func (s *ContactService) Get(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	contact, err := s.contacts.FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "Contact", err)
	}
	return contact, nil
}

func (s *ContactService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Contact, error) {
	st, err := parseContactStatus(status)
	if err != nil {
		return nil, err
	}
	contact, err := s.contacts.UpdateStatus(ctx, id, st)
	if err != nil {
		return nil, errs.NewDatabaseError("update", "Contact", err)
	}
	return contact, nil
}

func (s *ContactService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.contacts.Delete(ctx, id); err != nil {
		return errs.NewDatabaseError("delete", "Contact", err)
	}
	return nil
}

func parseContactStatus(raw string) (models.ContactStatus, error) {
	st := models.ContactStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !st.Valid() {
		return "", errs.NewBadRequestErrorWithField("Invalid status", "status", "expected one of NEW, READ, REPLIED")
	}
	return st, nil
}
