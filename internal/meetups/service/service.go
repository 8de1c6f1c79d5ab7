package meetups

import (
	"context"
	"fmt"
	"time"

	"github.com/aleodoni/meetapp/internal/errs"
	"github.com/aleodoni/meetapp/internal/logger"
	"github.com/aleodoni/meetapp/internal/models"
	"github.com/aleodoni/meetapp/internal/utils"
	"github.com/aleodoni/meetapp/internal/validator"
)

const PageSize = 20

const (
	msgPastDate       = "Past dates are not permitted"
	msgUpdateNotOwner = "You can't update meetups you're not the owner"
	msgUpdatePast     = "You can't update past meetups"
	msgDeleteNotOwner = "You can't delete meetups you're not the owner"
	msgDeletePast     = "You can't delete past meetups"
)

type MeetupDBLayer interface {
	CreateMeetup(ctx context.Context, meetup *models.Meetup) error
	GetMeetupByID(ctx context.Context, id int64) (*models.Meetup, error)
	UpdateMeetup(ctx context.Context, meetup *models.Meetup) error
	DeleteMeetup(ctx context.Context, id int64) error
	ListMeetupsByOrganizer(ctx context.Context, organizerID int64, limit, offset int) ([]models.Meetup, error)
}

// EventPublisher receives meetup lifecycle events after a successful write.
type EventPublisher interface {
	PublishMeetupEvent(ctx context.Context, event models.MeetupEvent) error
}

type MeetupService struct {
	DB      MeetupDBLayer
	Events  EventPublisher
	Logger  *logger.Logger
	FileURL func(path string) string
	Now     func() time.Time
}

func NewMeetupService(db MeetupDBLayer, events EventPublisher, log *logger.Logger, fileURL func(string) string) *MeetupService {
	return &MeetupService{
		DB:      db,
		Events:  events,
		Logger:  log,
		FileURL: fileURL,
		Now:     time.Now,
	}
}

// Create validates body and stores a new meetup organized by userID.
func (s *MeetupService) Create(ctx context.Context, userID int64, body map[string]interface{}) (*models.Meetup, error) {
	input, err := parseMeetupInput(body)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	if !utils.StartOfHour(input.ScheduledAt).After(now) {
		return nil, errs.NewPastDate(msgPastDate)
	}

	meetup := &models.Meetup{
		Title:       input.Title,
		Description: input.Description,
		Location:    input.Location,
		ScheduledAt: input.ScheduledAt,
		BannerID:    input.BannerID,
		OrganizerID: userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.DB.CreateMeetup(ctx, meetup); err != nil {
		return nil, fmt.Errorf("create meetup: %w", err)
	}

	s.Logger.LogMeetup("CREATE", meetup.ID, fmt.Sprintf("created by user %d", userID))
	s.publish(ctx, models.MeetupCreated, meetup)
	return meetup, nil
}

// Update replaces the editable fields of a meetup. The body must carry the
// full meetup, the same as for Create.
func (s *MeetupService) Update(ctx context.Context, id, userID int64, body map[string]interface{}) (*models.Meetup, error) {
	input, err := parseMeetupInput(body)
	if err != nil {
		return nil, err
	}

	meetup, err := s.DB.GetMeetupByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update meetup %d: %w", id, err)
	}

	if meetup.OrganizerID != userID {
		return nil, errs.NewOwnership(msgUpdateNotOwner)
	}

	now := s.Now()
	if utils.IsPast(meetup.ScheduledAt, now) {
		return nil, errs.NewPastDate(msgUpdatePast)
	}

	if !utils.StartOfHour(input.ScheduledAt).After(now) {
		return nil, errs.NewPastDate(msgPastDate)
	}

	meetup.Title = input.Title
	meetup.Description = input.Description
	meetup.Location = input.Location
	meetup.ScheduledAt = input.ScheduledAt
	meetup.BannerID = input.BannerID
	meetup.UpdatedAt = now

	if err := s.DB.UpdateMeetup(ctx, meetup); err != nil {
		return nil, fmt.Errorf("update meetup %d: %w", id, err)
	}

	s.Logger.LogMeetup("UPDATE", meetup.ID, fmt.Sprintf("updated by user %d", userID))
	s.publish(ctx, models.MeetupUpdated, meetup)
	return meetup, nil
}

func (s *MeetupService) Delete(ctx context.Context, id, userID int64) error {
	meetup, err := s.DB.GetMeetupByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete meetup %d: %w", id, err)
	}

	if meetup.OrganizerID != userID {
		return errs.NewOwnership(msgDeleteNotOwner)
	}

	if utils.IsPast(meetup.ScheduledAt, s.Now()) {
		return errs.NewPastDate(msgDeletePast)
	}

	if err := s.DB.DeleteMeetup(ctx, id); err != nil {
		return fmt.Errorf("delete meetup %d: %w", id, err)
	}

	s.Logger.LogMeetup("DELETE", id, fmt.Sprintf("deleted by user %d", userID))
	s.publish(ctx, models.MeetupDeleted, meetup)
	return nil
}

// List returns one page of the caller's meetups. Pages start at 1; anything
// lower is treated as the first page.
func (s *MeetupService) List(ctx context.Context, userID int64, page int) ([]models.MeetupListItem, error) {
	if page < 1 {
		page = 1
	}

	meetups, err := s.DB.ListMeetupsByOrganizer(ctx, userID, PageSize, (page-1)*PageSize)
	if err != nil {
		return nil, fmt.Errorf("list meetups: %w", err)
	}

	items := make([]models.MeetupListItem, 0, len(meetups))
	for _, m := range meetups {
		item := models.MeetupListItem{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			Location:    m.Location,
			ScheduledAt: m.ScheduledAt,
		}
		if m.Organizer != nil {
			item.Organizer = &models.OrganizerSummary{ID: m.Organizer.ID, Name: m.Organizer.Name}
		}
		if m.Banner != nil {
			item.Banner = &models.BannerSummary{ID: m.Banner.ID, Path: m.Banner.Path, URL: s.fileURL(m.Banner.Path)}
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *MeetupService) fileURL(path string) string {
	if s.FileURL == nil {
		return path
	}
	return s.FileURL(path)
}

func (s *MeetupService) publish(ctx context.Context, eventType string, meetup *models.Meetup) {
	if s.Events == nil {
		return
	}

	event := models.MeetupEvent{
		Type:        eventType,
		MeetupID:    meetup.ID,
		OrganizerID: meetup.OrganizerID,
		Title:       meetup.Title,
		ScheduledAt: meetup.ScheduledAt,
		OccurredAt:  s.Now(),
	}
	if err := s.Events.PublishMeetupEvent(ctx, event); err != nil {
		s.Logger.Warn("KAFKA", fmt.Sprintf("Failed to publish %s for meetup %d: %v", eventType, meetup.ID, err))
	}
}

func parseMeetupInput(body map[string]interface{}) (models.MeetupInput, error) {
	result := validator.Validate(validator.MeetupSchema, body)
	if err := result.Err(); err != nil {
		return models.MeetupInput{}, err
	}

	return models.MeetupInput{
		Title:       result.String("titulo"),
		Description: result.String("descricao"),
		Location:    result.String("localizacao"),
		ScheduledAt: result.Time("data_hora"),
		BannerID:    result.Int("banner_id"),
	}, nil
}
