// Package memory keeps users, files and meetups in process memory. It backs
// STORE_DRIVER=memory runs and the HTTP tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/aleodoni/meetapp/internal/errs"
	"github.com/aleodoni/meetapp/internal/models"
)

type Store struct {
	mu sync.RWMutex

	users   map[int64]models.User
	files   map[int64]models.File
	meetups map[int64]models.Meetup

	nextUserID   int64
	nextFileID   int64
	nextMeetupID int64
}

func New() *Store {
	return &Store{
		users:   make(map[int64]models.User),
		files:   make(map[int64]models.File),
		meetups: make(map[int64]models.Meetup),
	}
}

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return errs.NewConflict("User already exists")
		}
	}

	s.nextUserID++
	user.ID = s.nextUserID
	s.users[user.ID] = *user
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, errs.NewNotFound("User")
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, errs.NewNotFound("User")
}

func (s *Store) UpdateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return errs.NewNotFound("User")
	}
	s.users[user.ID] = *user
	return nil
}

func (s *Store) CreateFile(_ context.Context, file *models.File) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextFileID++
	file.ID = s.nextFileID
	stored := *file
	stored.URL = ""
	s.files[file.ID] = stored
	return nil
}

func (s *Store) CreateMeetup(_ context.Context, meetup *models.Meetup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextMeetupID++
	meetup.ID = s.nextMeetupID
	s.meetups[meetup.ID] = detach(*meetup)
	return nil
}

func (s *Store) GetMeetupByID(_ context.Context, id int64) (*models.Meetup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.meetups[id]
	if !ok {
		return nil, errs.NewNotFound("Meetup")
	}
	return &m, nil
}

func (s *Store) UpdateMeetup(_ context.Context, meetup *models.Meetup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.meetups[meetup.ID]
	if !ok {
		return errs.NewNotFound("Meetup")
	}

	current.Title = meetup.Title
	current.Description = meetup.Description
	current.Location = meetup.Location
	current.ScheduledAt = meetup.ScheduledAt
	current.BannerID = meetup.BannerID
	current.UpdatedAt = meetup.UpdatedAt
	s.meetups[meetup.ID] = current
	return nil
}

func (s *Store) DeleteMeetup(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.meetups[id]; !ok {
		return errs.NewNotFound("Meetup")
	}
	delete(s.meetups, id)
	return nil
}

func (s *Store) ListMeetupsByOrganizer(_ context.Context, organizerID int64, limit, offset int) ([]models.Meetup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var owned []models.Meetup
	for _, m := range s.meetups {
		if m.OrganizerID == organizerID {
			owned = append(owned, m)
		}
	}

	sort.Slice(owned, func(i, j int) bool {
		if owned[i].ScheduledAt.Equal(owned[j].ScheduledAt) {
			return owned[i].ID < owned[j].ID
		}
		return owned[i].ScheduledAt.Before(owned[j].ScheduledAt)
	})

	if offset >= len(owned) {
		return []models.Meetup{}, nil
	}
	end := offset + limit
	if end > len(owned) {
		end = len(owned)
	}

	page := make([]models.Meetup, 0, end-offset)
	for _, m := range owned[offset:end] {
		if u, ok := s.users[m.OrganizerID]; ok {
			m.Organizer = &models.User{ID: u.ID, Name: u.Name}
		}
		if f, ok := s.files[m.BannerID]; ok {
			m.Banner = &models.File{ID: f.ID, Path: f.Path}
		}
		page = append(page, m)
	}
	return page, nil
}

func detach(m models.Meetup) models.Meetup {
	m.Organizer = nil
	m.Banner = nil
	return m
}
