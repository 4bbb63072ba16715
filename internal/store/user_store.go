package store

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskboard/internal/model"
)

func (s *Store) CreateUser(u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usersByEmail[u.Email]; ok {
		return ErrEmailTaken
	}

	cp := *u
	s.users[u.ID] = &cp
	s.usersByEmail[u.Email] = u.ID

	s.logger.Info("User created",
		zap.String("user_id", u.ID.String()),
		zap.String("email", u.Email),
	)
	return nil
}

func (s *Store) GetUser(id uuid.UUID) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return *u, nil
}

func (s *Store) GetUserByEmail(email string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByEmail[email]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return *s.users[id], nil
}
