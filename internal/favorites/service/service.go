// Package service implements the favorites list: a per-device collection of
// saved games identified by the (name, platform) pair.
package service

import (
	"context"
	"sync"

	"retrocodex_backend/internal/events"
	"retrocodex_backend/internal/favorites/repository"
	"retrocodex_backend/internal/games/domain"
	"retrocodex_backend/platform/logger"
)

// Service manages a device's favorites with toggle semantics.
type Service struct {
	repo repository.Repository
	bus  events.Bus
	log  *logger.Logger

	// The store is a whole-list read-modify-write; the mutex serializes
	// mutations so concurrent toggles cannot lose each other's writes.
	mu sync.Mutex
}

// New creates the favorites service.
func New(repo repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo: repo,
		bus:  bus,
		log:  log,
	}
}

// matches reports whether a stored favorite is the same game as the given
// identity. Platform matters: the same title on two platforms is two
// distinct favorites.
func matches(fav domain.GameDetail, name, platform string) bool {
	return fav.Name == name && fav.Platform == platform
}

// List returns the device's favorites in insertion order.
func (s *Service) List(ctx context.Context, deviceID string) ([]domain.GameDetail, error) {
	return s.repo.List(ctx, deviceID)
}

// Toggle adds the game to the device's favorites, or removes it if an entry
// with the same (name, platform) identity already exists. It returns whether
// the game ended up favorited and the resulting list.
func (s *Service) Toggle(ctx context.Context, deviceID string, game domain.GameDetail) (bool, []domain.GameDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	favorites, err := s.repo.List(ctx, deviceID)
	if err != nil {
		return false, nil, err
	}

	added := true
	next := make([]domain.GameDetail, 0, len(favorites)+1)
	for _, fav := range favorites {
		if matches(fav, game.Name, game.Platform) {
			added = false
			continue
		}
		next = append(next, fav)
	}
	if added {
		next = append(next, game)
	}

	if err := s.repo.Save(ctx, deviceID, next); err != nil {
		return false, nil, err
	}

	s.bus.Publish(ctx, events.FavoriteToggled{
		BaseEvent: events.NewBaseEvent(),
		DeviceID:  deviceID,
		Name:      game.Name,
		Platform:  game.Platform,
		Added:     added,
	})

	return added, next, nil
}

// Remove deletes the favorite with the given identity, if present. Removing
// a game that is not favorited is a no-op, not an error.
func (s *Service) Remove(ctx context.Context, deviceID, name, platform string) ([]domain.GameDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	favorites, err := s.repo.List(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	removed := false
	next := make([]domain.GameDetail, 0, len(favorites))
	for _, fav := range favorites {
		if matches(fav, name, platform) {
			removed = true
			continue
		}
		next = append(next, fav)
	}
	if !removed {
		return favorites, nil
	}

	if err := s.repo.Save(ctx, deviceID, next); err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.FavoriteToggled{
		BaseEvent: events.NewBaseEvent(),
		DeviceID:  deviceID,
		Name:      name,
		Platform:  platform,
		Added:     false,
	})

	return next, nil
}

// IsFavorite reports whether the given identity is in the device's list.
func (s *Service) IsFavorite(ctx context.Context, deviceID, name, platform string) (bool, error) {
	favorites, err := s.repo.List(ctx, deviceID)
	if err != nil {
		return false, err
	}
	for _, fav := range favorites {
		if matches(fav, name, platform) {
			return true, nil
		}
	}
	return false, nil
}
