package mock

import (
	"context"

	"github.com/websift/websift"
)

var _ websift.SessionService = (*SessionService)(nil)

// SessionService is a mock implementation of websift.SessionService.
type SessionService struct {
	SaveSessionFn     func(ctx context.Context, session *websift.ScrapingSession) error
	FindSessionByIDFn func(ctx context.Context, id string) (*websift.ScrapingSession, error)
	FindSessionsFn    func(ctx context.Context, filter websift.SessionFilter) ([]*websift.ScrapingSession, error)
	DeleteSessionsFn  func(ctx context.Context) error
}

func (s *SessionService) SaveSession(ctx context.Context, session *websift.ScrapingSession) error {
	return s.SaveSessionFn(ctx, session)
}

func (s *SessionService) FindSessionByID(ctx context.Context, id string) (*websift.ScrapingSession, error) {
	return s.FindSessionByIDFn(ctx, id)
}

func (s *SessionService) FindSessions(ctx context.Context, filter websift.SessionFilter) ([]*websift.ScrapingSession, error) {
	return s.FindSessionsFn(ctx, filter)
}

func (s *SessionService) DeleteSessions(ctx context.Context) error {
	return s.DeleteSessionsFn(ctx)
}
