package mock

import (
	"context"

	"github.com/websift/websift"
)

var _ websift.ProfileService = (*ProfileService)(nil)

// ProfileService is a mock implementation of websift.ProfileService.
type ProfileService struct {
	SaveProfileFn         func(ctx context.Context, profile *websift.SiteProfile) error
	FindProfileByIDFn     func(ctx context.Context, id string) (*websift.SiteProfile, error)
	FindProfileByDomainFn func(ctx context.Context, domain string) (*websift.SiteProfile, error)
	FindProfilesFn        func(ctx context.Context, filter websift.ProfileFilter) ([]*websift.SiteProfile, error)
	DeleteProfileFn       func(ctx context.Context, id string) error
	DeleteProfilesFn      func(ctx context.Context) error
	TouchProfileFn        func(ctx context.Context, id string) error
	StatsFn               func(ctx context.Context) (*websift.ProfileStats, error)
}

func (s *ProfileService) SaveProfile(ctx context.Context, profile *websift.SiteProfile) error {
	return s.SaveProfileFn(ctx, profile)
}

func (s *ProfileService) FindProfileByID(ctx context.Context, id string) (*websift.SiteProfile, error) {
	return s.FindProfileByIDFn(ctx, id)
}

func (s *ProfileService) FindProfileByDomain(ctx context.Context, domain string) (*websift.SiteProfile, error) {
	return s.FindProfileByDomainFn(ctx, domain)
}

func (s *ProfileService) FindProfiles(ctx context.Context, filter websift.ProfileFilter) ([]*websift.SiteProfile, error) {
	return s.FindProfilesFn(ctx, filter)
}

func (s *ProfileService) DeleteProfile(ctx context.Context, id string) error {
	return s.DeleteProfileFn(ctx, id)
}

func (s *ProfileService) DeleteProfiles(ctx context.Context) error {
	return s.DeleteProfilesFn(ctx)
}

func (s *ProfileService) TouchProfile(ctx context.Context, id string) error {
	return s.TouchProfileFn(ctx, id)
}

func (s *ProfileService) Stats(ctx context.Context) (*websift.ProfileStats, error) {
	return s.StatsFn(ctx)
}
