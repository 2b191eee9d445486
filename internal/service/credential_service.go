package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/school-news-site/internal/metrics"
	"github.com/school-news-site/internal/models"
	"github.com/school-news-site/internal/notify"
	"github.com/school-news-site/internal/repository"
)

const maxRotateAttempts = 5

// credentialService is the concrete implementation of CredentialService
type credentialService struct {
	repo     repository.CredentialRepository
	notifier notify.Notifier
	gen      func() uint32
	log      zerolog.Logger
}

func newCredentialService(repo repository.CredentialRepository, notifier notify.Notifier, gen func() uint32, log zerolog.Logger) *credentialService {
	return &credentialService{
		repo:     repo,
		notifier: notifier,
		gen:      gen,
		log:      log.With().Str("service", "credential").Logger(),
	}
}

// Seed creates the credentials row with a random code if it does not exist
func (s *credentialService) Seed(ctx context.Context) (bool, error) {
	inserted, err := s.repo.Seed(ctx, s.gen())
	if err != nil {
		return false, fmt.Errorf("failed to seed credentials: %w", err)
	}
	if inserted {
		s.log.Info().Msg("Seeded publishing credentials")
	}
	return inserted, nil
}

// Verify reports whether code is the active code
func (s *credentialService) Verify(ctx context.Context, code uint32) (bool, error) {
	cred, err := s.get(ctx)
	if err != nil {
		return false, err
	}
	return cred.Code == code, nil
}

// Rotate replaces the active code and announces the new one. A publish that
// consumes the code first makes the swap miss, and the rotation starts over
// from the code the publish stored.
func (s *credentialService) Rotate(ctx context.Context) (uint32, error) {
	for attempt := 1; attempt <= maxRotateAttempts; attempt++ {
		cred, err := s.get(ctx)
		if err != nil {
			return 0, err
		}

		next := nextCode(s.gen, cred.Code)
		swapped, err := s.repo.SwapCode(ctx, cred.Code, next)
		if err != nil {
			return 0, fmt.Errorf("failed to store code: %w", err)
		}
		if !swapped {
			s.log.Debug().Int("attempt", attempt).Msg("Code changed during rotation, retrying")
			continue
		}

		metrics.CodeRotations.Inc()
		s.log.Info().Msg("Publishing code rotated")
		s.notifier.Notify(cred.HookURL, next)
		return next, nil
	}
	return 0, ErrRotateConflict
}

// Resend announces the active code again without changing it
func (s *credentialService) Resend(ctx context.Context) error {
	cred, err := s.get(ctx)
	if err != nil {
		return err
	}
	s.notifier.Notify(cred.HookURL, cred.Code)
	return nil
}

func (s *credentialService) CurrentCode(ctx context.Context) (uint32, error) {
	cred, err := s.get(ctx)
	if err != nil {
		return 0, err
	}
	return cred.Code, nil
}

func (s *credentialService) HookURL(ctx context.Context) (string, error) {
	cred, err := s.get(ctx)
	if err != nil {
		return "", err
	}
	return cred.HookURL, nil
}

func (s *credentialService) SetHookURL(ctx context.Context, url string) error {
	if _, err := s.get(ctx); err != nil {
		return err
	}
	if err := s.repo.SetHookURL(ctx, url); err != nil {
		return fmt.Errorf("failed to store hook url: %w", err)
	}
	s.log.Info().Bool("empty", url == "").Msg("Webhook url updated")
	return nil
}

// announce sends code to the stored webhook after a rotation done elsewhere
func (s *credentialService) announce(hookURL string, code uint32) {
	metrics.CodeRotations.Inc()
	s.notifier.Notify(hookURL, code)
}

func (s *credentialService) get(ctx context.Context) (*models.Credential, error) {
	cred, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	if cred == nil {
		return nil, ErrNotSeeded
	}
	return cred, nil
}
