package service

import (
	"context"
	"strings"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog"

	"github.com/opec-platform/opec-backend/internal/apperr"
	"github.com/opec-platform/opec-backend/internal/model"
)

// SubjectStore is satisfied by *repository.SubjectRepository.
type SubjectStore interface {
	List(ctx context.Context) ([]model.Subject, error)
	Upsert(ctx context.Context, s *model.Subject) error
}

type SubjectService struct {
	store SubjectStore
	log   zerolog.Logger
}

func NewSubjectService(store SubjectStore, log zerolog.Logger) *SubjectService {
	return &SubjectService{
		store: store,
		log:   log.With().Str("component", "subject_service").Logger(),
	}
}

func (s *SubjectService) List(ctx context.Context) ([]model.Subject, error) {
	return s.store.List(ctx)
}

// Seed upserts subjects by slug. Blank names are skipped.
func (s *SubjectService) Seed(ctx context.Context, names []string) ([]model.Subject, error) {
	seeded := make([]model.Subject, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		sub := model.Subject{Name: name, Slug: slug.Make(name)}
		if sub.Slug == "" {
			return nil, apperr.New(apperr.ErrValidation, "subject name has no sluggable characters: "+name)
		}
		if err := s.store.Upsert(ctx, &sub); err != nil {
			return nil, err
		}
		s.log.Info().Str("subject", sub.Name).Str("slug", sub.Slug).Msg("Subject seeded")
		seeded = append(seeded, sub)
	}
	return seeded, nil
}
