package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/opec-platform/opec-backend/internal/config"
	"github.com/opec-platform/opec-backend/internal/database"
	"github.com/opec-platform/opec-backend/internal/logger"
	"github.com/opec-platform/opec-backend/internal/repository"
	"github.com/opec-platform/opec-backend/internal/service"
)

var defaultSubjects = []string{
	"Mathematics",
	"Physics",
	"Chemistry",
	"Biology",
	"Computer Science",
	"History",
	"Literature",
	"Economics",
}

// Usage: seed-subjects [name ...]
// With no arguments the default catalog is seeded. Existing slugs are updated in place.
func main() {
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	subjectService := service.NewSubjectService(repository.NewSubjectRepository(pool), log)

	names := flag.Args()
	if len(names) == 0 {
		names = defaultSubjects
	}

	fmt.Printf("=== Seeding %d Subjects ===\n", len(names))

	seeded, err := subjectService.Seed(ctx, names)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed subjects")
	}

	for _, s := range seeded {
		fmt.Printf("  %-4d %-24s %s\n", s.ID, s.Name, s.Slug)
	}
	fmt.Println("Done.")
}
