// seed inserts a guest group covering both auth methods into the
// local dev database. Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/larabeech/guestgate/internal/domain"
	"github.com/larabeech/guestgate/internal/infrastructure/postgres"
	"github.com/larabeech/guestgate/internal/repository"
)

type guestSpec struct {
	firstName string
	lastName  string
	email     string
	method    *domain.AuthMethod
}

func ptr(m domain.AuthMethod) *domain.AuthMethod { return &m }

var guests = []guestSpec{
	// Explicit email matching
	{"Ada", "Marsh", "ada@test.local", ptr(domain.AuthMethodEmailMatching)},
	{"Ben", "Marsh", "ben@test.local", ptr(domain.AuthMethodEmailMatching)},

	// Explicit magic link
	{"Cleo", "Tan", "cleo@test.local", ptr(domain.AuthMethodMagicLink)},
	{"Dev", "Tan", "dev@test.local", ptr(domain.AuthMethodMagicLink)},

	// No explicit method; inherits the system default
	{"Esme", "Ortiz", "esme@test.local", nil},
	{"Finn", "Ortiz", "finn@test.local", nil},
}

func main() {
	ctx := context.Background()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	repo := postgres.NewGuestRepository(pool)
	groupID := uuid.NewString()

	for _, spec := range guests {
		email := spec.email
		g, err := repo.Create(ctx, repository.CreateGuestInput{
			GroupID:    groupID,
			FirstName:  spec.firstName,
			LastName:   spec.lastName,
			Email:      &email,
			AuthMethod: spec.method,
		})
		if err != nil {
			log.Fatalf("seed guest %s: %v", spec.email, err)
		}
		fmt.Printf("seeded guest %s (%s)\n", g.ID, spec.email)
	}

	fmt.Printf("done: group %s with %d guests\n", groupID, len(guests))
}
