package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/larabeech/guestgate/internal/domain"
	"github.com/larabeech/guestgate/internal/repository"
)

// GuestUsecase covers the administrative guest operations this service
// needs: creating records that authentication can match against, and
// the mutations that affect how a guest logs in. Deleting a guest
// cascades to every token and session they own.
type GuestUsecase struct {
	guests repository.GuestRepository
	logger *slog.Logger
}

func NewGuestUsecase(guests repository.GuestRepository, logger *slog.Logger) *GuestUsecase {
	return &GuestUsecase{guests: guests, logger: logger.With("component", "guest_usecase")}
}

type CreateGuestInput struct {
	GroupID    string
	FirstName  string
	LastName   string
	Email      *string
	AuthMethod *string
}

type UpdateGuestInput struct {
	FirstName  *string
	LastName   *string
	Email      *string
	AuthMethod *string
}

func (u *GuestUsecase) Create(ctx context.Context, in CreateGuestInput) (*domain.Guest, error) {
	method, err := parseAuthMethod(in.AuthMethod)
	if err != nil {
		return nil, err
	}

	guest, err := u.guests.Create(ctx, repository.CreateGuestInput{
		GroupID:    in.GroupID,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      in.Email,
		AuthMethod: method,
	})
	if err != nil {
		return nil, fmt.Errorf("create guest: %w", err)
	}
	return guest, nil
}

func (u *GuestUsecase) Update(ctx context.Context, id string, in UpdateGuestInput) (*domain.Guest, error) {
	method, err := parseAuthMethod(in.AuthMethod)
	if err != nil {
		return nil, err
	}

	guest, err := u.guests.Update(ctx, id, repository.UpdateGuestInput{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      in.Email,
		AuthMethod: method,
	})
	if err != nil {
		return nil, fmt.Errorf("update guest: %w", err)
	}
	return guest, nil
}

func (u *GuestUsecase) Delete(ctx context.Context, id string) error {
	if err := u.guests.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete guest: %w", err)
	}
	u.logger.InfoContext(ctx, "guest deleted, tokens and sessions cascaded", "guest_id", id)
	return nil
}

func (u *GuestUsecase) GetByID(ctx context.Context, id string) (*domain.Guest, error) {
	return u.guests.FindByID(ctx, id)
}

// parseAuthMethod rejects anything outside the two-value enum. A nil
// input means "inherit the system default" and passes through.
func parseAuthMethod(raw *string) (*domain.AuthMethod, error) {
	if raw == nil {
		return nil, nil
	}
	method := domain.AuthMethod(*raw)
	if !method.Valid() {
		return nil, domain.ErrInvalidAuthMethod
	}
	return &method, nil
}
