package usecase_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/larabeech/guestgate/internal/domain"
	"github.com/larabeech/guestgate/internal/repository"
	"github.com/larabeech/guestgate/internal/usecase"
)

func TestGuestCreate_RejectsUnknownAuthMethod(t *testing.T) {
	guests := &fakeGuestRepo{
		create: func(context.Context, repository.CreateGuestInput) (*domain.Guest, error) {
			t.Fatal("invalid method reached the store")
			return nil, nil
		},
	}

	_, err := usecase.NewGuestUsecase(guests, slog.Default()).
		Create(context.Background(), usecase.CreateGuestInput{
			GroupID:    "group-1",
			FirstName:  "Ada",
			AuthMethod: strPtr("password"),
		})
	if !errors.Is(err, domain.ErrInvalidAuthMethod) {
		t.Errorf("want ErrInvalidAuthMethod, got %v", err)
	}
}

func TestGuestCreate_NilMethodInheritsDefault(t *testing.T) {
	var captured repository.CreateGuestInput
	guests := &fakeGuestRepo{
		create: func(_ context.Context, in repository.CreateGuestInput) (*domain.Guest, error) {
			captured = in
			return &domain.Guest{ID: "guest-1", GroupID: in.GroupID}, nil
		},
	}

	_, err := usecase.NewGuestUsecase(guests, slog.Default()).
		Create(context.Background(), usecase.CreateGuestInput{
			GroupID:   "group-1",
			FirstName: "Ada",
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.AuthMethod != nil {
		t.Errorf("auth method = %v, want nil (inherit default)", *captured.AuthMethod)
	}
}

func TestGuestUpdate_PassesMethodThrough(t *testing.T) {
	var captured repository.UpdateGuestInput
	guests := &fakeGuestRepo{
		update: func(_ context.Context, id string, in repository.UpdateGuestInput) (*domain.Guest, error) {
			captured = in
			return &domain.Guest{ID: id}, nil
		},
	}

	_, err := usecase.NewGuestUsecase(guests, slog.Default()).
		Update(context.Background(), "guest-1", usecase.UpdateGuestInput{
			AuthMethod: strPtr("magic_link"),
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.AuthMethod == nil || *captured.AuthMethod != domain.AuthMethodMagicLink {
		t.Errorf("auth method = %v, want magic_link", captured.AuthMethod)
	}
}

func TestGuestDelete_PropagatesNotFound(t *testing.T) {
	guests := &fakeGuestRepo{
		delete: func(context.Context, string) error { return domain.ErrGuestNotFound },
	}

	err := usecase.NewGuestUsecase(guests, slog.Default()).
		Delete(context.Background(), "missing")
	if !errors.Is(err, domain.ErrGuestNotFound) {
		t.Errorf("want ErrGuestNotFound, got %v", err)
	}
}
