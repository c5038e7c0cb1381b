package service

import (
	"context"
	"log/slog"

	"floodalert/internal/modules/contacts/repository"
	"floodalert/internal/modules/contacts/types"
)

const (
	msgLoading = "Fetching contacts..."
	msgFailed  = "Failed to load contacts."
)

type Service struct {
	repository repository.ContactsRepository
}

func NewService(repository repository.ContactsRepository) *Service {
	return &Service{repository: repository}
}

// Fetch streams Loading, then exactly one Success or Failure, then closes.
// The channel is buffered for both states so a reader that stops early never
// blocks the loader.
func (s *Service) Fetch(ctx context.Context) <-chan types.State {
	out := make(chan types.State, 2)
	out <- types.Loading{Message: msgLoading}
	go func() {
		defer close(out)
		contacts, err := s.repository.ListContacts(ctx)
		if err != nil {
			slog.Error("load contacts failed", "error", err)
			out <- types.Failure{Message: msgFailed, Err: err}
			return
		}
		out <- types.Success{Contacts: contacts}
	}()
	return out
}

// Load waits for the final state of Fetch.
func (s *Service) Load(ctx context.Context) types.State {
	var last types.State
	for st := range s.Fetch(ctx) {
		last = st
	}
	return last
}
