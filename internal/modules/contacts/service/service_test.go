package service

import (
	"context"
	"errors"
	"testing"

	"floodalert/internal/modules/contacts/types"
)

type mockRepo struct {
	contacts []types.Contact
	err      error
}

func (m *mockRepo) ListContacts(context.Context) ([]types.Contact, error) {
	return m.contacts, m.err
}

func collect(ch <-chan types.State) []types.State {
	var out []types.State
	for st := range ch {
		out = append(out, st)
	}
	return out
}

func TestFetch_Success(t *testing.T) {
	svc := NewService(&mockRepo{contacts: []types.Contact{{Name: "Police", Number: "100"}}})

	states := collect(svc.Fetch(context.Background()))
	if len(states) != 2 {
		t.Fatalf("states = %d; want 2", len(states))
	}
	loading, ok := states[0].(types.Loading)
	if !ok || loading.Message != "Fetching contacts..." {
		t.Errorf("states[0] = %#v; want Loading", states[0])
	}
	success, ok := states[1].(types.Success)
	if !ok || len(success.Contacts) != 1 || success.Contacts[0].Number != "100" {
		t.Errorf("states[1] = %#v; want Success", states[1])
	}
}

func TestFetch_Failure(t *testing.T) {
	boom := errors.New("disk gone")
	svc := NewService(&mockRepo{err: boom})

	states := collect(svc.Fetch(context.Background()))
	if len(states) != 2 {
		t.Fatalf("states = %d; want 2", len(states))
	}
	if _, ok := states[0].(types.Loading); !ok {
		t.Errorf("states[0] = %#v; want Loading", states[0])
	}
	failure, ok := states[1].(types.Failure)
	if !ok || failure.Message != "Failed to load contacts." || !errors.Is(failure.Err, boom) {
		t.Errorf("states[1] = %#v; want Failure", states[1])
	}
}

func TestLoad(t *testing.T) {
	svc := NewService(&mockRepo{contacts: []types.Contact{}})
	if _, ok := svc.Load(context.Background()).(types.Success); !ok {
		t.Error("Load() did not end in Success")
	}
}
