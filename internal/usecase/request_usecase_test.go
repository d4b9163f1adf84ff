package usecase

import (
	"context"
	"errors"
	"testing"

	"helperhub/internal/domain/profile"
	"helperhub/internal/domain/request"
	"helperhub/internal/domain/user"

	"github.com/google/uuid"
)

type ledgerFixture struct {
	ledger   *RequestLedger
	requests *memRequests
	notes    *recordingNotifier
	profiles *memProfiles
	employer user.Identity
	seeker   profile.Profile
}

func newLedgerFixture() ledgerFixture {
	employer := user.Identity{ID: uuid.New(), Email: "boss@example.com"}
	seeker := seekerProfile("Ana", "cook", "maid")
	roles := fakeRoles{roles: map[uuid.UUID][]user.Role{
		employer.ID:   {user.RoleEmployer},
		seeker.UserID: {user.RoleJobSeeker},
	}}
	profiles := newMemProfiles(seeker)
	requests := &memRequests{}
	notes := &recordingNotifier{}
	sessions := NewSessionResolver(roles, profiles, nil)

	return ledgerFixture{
		ledger:   NewRequestLedger(requests, profiles, sessions, notes, nil),
		requests: requests,
		notes:    notes,
		profiles: profiles,
		employer: employer,
		seeker:   seeker,
	}
}

func TestRequestLedger_SubmitTwiceCreatesTwoRecords(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	a, err := f.ledger.Submit(ctx, f.employer, f.seeker.UserID, "house")
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	b, err := f.ledger.Submit(ctx, f.employer, f.seeker.UserID, "house")
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if a.ID == b.ID {
		t.Fatalf("expected distinct ids")
	}
	if len(f.requests.items) != 2 {
		t.Fatalf("expected 2 records, got %d", len(f.requests.items))
	}
	for _, r := range f.requests.items {
		if r.Status != request.StatusPending || r.EmployerID != f.employer.ID || r.JobSeekerID != f.seeker.UserID {
			t.Fatalf("unexpected record %+v", r)
		}
	}
	if a.JobSeeker.Name != "Ana Doe" || len(a.JobSeeker.Categories) != 2 {
		t.Fatalf("unexpected job seeker snapshot %+v", a.JobSeeker)
	}
	if len(f.notes.events) != 2 || f.notes.events[0].Type != request.EventCreated || f.notes.events[0].Recipient() != f.seeker.UserID {
		t.Fatalf("unexpected notifications %+v", f.notes.events)
	}
}

func TestRequestLedger_SubmitSnapshotFallbacks(t *testing.T) {
	f := newLedgerFixture()
	sr, err := f.ledger.Submit(context.Background(), f.employer, f.seeker.UserID, "short-term")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sr.Employer.Name != "Employer" || sr.Employer.Phone != "Not provided" || sr.Employer.Email != "boss@example.com" {
		t.Fatalf("unexpected employer snapshot %+v", sr.Employer)
	}
}

func TestRequestLedger_SubmitUsesEmployerProfile(t *testing.T) {
	f := newLedgerFixture()
	f.profiles.items[f.employer.ID] = profile.Profile{
		UserID:    f.employer.ID,
		FirstName: "Maya",
		LastName:  "Patel",
		Phone:     "555-0101",
		Role:      user.RoleEmployer,
	}

	sr, err := f.ledger.Submit(context.Background(), f.employer, f.seeker.UserID, "business")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sr.Employer.Name != "Maya Patel" || sr.Employer.Phone != "555-0101" || sr.Employer.Email != "boss@example.com" {
		t.Fatalf("expected profile snapshot, got %+v", sr.Employer)
	}
}

func TestRequestLedger_SubmitRejections(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	if _, err := f.ledger.Submit(ctx, user.Identity{ID: f.seeker.UserID}, f.seeker.UserID, "house"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("job seeker submit: expected ErrForbidden, got %v", err)
	}
	if _, err := f.ledger.Submit(ctx, f.employer, uuid.New(), "house"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown provider: expected ErrNotFound, got %v", err)
	}
	if _, err := f.ledger.Submit(ctx, f.employer, f.seeker.UserID, "office"); !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("bad service type: expected ErrValidationFailed, got %v", err)
	}
	if len(f.requests.items) != 0 {
		t.Fatalf("rejected submissions must not store records")
	}
}

func TestRequestLedger_RespondOnce(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()
	seekerID := user.Identity{ID: f.seeker.UserID}

	sr, err := f.ledger.Submit(ctx, f.employer, f.seeker.UserID, "house")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := f.ledger.Respond(ctx, f.employer, sr.ID, "accept"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("employer respond: expected ErrForbidden, got %v", err)
	}

	got, err := f.ledger.Respond(ctx, seekerID, sr.ID, "accept")
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if got.Status != request.StatusAccepted || got.RespondedAt == nil {
		t.Fatalf("unexpected result %+v", got)
	}

	for _, d := range []string{"accept", "decline"} {
		if _, err := f.ledger.Respond(ctx, seekerID, sr.ID, d); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("second %s: expected ErrInvalidTransition, got %v", d, err)
		}
	}
	stored, _ := f.requests.GetByID(ctx, sr.ID)
	if stored.Status != request.StatusAccepted {
		t.Fatalf("state must be unchanged, got %s", stored.Status)
	}

	last := f.notes.events[len(f.notes.events)-1]
	if last.Type != request.EventResponded || last.Recipient() != f.employer.ID {
		t.Fatalf("unexpected notification %+v", last)
	}
}

func TestRequestLedger_RespondLosesRace(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()
	sr, err := f.ledger.Submit(ctx, f.employer, f.seeker.UserID, "house")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	f.requests.forceStale = true

	if _, err := f.ledger.Respond(ctx, user.Identity{ID: f.seeker.UserID}, sr.ID, "decline"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestRequestLedger_RespondValidation(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()
	if _, err := f.ledger.Respond(ctx, user.Identity{ID: f.seeker.UserID}, uuid.New(), "accept"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := f.ledger.Respond(ctx, user.Identity{ID: f.seeker.UserID}, uuid.New(), "maybe"); !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}
}

func TestRequestLedger_ListForFiltersByUser(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	if _, err := f.ledger.Submit(ctx, f.employer, f.seeker.UserID, "house"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	for i := 0; i < 3; i++ {
		other := request.New(uuid.New(), uuid.New(), "house", request.EmployerSnapshot{}, request.JobSeekerSnapshot{}, f.ledger.now())
		_ = f.requests.Create(ctx, other)
	}

	got, err := f.ledger.ListFor(ctx, f.seeker.UserID, user.RoleJobSeeker)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].JobSeekerID != f.seeker.UserID {
		t.Fatalf("expected only the seeker's request, got %+v", got)
	}

	got, err = f.ledger.ListFor(ctx, f.employer.ID, user.RoleEmployer)
	if err != nil || len(got) != 1 || got[0].EmployerID != f.employer.ID {
		t.Fatalf("expected only the employer's request, got %+v %v", got, err)
	}

	mine, role, err := f.ledger.ListMine(ctx, user.Identity{ID: f.seeker.UserID})
	if err != nil || role != user.RoleJobSeeker || len(mine) != 1 {
		t.Fatalf("ListMine = %d %s %v", len(mine), role, err)
	}
}
