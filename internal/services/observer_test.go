package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"lovespace-backend/internal/models"
)

type snapshotRecorder struct {
	mu        sync.Mutex
	snapshots []CoupleSnapshot
}

func (r *snapshotRecorder) record(s CoupleSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, s)
}

func (r *snapshotRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snapshots)
}

func (r *snapshotRecorder) last() (CoupleSnapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snapshots) == 0 {
		return CoupleSnapshot{}, false
	}
	return r.snapshots[len(r.snapshots)-1], true
}

func (r *snapshotRecorder) anyOperationLoading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.snapshots {
		if s.OperationLoading {
			return true
		}
	}
	return false
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func newObserverFixture(t *testing.T) (*memCoupleStore, *memProfileStore, *CoupleObserver, *snapshotRecorder) {
	t.Helper()
	couples := newMemCoupleStore()
	profiles := newMemProfileStore()
	avatars := newMemAvatarStore()

	coupleSvc := newTestCoupleService(couples, profiles, avatars, &memPetStore{}, &memSpaceStore{}, nil, testTime)
	avatarSvc := NewAvatarService(avatars)

	recorder := &snapshotRecorder{}
	observer := NewCoupleObserver(coupleSvc, avatarSvc, 20*time.Millisecond, recorder.record)
	t.Cleanup(observer.Stop)
	return couples, profiles, observer, recorder
}

func TestObserverBootstrapEmptyState(t *testing.T) {
	_, _, observer, recorder := newObserverFixture(t)

	observer.Start("user-1")
	waitFor(t, "bootstrap snapshot", func() bool { return recorder.count() >= 1 })

	snapshot, _ := recorder.last()
	if snapshot.Loading {
		t.Fatal("expected loading cleared after bootstrap")
	}
	if snapshot.Couple != nil || snapshot.Partner != nil {
		t.Fatalf("expected empty state, got %+v", snapshot)
	}
}

func TestObserverDetectsPendingThenActive(t *testing.T) {
	couples, profiles, observer, recorder := newObserverFixture(t)
	profiles.Upsert(context.Background(), &models.UserProfile{ID: "user-2", Username: "bob", Email: "bob@example.com"})

	observer.Start("user-1")
	waitFor(t, "bootstrap snapshot", func() bool { return recorder.count() >= 1 })

	// Another device creates the invitation.
	couples.put(pendingCouple("couple-1", "user-1", "AB12CD", testTime))
	waitFor(t, "pending couple observed", func() bool {
		s, ok := recorder.last()
		return ok && s.Couple != nil && s.Couple.Status == models.CoupleStatusPending
	})

	// The partner joins externally.
	if _, err := couples.Activate(context.Background(), "couple-1", "user-2", testTime, testTime); err != nil {
		t.Fatalf("activate: %v", err)
	}
	waitFor(t, "active couple with partner observed", func() bool {
		s, ok := recorder.last()
		return ok && s.Couple != nil && s.Couple.Status == models.CoupleStatusActive &&
			s.Partner != nil && s.Partner.ID == "user-2"
	})
}

func TestObserverDiscardsUnchangedPolls(t *testing.T) {
	couples, _, observer, recorder := newObserverFixture(t)
	couples.put(pendingCouple("couple-1", "user-1", "AB12CD", testTime))

	observer.Start("user-1")
	waitFor(t, "bootstrap snapshot", func() bool { return recorder.count() >= 1 })
	baseline := recorder.count()

	// Several poll intervals with an unchanged status: no notifications.
	time.Sleep(150 * time.Millisecond)
	if got := recorder.count(); got != baseline {
		t.Fatalf("expected no redundant snapshots, got %d extra", got-baseline)
	}
}

func TestObserverStopClearsStateAndSilences(t *testing.T) {
	couples, _, observer, recorder := newObserverFixture(t)

	observer.Start("user-1")
	waitFor(t, "bootstrap snapshot", func() bool { return recorder.count() >= 1 })

	observer.Stop()
	baseline := recorder.count()

	// External change after teardown must not surface.
	couples.put(pendingCouple("couple-1", "user-1", "AB12CD", testTime))
	time.Sleep(150 * time.Millisecond)

	if got := recorder.count(); got != baseline {
		t.Fatalf("expected no snapshots after Stop, got %d extra", got-baseline)
	}
	snapshot := observer.Snapshot()
	if snapshot.Couple != nil || snapshot.Partner != nil || snapshot.MyAvatar != nil {
		t.Fatalf("expected cleared state, got %+v", snapshot)
	}
	if observer.UserID() != "" {
		t.Fatalf("expected cleared user, got %q", observer.UserID())
	}
}

func TestObserverRestartResetsForNewUser(t *testing.T) {
	couples, _, observer, recorder := newObserverFixture(t)
	couples.put(pendingCouple("couple-1", "user-1", "AB12CD", testTime))

	observer.Start("user-1")
	waitFor(t, "user-1 couple observed", func() bool {
		s, ok := recorder.last()
		return ok && s.Couple != nil
	})

	observer.Start("user-9")
	waitFor(t, "user-9 empty state", func() bool {
		s, ok := recorder.last()
		return ok && s.Couple == nil && !s.Loading && observer.UserID() == "user-9"
	})
}

func TestObserverOperationLoadingClearedOnError(t *testing.T) {
	_, _, observer, recorder := newObserverFixture(t)

	observer.Start("user-1")
	waitFor(t, "bootstrap snapshot", func() bool { return recorder.count() >= 1 })

	_, err := observer.JoinCouple(context.Background(), "ZZZZZZ")
	if !errors.Is(err, ErrInvalidOrExpiredCode) {
		t.Fatalf("expected ErrInvalidOrExpiredCode, got %v", err)
	}

	if !recorder.anyOperationLoading() {
		t.Fatal("expected an operation-loading snapshot during the call")
	}
	if observer.Snapshot().OperationLoading {
		t.Fatal("expected operation loading cleared after the error")
	}
}

func TestObserverCreateInvitationUpdatesState(t *testing.T) {
	_, _, observer, _ := newObserverFixture(t)

	observer.Start("user-1")
	waitFor(t, "bootstrap snapshot", func() bool { return observer.UserID() == "user-1" && !observer.Snapshot().Loading })

	couple, err := observer.CreateInvitation(context.Background())
	if err != nil {
		t.Fatalf("create invitation: %v", err)
	}
	if couple.InviteCode == "" {
		t.Fatal("expected invite code on created invitation")
	}

	snapshot := observer.Snapshot()
	if snapshot.Couple == nil || snapshot.Couple.ID != couple.ID {
		t.Fatalf("expected held couple %q, got %+v", couple.ID, snapshot.Couple)
	}
	if snapshot.OperationLoading {
		t.Fatal("expected operation loading cleared")
	}
}

func TestObserverJoinLoadsPartner(t *testing.T) {
	couples, profiles, observer, _ := newObserverFixture(t)
	couples.put(pendingCouple("couple-1", "user-1", "AB12CD", testTime))
	profiles.Upsert(context.Background(), &models.UserProfile{ID: "user-1", Username: "alice", Email: "alice@example.com"})

	observer.Start("user-2")
	waitFor(t, "bootstrap snapshot", func() bool { return observer.UserID() == "user-2" && !observer.Snapshot().Loading })

	couple, err := observer.JoinCouple(context.Background(), "ab12cd")
	if err != nil {
		t.Fatalf("join couple: %v", err)
	}
	if couple.Status != models.CoupleStatusActive {
		t.Fatalf("expected active couple, got %q", couple.Status)
	}

	snapshot := observer.Snapshot()
	if snapshot.Partner == nil || snapshot.Partner.ID != "user-1" {
		t.Fatalf("expected partner alice, got %+v", snapshot.Partner)
	}
}
