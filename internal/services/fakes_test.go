package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"lovespace-backend/internal/models"
)

// memCoupleStore is an in-memory CoupleStore with the same conditional-write
// semantics as the Postgres repository, so redemption races behave the same
// way in tests.
type memCoupleStore struct {
	mu      sync.Mutex
	couples map[string]*models.Couple

	createErr     error
	getCurrentErr error
	createCalls   int
}

func newMemCoupleStore() *memCoupleStore {
	return &memCoupleStore{couples: make(map[string]*models.Couple)}
}

func (s *memCoupleStore) put(c *models.Couple) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *c
	s.couples[c.ID] = &clone
}

func (s *memCoupleStore) get(id string) *models.Couple {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.couples[id]; ok {
		clone := *c
		return &clone
	}
	return nil
}

func (s *memCoupleStore) Create(ctx context.Context, couple *models.Couple) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++
	clone := *couple
	s.couples[couple.ID] = &clone
	return nil
}

func (s *memCoupleStore) GetCurrentByUser(ctx context.Context, userID string) (*models.Couple, error) {
	if s.getCurrentErr != nil {
		return nil, s.getCurrentErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var matches []*models.Couple
	for _, c := range s.couples {
		if c.Status == models.CoupleStatusEnded {
			continue
		}
		if c.User1ID == userID || c.User2ID == userID {
			matches = append(matches, c)
		}
	}
	if len(matches) == 0 {
		return nil, nil
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	clone := *matches[0]
	return &clone, nil
}

func (s *memCoupleStore) GetPendingByCode(ctx context.Context, code string) (*models.Couple, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.couples {
		if c.InviteCode == code && c.Status == models.CoupleStatusPending {
			clone := *c
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *memCoupleStore) Activate(ctx context.Context, coupleID, user2ID string, relationshipStart, now time.Time) (*models.Couple, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.couples[coupleID]
	if !ok || c.Status != models.CoupleStatusPending {
		return nil, nil
	}
	c.User2ID = user2ID
	c.Status = models.CoupleStatusActive
	start := relationshipStart
	c.RelationshipStart = &start
	c.UpdatedAt = now
	clone := *c
	return &clone, nil
}

func (s *memCoupleStore) CodeInUse(ctx context.Context, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.couples {
		if c.InviteCode == code && c.Status == models.CoupleStatusPending {
			return true, nil
		}
	}
	return false, nil
}

type memProfileStore struct {
	mu       sync.Mutex
	profiles map[string]*models.UserProfile
	getErr   error
}

func newMemProfileStore() *memProfileStore {
	return &memProfileStore{profiles: make(map[string]*models.UserProfile)}
}

func (s *memProfileStore) Upsert(ctx context.Context, profile *models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *profile
	s.profiles[profile.ID] = &clone
	return nil
}

func (s *memProfileStore) GetByID(ctx context.Context, id string) (*models.UserProfile, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.profiles[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, nil
}

func (s *memProfileStore) UpdatePushToken(ctx context.Context, userID string, pushToken *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.profiles[userID]; ok {
		p.PushToken = pushToken
	}
	return nil
}

type memAvatarStore struct {
	mu      sync.Mutex
	avatars map[string]*models.Avatar
	getErr  error
}

func newMemAvatarStore() *memAvatarStore {
	return &memAvatarStore{avatars: make(map[string]*models.Avatar)}
}

func (s *memAvatarStore) GetByUserID(ctx context.Context, userID string) (*models.Avatar, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.avatars[userID]; ok {
		clone := *a
		return &clone, nil
	}
	return nil, nil
}

func (s *memAvatarStore) Upsert(ctx context.Context, id, userID string, data models.AvatarData, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.avatars[userID]; ok {
		a.Data = data
		a.UpdatedAt = now
		return nil
	}
	s.avatars[userID] = &models.Avatar{
		ID: id, UserID: userID, Data: data, CreatedAt: now, UpdatedAt: now,
	}
	return nil
}

type memPetStore struct {
	mu        sync.Mutex
	pets      []*models.Pet
	createErr error
}

func (s *memPetStore) Create(ctx context.Context, pet *models.Pet) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *pet
	s.pets = append(s.pets, &clone)
	return nil
}

func (s *memPetStore) GetByCoupleID(ctx context.Context, coupleID string) (*models.Pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.pets {
		if p.CoupleID == coupleID {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

type memSpaceStore struct {
	mu        sync.Mutex
	spaces    []*models.VirtualSpace
	createErr error
}

func (s *memSpaceStore) Create(ctx context.Context, space *models.VirtualSpace) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *space
	s.spaces = append(s.spaces, &clone)
	return nil
}

func (s *memSpaceStore) GetByCoupleID(ctx context.Context, coupleID string) (*models.VirtualSpace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sp := range s.spaces {
		if sp.CoupleID == coupleID {
			clone := *sp
			return &clone, nil
		}
	}
	return nil, nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	tokens []string
}

func (n *fakeNotifier) PartnerJoined(ctx context.Context, deviceToken string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.tokens = append(n.tokens, deviceToken)
	return nil
}

type memCurrencyStore struct {
	mu   sync.Mutex
	rows map[string]*models.UserCurrency
}

func newMemCurrencyStore() *memCurrencyStore {
	return &memCurrencyStore{rows: make(map[string]*models.UserCurrency)}
}

func (s *memCurrencyStore) GetByUserID(ctx context.Context, userID string) (*models.UserCurrency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row, ok := s.rows[userID]; ok {
		clone := *row
		return &clone, nil
	}
	return nil, nil
}

func (s *memCurrencyStore) Create(ctx context.Context, currency *models.UserCurrency) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *currency
	s.rows[currency.UserID] = &clone
	return nil
}

func (s *memCurrencyStore) ClaimDailyBonus(ctx context.Context, userID string, bonus int, day, now time.Time) (*models.UserCurrency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[userID]
	if !ok {
		return nil, errors.New("currency row missing")
	}
	if row.LastDailyBonus != nil && !row.LastDailyBonus.Before(day) {
		return nil, nil
	}
	row.Hearts += bonus
	claimed := day
	row.LastDailyBonus = &claimed
	row.UpdatedAt = now
	clone := *row
	return &clone, nil
}

type memMemoryStore struct {
	mu       sync.Mutex
	memories map[string]*models.Memory
}

func newMemMemoryStore() *memMemoryStore {
	return &memMemoryStore{memories: make(map[string]*models.Memory)}
}

func (s *memMemoryStore) Create(ctx context.Context, memory *models.Memory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *memory
	s.memories[memory.ID] = &clone
	return nil
}

func (s *memMemoryStore) GetByID(ctx context.Context, id string) (*models.Memory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.memories[id]; ok {
		clone := *m
		return &clone, nil
	}
	return nil, nil
}

func (s *memMemoryStore) ListByCoupleID(ctx context.Context, coupleID string) ([]*models.Memory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Memory
	for _, m := range s.memories {
		if m.CoupleID == coupleID {
			clone := *m
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memMemoryStore) MarkCompleted(ctx context.Context, id string, completedDate, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.memories[id]
	if !ok {
		return errors.New("memory not found")
	}
	m.Completed = true
	date := completedDate
	m.CompletedDate = &date
	m.UpdatedAt = now
	return nil
}

func (s *memMemoryStore) AddPhoto(ctx context.Context, id, photoURL string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.memories[id]
	if !ok {
		return errors.New("memory not found")
	}
	m.Photos = append(m.Photos, photoURL)
	m.UpdatedAt = now
	return nil
}

type memMoodStore struct {
	mu      sync.Mutex
	entries map[string]*models.MoodEntry // keyed by user_id + entry date
}

func newMemMoodStore() *memMoodStore {
	return &memMoodStore{entries: make(map[string]*models.MoodEntry)}
}

func moodKey(userID string, entryDate time.Time) string {
	return userID + "|" + entryDate.Format("2006-01-02")
}

func (s *memMoodStore) Upsert(ctx context.Context, entry *models.MoodEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := moodKey(entry.UserID, entry.EntryDate)
	if existing, ok := s.entries[key]; ok {
		existing.Mood = entry.Mood
		existing.Note = entry.Note
		return nil
	}
	clone := *entry
	s.entries[key] = &clone
	return nil
}

func (s *memMoodStore) ListByCoupleSince(ctx context.Context, coupleID string, since time.Time) ([]*models.MoodEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.MoodEntry
	for _, e := range s.entries {
		if e.CoupleID == coupleID && !e.EntryDate.Before(since) {
			clone := *e
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntryDate.After(out[j].EntryDate) })
	return out, nil
}

// newTestCoupleService builds a CoupleService over in-memory stores with a
// fixed clock and deterministic ids.
func newTestCoupleService(couples *memCoupleStore, profiles *memProfileStore, avatars *memAvatarStore, pets *memPetStore, spaces *memSpaceStore, notifier PartnerNotifier, fixedTime time.Time) *CoupleService {
	svc := NewCoupleService(couples, profiles, avatars, pets, spaces, notifier)
	svc.clock = func() time.Time { return fixedTime }
	seq := 0
	var mu sync.Mutex
	svc.newID = func() string {
		mu.Lock()
		defer mu.Unlock()
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	return svc
}
