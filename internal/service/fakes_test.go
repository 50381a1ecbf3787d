package service_test

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/questforge/quest-board/internal/domain"
)

// fakeAdventurerRepo is an in-memory stand-in for the postgres repository.
type fakeAdventurerRepo struct {
	mu     sync.Mutex
	nextID int64
	byName map[string]*domain.Adventurer
}

func newFakeAdventurerRepo() *fakeAdventurerRepo {
	return &fakeAdventurerRepo{nextID: 1, byName: make(map[string]*domain.Adventurer)}
}

func (r *fakeAdventurerRepo) Register(_ context.Context, username, passwordHash string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[username]; exists {
		return 0, &pgconn.PgError{Code: "23505"}
	}
	id := r.nextID
	r.nextID++
	r.byName[username] = &domain.Adventurer{ID: id, Username: username, PasswordHash: passwordHash}
	return id, nil
}

func (r *fakeAdventurerRepo) FindByUsername(_ context.Context, username string) (*domain.Adventurer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	adventurer, ok := r.byName[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *adventurer
	return &copied, nil
}

type fakeCommanderRepo struct {
	mu     sync.Mutex
	nextID int64
	byName map[string]*domain.GuildCommander
}

func newFakeCommanderRepo() *fakeCommanderRepo {
	return &fakeCommanderRepo{nextID: 1, byName: make(map[string]*domain.GuildCommander)}
}

func (r *fakeCommanderRepo) Register(_ context.Context, username, passwordHash string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[username]; exists {
		return 0, &pgconn.PgError{Code: "23505"}
	}
	id := r.nextID
	r.nextID++
	r.byName[username] = &domain.GuildCommander{ID: id, Username: username, PasswordHash: passwordHash}
	return id, nil
}

func (r *fakeCommanderRepo) FindByUsername(_ context.Context, username string) (*domain.GuildCommander, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	commander, ok := r.byName[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *commander
	return &copied, nil
}

// fakeQuestStore backs both the ops and viewing repository interfaces.
type fakeQuestStore struct {
	mu         sync.Mutex
	nextID     int64
	quests     map[int64]*domain.Quest
	crew       map[int64]map[int64]struct{}
	viewCalls  int
	countCalls int
}

func newFakeQuestStore() *fakeQuestStore {
	return &fakeQuestStore{
		nextID: 1,
		quests: make(map[int64]*domain.Quest),
		crew:   make(map[int64]map[int64]struct{}),
	}
}

func (s *fakeQuestStore) Add(_ context.Context, quest *domain.Quest) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	copied := *quest
	copied.ID = id
	s.quests[id] = &copied
	s.crew[id] = make(map[int64]struct{})
	return id, nil
}

func (s *fakeQuestStore) Edit(_ context.Context, quest *domain.Quest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.quests[quest.ID]
	if !ok || existing.GuildCommanderID != quest.GuildCommanderID {
		return pgx.ErrNoRows
	}
	existing.Name = quest.Name
	existing.Description = quest.Description
	return nil
}

func (s *fakeQuestStore) Remove(_ context.Context, questID, guildCommanderID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.quests[questID]
	if !ok || existing.GuildCommanderID != guildCommanderID {
		return pgx.ErrNoRows
	}
	delete(s.quests, questID)
	delete(s.crew, questID)
	return nil
}

func (s *fakeQuestStore) UpdateStatus(_ context.Context, questID, guildCommanderID int64, status domain.QuestStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.quests[questID]
	if !ok || existing.GuildCommanderID != guildCommanderID {
		return pgx.ErrNoRows
	}
	existing.Status = status
	return nil
}

func (s *fakeQuestStore) ViewDetails(_ context.Context, questID int64) (*domain.Quest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewCalls++
	quest, ok := s.quests[questID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *quest
	return &copied, nil
}

func (s *fakeQuestStore) BoardChecking(_ context.Context, filter domain.BoardFilter) ([]domain.Quest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewCalls++
	var quests []domain.Quest
	for _, quest := range s.quests {
		if filter.Status != nil && quest.Status != *filter.Status {
			continue
		}
		quests = append(quests, *quest)
	}
	return quests, nil
}

func (s *fakeQuestStore) AdventurersCount(_ context.Context, questID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.countCalls++
	return int64(len(s.crew[questID])), nil
}

func (s *fakeQuestStore) Join(_ context.Context, questID, adventurerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	members, ok := s.crew[questID]
	if !ok {
		members = make(map[int64]struct{})
		s.crew[questID] = members
	}
	if _, joined := members[adventurerID]; joined {
		return &pgconn.PgError{Code: "23505"}
	}
	members[adventurerID] = struct{}{}
	return nil
}

func (s *fakeQuestStore) Leave(_ context.Context, questID, adventurerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	members := s.crew[questID]
	if _, joined := members[adventurerID]; !joined {
		return pgx.ErrNoRows
	}
	delete(members, adventurerID)
	return nil
}
