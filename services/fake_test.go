package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Dosada05/tournament-admin/models"
	"github.com/Dosada05/tournament-admin/repositories"
	"github.com/Dosada05/tournament-admin/storage"
)

// ------------------------
// Shared call trace
// ------------------------

type callTrace struct {
	mu    sync.Mutex
	steps []string
}

func (t *callTrace) record(step string) {
	t.mu.Lock()
	t.steps = append(t.steps, step)
	t.mu.Unlock()
}

func (t *callTrace) Trace() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.steps)
}

func (t *callTrace) Count(step string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, s := range t.steps {
		if s == step {
			n++
		}
	}
	return n
}

// ------------------------
// Fake Set Repository
// ------------------------

type FakeSetRepository struct {
	*callTrace
	mu     sync.Mutex
	sets   map[int]models.Set
	nextID int

	ListByMatchFunc func(ctx context.Context, matchID int) ([]models.Set, error)
	CreateFunc      func(ctx context.Context, set *models.Set) error
	UpdateFunc      func(ctx context.Context, set *models.Set) error
	DeleteFunc      func(ctx context.Context, id int) error
}

func NewFakeSetRepository(trace *callTrace) *FakeSetRepository {
	return &FakeSetRepository{callTrace: trace, sets: map[int]models.Set{}, nextID: 100}
}

func (f *FakeSetRepository) ListByMatch(ctx context.Context, matchID int) ([]models.Set, error) {
	f.record("Sets.ListByMatch")
	if f.ListByMatchFunc != nil {
		return f.ListByMatchFunc(ctx, matchID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Set
	for _, s := range f.sets {
		if s.MatchID == matchID {
			out = append(out, s)
		}
	}
	// Server order is not guaranteed.
	slices.SortFunc(out, func(a, b models.Set) int { return b.Number - a.Number })
	return out, nil
}

func (f *FakeSetRepository) Create(ctx context.Context, set *models.Set) error {
	f.record("Sets.Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, set)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sets {
		if s.MatchID == set.MatchID && s.Number == set.Number {
			return fmt.Errorf("%w: set %d", repositories.ErrSetConflict, set.Number)
		}
	}
	f.nextID++
	set.ID = f.nextID
	f.sets[set.ID] = *set
	return nil
}

func (f *FakeSetRepository) Update(ctx context.Context, set *models.Set) error {
	f.record("Sets.Update")
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, set)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.sets[set.ID]
	if !ok {
		return fmt.Errorf("%w: id %d", repositories.ErrSetNotFound, set.ID)
	}
	existing.HomePoints = set.HomePoints
	existing.AwayPoints = set.AwayPoints
	f.sets[set.ID] = existing
	*set = existing
	return nil
}

func (f *FakeSetRepository) Delete(ctx context.Context, id int) error {
	f.record("Sets.Delete")
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sets[id]; !ok {
		return fmt.Errorf("%w: id %d", repositories.ErrSetNotFound, id)
	}
	delete(f.sets, id)
	return nil
}

func (f *FakeSetRepository) Seed(sets ...models.Set) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range sets {
		f.sets[s.ID] = s
	}
}

// All returns the stored sets of a match ordered by number, without recording a call.
func (f *FakeSetRepository) All(matchID int) []models.Set {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Set
	for _, s := range f.sets {
		if s.MatchID == matchID {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b models.Set) int { return a.Number - b.Number })
	return out
}

// ------------------------
// Fake Action Repository
// ------------------------

type FakeActionRepository struct {
	*callTrace
	mu      sync.Mutex
	actions []models.ScoringAction
	nextID  int
	clock   time.Time

	ListBySetFunc func(ctx context.Context, setID int) ([]models.ScoringAction, error)
	CreateFunc    func(ctx context.Context, action *models.ScoringAction) error
	DeleteFunc    func(ctx context.Context, id int) error
}

func NewFakeActionRepository(trace *callTrace) *FakeActionRepository {
	return &FakeActionRepository{
		callTrace: trace,
		nextID:    500,
		clock:     time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC),
	}
}

func (f *FakeActionRepository) ListBySet(ctx context.Context, setID int) ([]models.ScoringAction, error) {
	f.record("Actions.ListBySet")
	if f.ListBySetFunc != nil {
		return f.ListBySetFunc(ctx, setID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ScoringAction
	for _, a := range f.actions {
		if a.SetID == setID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *FakeActionRepository) Create(ctx context.Context, action *models.ScoringAction) error {
	f.record("Actions.Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, action)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.clock = f.clock.Add(time.Second)
	action.ID = f.nextID
	action.CreatedAt = f.clock
	f.actions = append(f.actions, *action)
	return nil
}

func (f *FakeActionRepository) Delete(ctx context.Context, id int) error {
	f.record("Actions.Delete")
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := slices.IndexFunc(f.actions, func(a models.ScoringAction) bool { return a.ID == id })
	if idx < 0 {
		return fmt.Errorf("%w: id %d", repositories.ErrActionNotFound, id)
	}
	f.actions = slices.Delete(f.actions, idx, idx+1)
	return nil
}

func (f *FakeActionRepository) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.actions)
}

// ------------------------
// Fake Catalog / Roster / Match / Tournament Repositories
// ------------------------

type FakeCatalogRepository struct {
	*callTrace
	Types   []models.ActionType
	Results []models.ActionResult

	ListActionTypesFunc   func(ctx context.Context) ([]models.ActionType, error)
	ListActionResultsFunc func(ctx context.Context) ([]models.ActionResult, error)
}

func (f *FakeCatalogRepository) ListActionTypes(ctx context.Context) ([]models.ActionType, error) {
	f.record("Catalog.ListActionTypes")
	if f.ListActionTypesFunc != nil {
		return f.ListActionTypesFunc(ctx)
	}
	return slices.Clone(f.Types), nil
}

func (f *FakeCatalogRepository) ListActionResults(ctx context.Context) ([]models.ActionResult, error) {
	f.record("Catalog.ListActionResults")
	if f.ListActionResultsFunc != nil {
		return f.ListActionResultsFunc(ctx)
	}
	return slices.Clone(f.Results), nil
}

type FakeRosterRepository struct {
	*callTrace
	Players []models.RosterPlayer

	ListByRegistrationFunc func(ctx context.Context, registrationID int) ([]models.RosterPlayer, error)
}

func (f *FakeRosterRepository) ListByRegistration(ctx context.Context, registrationID int) ([]models.RosterPlayer, error) {
	f.record("Roster.ListByRegistration")
	if f.ListByRegistrationFunc != nil {
		return f.ListByRegistrationFunc(ctx, registrationID)
	}
	return slices.Clone(f.Players), nil
}

type FakeMatchRepository struct {
	*callTrace
	mu      sync.Mutex
	matches map[int]models.Match

	GetByIDFunc      func(ctx context.Context, id int) (*models.Match, error)
	ListFunc         func(ctx context.Context, filter models.MatchFilter) ([]models.Match, error)
	UpdateResultFunc func(ctx context.Context, id int, result models.MatchResult) error
}

func NewFakeMatchRepository(trace *callTrace, matches ...models.Match) *FakeMatchRepository {
	f := &FakeMatchRepository{callTrace: trace, matches: map[int]models.Match{}}
	for _, m := range matches {
		f.matches[m.ID] = m
	}
	return f
}

func (f *FakeMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	f.record("Matches.GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", repositories.ErrMatchNotFound, id)
	}
	return &m, nil
}

func (f *FakeMatchRepository) List(ctx context.Context, filter models.MatchFilter) ([]models.Match, error) {
	f.record("Matches.List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx, filter)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Match, 0, len(f.matches))
	for _, m := range f.matches {
		out = append(out, m)
	}
	return out, nil
}

func (f *FakeMatchRepository) UpdateResult(ctx context.Context, id int, result models.MatchResult) error {
	f.record("Matches.UpdateResult")
	if f.UpdateResultFunc != nil {
		return f.UpdateResultFunc(ctx, id, result)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[id]
	if !ok {
		return fmt.Errorf("%w: id %d", repositories.ErrMatchNotFound, id)
	}
	m.Result = result
	f.matches[id] = m
	return nil
}

func (f *FakeMatchRepository) Result(id int) models.MatchResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.matches[id].Result
}

type FakeTournamentRepository struct {
	*callTrace
	Tournaments   []models.Tournament
	Categories    []models.Category
	Registrations []models.Registration

	ListTournamentsFunc func(ctx context.Context) ([]models.Tournament, error)
}

func (f *FakeTournamentRepository) ListTournaments(ctx context.Context) ([]models.Tournament, error) {
	f.record("Tournaments.ListTournaments")
	if f.ListTournamentsFunc != nil {
		return f.ListTournamentsFunc(ctx)
	}
	return slices.Clone(f.Tournaments), nil
}

func (f *FakeTournamentRepository) ListCategories(ctx context.Context, tournamentID int) ([]models.Category, error) {
	f.record(fmt.Sprintf("Tournaments.ListCategories(%d)", tournamentID))
	var out []models.Category
	for _, c := range f.Categories {
		if c.TournamentID == tournamentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *FakeTournamentRepository) ListRegistrations(ctx context.Context, categoryID int) ([]models.Registration, error) {
	f.record(fmt.Sprintf("Tournaments.ListRegistrations(%d)", categoryID))
	var out []models.Registration
	for _, r := range f.Registrations {
		if r.CategoryID == categoryID {
			out = append(out, r)
		}
	}
	return out, nil
}

// ------------------------
// Fake collaborators
// ------------------------

type publishedEvent struct {
	MatchID int
	Type    string
	Payload any
}

type FakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (f *FakePublisher) PublishMatchEvent(matchID int, eventType string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, publishedEvent{MatchID: matchID, Type: eventType, Payload: payload})
}

func (f *FakePublisher) Types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Type)
	}
	return out
}

type FakeUploader struct {
	mu      sync.Mutex
	objects map[string][]byte

	UploadFunc func(ctx context.Context, key, contentType string, r io.Reader) (*storage.UploadResult, error)
}

func NewFakeUploader() *FakeUploader {
	return &FakeUploader{objects: map[string][]byte{}}
}

func (f *FakeUploader) Upload(ctx context.Context, key, contentType string, r io.Reader) (*storage.UploadResult, error) {
	if f.UploadFunc != nil {
		return f.UploadFunc(ctx, key, contentType, r)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.objects[key] = data
	f.mu.Unlock()
	return &storage.UploadResult{Key: key, Location: f.GetPublicURL(key)}, nil
}

func (f *FakeUploader) GetPublicURL(key string) string {
	return "https://files.example.com/" + key
}

func (f *FakeUploader) Object(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	return data, ok
}

// ------------------------
// Test environment
// ------------------------

const (
	testMatchID        = 42
	testRegistrationID = 7
	testOperatorID     = 3
)

type testEnv struct {
	trace      *callTrace
	sets       *FakeSetRepository
	actions    *FakeActionRepository
	catalog    *FakeCatalogRepository
	roster     *FakeRosterRepository
	matches    *FakeMatchRepository
	publisher  *FakePublisher
	queue      *NotificationQueue
	uploader   *FakeUploader
	scoresheet *ScoresheetService
	deps       SessionDeps
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func pendingMatch() models.Match {
	return models.Match{
		ID:                 testMatchID,
		HomeRegistrationID: testRegistrationID,
		HomeTeamName:       "Aguilas",
		AwayTeamID:         9,
		AwayTeamName:       "Halcones",
		ScheduledAt:        time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC),
		Location:           "Coliseo Municipal",
		Result:             models.ResultPending,
	}
}

func newTestEnv() *testEnv {
	trace := &callTrace{}
	env := &testEnv{
		trace:   trace,
		sets:    NewFakeSetRepository(trace),
		actions: NewFakeActionRepository(trace),
		catalog: &FakeCatalogRepository{
			callTrace: trace,
			Types:     []models.ActionType{{ID: 1, Name: "Saque"}, {ID: 2, Name: "Remate"}, {ID: 3, Name: "Bloqueo"}},
			Results:   []models.ActionResult{{ID: 1, Name: "Punto"}, {ID: 2, Name: "Error"}, {ID: 3, Name: "Continuidad"}},
		},
		roster: &FakeRosterRepository{
			callTrace: trace,
			Players: []models.RosterPlayer{
				{ID: 7, Name: "Lucia Rojas", RegistrationID: testRegistrationID, Number: 10},
				{ID: 8, Name: "Ana Vidal", RegistrationID: testRegistrationID, Number: 4},
				{ID: 99, Name: "Other Team", RegistrationID: 1234, Number: 1},
			},
		},
		matches:   NewFakeMatchRepository(trace, pendingMatch()),
		publisher: &FakePublisher{},
		uploader:  NewFakeUploader(),
	}
	env.queue = NewNotificationQueue(time.Minute, env.publisher, testLogger())

	setStore := NewSetStore(env.sets)
	actionLog := NewActionLog(env.actions)
	catalog := NewCatalogProvider(env.catalog, testLogger())
	roster := NewRosterProvider(env.roster)
	env.scoresheet = NewScoresheetService(setStore, actionLog, catalog, roster, env.uploader, testLogger())

	env.deps = SessionDeps{
		Sets:      setStore,
		Actions:   actionLog,
		Catalog:   catalog,
		Roster:    roster,
		Matches:   env.matches,
		Notifier:  env.queue,
		Publisher: env.publisher,
		Archiver:  env.scoresheet,
		Logger:    testLogger(),
		Config:    SessionConfig{CloseDelay: 10 * time.Millisecond},
	}
	return env
}

func (e *testEnv) activeSession(ctx context.Context) (*ScoringSession, error) {
	s := NewScoringSession(e.deps)
	match := pendingMatch()
	if err := s.Activate(ctx, &match); err != nil {
		return nil, err
	}
	return s, nil
}
