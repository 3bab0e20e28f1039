package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Dosada05/tournament-admin/models"
	"github.com/Dosada05/tournament-admin/repositories"
	"golang.org/x/sync/errgroup"
)

// Archiver stores the scoresheet of a finished match.
type Archiver interface {
	Archive(ctx context.Context, match models.Match) (string, error)
}

type SessionConfig struct {
	// CloseDelay is how long a finalized session stays open so the operator sees the confirmation.
	CloseDelay      time.Duration
	ConfirmationTTL time.Duration
	Now             func() time.Time
}

type SessionDeps struct {
	Sets      *SetStore
	Actions   *ActionLog
	Catalog   *CatalogProvider
	Roster    *RosterProvider
	Matches   repositories.MatchRepository
	Notifier  Notifier
	Publisher EventPublisher
	Archiver  Archiver
	Logger    *slog.Logger
	Config    SessionConfig
}

// Selection is the actor → action type → result choice being built for the next action.
type Selection struct {
	Actor          models.ActorSelection `json:"actor"`
	ActionTypeID   int                   `json:"action_type_id,omitempty"`
	ActionResultID int                   `json:"action_result_id,omitempty"`
}

// OpenSet is the set currently presented for scoring. Working points are what the operator
// sees; Persisted points are what the API last confirmed.
type OpenSet struct {
	Number    int           `json:"number"`
	SetID     int           `json:"set_id"`
	Working   models.Points `json:"working_points"`
	Persisted models.Points `json:"persisted_points"`
}

type SessionSnapshot struct {
	Match             models.Match          `json:"match"`
	Sets              []models.Set          `json:"sets"`
	OpenSet           *OpenSet              `json:"open_set,omitempty"`
	Selection         Selection             `json:"selection"`
	Roster            []models.RosterPlayer `json:"roster"`
	RosterUnavailable bool                  `json:"roster_unavailable"`
	Catalog           Catalog               `json:"catalog"`
	Active            bool                  `json:"active"`
	Closed            bool                  `json:"closed"`
}

// ScoringSession drives the set-by-set scoring of one match up to its final result.
// Operations are serialized: each one holds the session lock until its API calls finish.
type ScoringSession struct {
	mu   sync.Mutex
	deps SessionDeps
	log  *slog.Logger
	now  func() time.Time
	gate *confirmationGate

	match             models.Match
	sets              []models.Set
	roster            []models.RosterPlayer
	rosterUnavailable bool
	catalog           Catalog
	openSet           *OpenSet
	selection         Selection
	active            bool
	closeTimer        *time.Timer
	onClose           func()

	closed       atomic.Bool
	lastActivity atomic.Int64
}

func NewScoringSession(deps SessionDeps) *ScoringSession {
	now := deps.Config.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &ScoringSession{
		deps:    deps,
		log:     logger,
		now:     now,
		gate:    newConfirmationGate(deps.Config.ConfirmationTTL, now),
		sets:    []models.Set{},
		roster:  []models.RosterPlayer{},
		catalog: Catalog{ActionTypes: []models.ActionType{}, ActionResults: []models.ActionResult{}},
	}
	s.touch()
	return s
}

// Activate loads the home roster, the existing sets and the action catalog for match.
// Neither a roster nor a set failure is fatal.
func (s *ScoringSession) Activate(ctx context.Context, match *models.Match) error {
	if match == nil || match.ID <= 0 {
		return newValidationError("match", "a match is required to start scoring")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return ErrSessionClosed
	}
	s.touch()
	s.match = *match
	s.log = s.log.With(slog.Int("match_id", match.ID))

	var (
		roster     []models.RosterPlayer
		sets       []models.Set
		catalog    Catalog
		rosterErr  error
		setsErr    error
		catalogErr error
		g          errgroup.Group
	)
	g.Go(func() error {
		roster, rosterErr = s.deps.Roster.ListHomeRoster(ctx, match.HomeRegistrationID)
		return nil
	})
	g.Go(func() error {
		sets, setsErr = s.deps.Sets.ListByMatch(ctx, match.ID)
		return nil
	})
	g.Go(func() error {
		catalog, catalogErr = s.deps.Catalog.Load(ctx)
		return nil
	})
	_ = g.Wait()

	if rosterErr != nil {
		s.roster = []models.RosterPlayer{}
		s.rosterUnavailable = true
		s.log.Warn("roster unavailable, scoring continues without it", slog.Any("error", rosterErr))
		s.notify(models.NotificationError, "Could not load the roster: "+UserMessage(rosterErr))
	} else {
		s.roster = roster
		s.rosterUnavailable = false
	}

	if setsErr != nil {
		s.log.Warn("failed to load sets, starting with none", slog.Any("error", setsErr))
		sets = []models.Set{}
	}
	s.sets = sets

	s.catalog = catalog
	if catalogErr != nil {
		s.notify(models.NotificationError, "Some action catalogs could not be loaded: "+UserMessage(catalogErr))
	}

	s.active = true
	s.log.Info("scoring session activated",
		slog.Int("sets", len(s.sets)),
		slog.Int("roster_size", len(s.roster)),
		slog.Bool("roster_unavailable", s.rosterUnavailable),
	)
	return nil
}

// OpenSet presents set n for scoring, creating it at 0-0 first when it does not exist yet.
// The set is not opened when the creation fails.
func (s *ScoringSession) OpenSet(ctx context.Context, n int) (OpenSet, error) {
	if !models.ValidSetNumber(n) {
		return OpenSet{}, newValidationError("set_number", fmt.Sprintf("set number must be between %d and %d", models.MinSetNumber, models.MaxSetNumber))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensurePendingLocked(); err != nil {
		return OpenSet{}, err
	}
	s.touch()

	set, ok := findSet(s.sets, n)
	if !ok {
		created, err := s.deps.Sets.Create(ctx, s.match.ID, n, 0, 0)
		if err != nil && !errors.Is(err, ErrSetConflict) {
			s.notifyError(err)
			return OpenSet{}, err
		}
		// On a conflict the set already exists server-side and the refetch picks it up.
		_ = s.refreshSetsLocked(ctx)
		set, ok = findSet(s.sets, n)
		if !ok {
			if err != nil || created == nil || created.ID == 0 {
				if err == nil {
					err = fmt.Errorf("%w: set %d was not returned after creation", ErrSetNotFound, n)
				}
				s.notifyError(err)
				return OpenSet{}, err
			}
			set = *created
			s.sets = insertSet(s.sets, set)
		}
		s.log.Info("set created", slog.Int("set_number", n), slog.Int("set_id", set.ID))
	}

	points := models.Points{Home: set.HomePoints, Away: set.AwayPoints}
	s.openSet = &OpenSet{Number: n, SetID: set.ID, Working: points, Persisted: points}
	s.selection = Selection{}
	return *s.openSet, nil
}

// AdjustPoints changes the working total of the open set. Nothing is persisted.
func (s *ScoringSession) AdjustPoints(side models.Side, delta int) (models.Points, error) {
	if !side.IsValid() {
		return models.Points{}, newValidationError("side", "side must be home or away")
	}
	if delta > models.MaxPointsDelta || delta < -models.MaxPointsDelta {
		return models.Points{}, newValidationError("delta", fmt.Sprintf("delta must be between -%d and %d", models.MaxPointsDelta, models.MaxPointsDelta))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureUsableLocked(); err != nil {
		return models.Points{}, err
	}
	if s.openSet == nil {
		return models.Points{}, ErrNoOpenSet
	}
	s.touch()

	s.openSet.Working = s.openSet.Working.Adjust(side, delta)
	return s.openSet.Working, nil
}

// SaveSet persists the points of set n, creating the set if needed. Saving the same values
// twice leaves the same record.
func (s *ScoringSession) SaveSet(ctx context.Context, n, homePoints, awayPoints int) (models.Set, error) {
	if err := validateSetInput(n, homePoints, awayPoints); err != nil {
		return models.Set{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensurePendingLocked(); err != nil {
		return models.Set{}, err
	}
	s.touch()

	saved, err := s.saveSetLocked(ctx, n, homePoints, awayPoints)
	if err != nil {
		s.notifyError(err)
		return models.Set{}, err
	}
	s.notify(models.NotificationSuccess, fmt.Sprintf("Set %d saved (%d-%d)", n, saved.HomePoints, saved.AwayPoints))
	return saved, nil
}

func (s *ScoringSession) saveSetLocked(ctx context.Context, n, homePoints, awayPoints int) (models.Set, error) {
	var (
		saved *models.Set
		err   error
	)
	if existing, ok := findSet(s.sets, n); ok {
		saved, err = s.deps.Sets.Update(ctx, existing.ID, homePoints, awayPoints)
	} else {
		saved, err = s.deps.Sets.Create(ctx, s.match.ID, n, homePoints, awayPoints)
		if errors.Is(err, ErrSetConflict) {
			if refreshErr := s.refreshSetsLocked(ctx); refreshErr == nil {
				if existing, ok := findSet(s.sets, n); ok {
					saved, err = s.deps.Sets.Update(ctx, existing.ID, homePoints, awayPoints)
				}
			}
		}
	}
	if err != nil {
		return models.Set{}, err
	}

	// Ответ API может не содержать номер сета и очки: берём то, что отправили.
	result := *saved
	result.MatchID = s.match.ID
	result.Number = n
	result.HomePoints, result.AwayPoints = homePoints, awayPoints

	if refreshErr := s.refreshSetsLocked(ctx); refreshErr != nil {
		s.sets = upsertSet(s.sets, result)
	} else if set, ok := findSet(s.sets, n); ok {
		result = set
	}

	if s.openSet != nil && s.openSet.Number == n {
		points := models.Points{Home: homePoints, Away: awayPoints}
		s.openSet.SetID = result.ID
		s.openSet.Working = points
		s.openSet.Persisted = points
	}
	return result, nil
}

// SetSelection stores the in-progress actor/type/result choice for the open set.
func (s *ScoringSession) SetSelection(sel Selection) (Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureUsableLocked(); err != nil {
		return Selection{}, err
	}
	if s.openSet == nil {
		return Selection{}, ErrNoOpenSet
	}
	s.touch()
	s.selection = sel
	return s.selection, nil
}

// RecordSelection records an action from the stored selection.
func (s *ScoringSession) RecordSelection(ctx context.Context) (*models.ScoringAction, error) {
	s.mu.Lock()
	sel := s.selection
	s.mu.Unlock()
	return s.RecordAction(ctx, sel.Actor, sel.ActionTypeID, sel.ActionResultID)
}

// RecordAction appends an action to the open set's log and then persists the working totals
// of the set. The score is not derived from the action: both are kept as the operator enters them.
func (s *ScoringSession) RecordAction(ctx context.Context, actor models.ActorSelection, actionTypeID, actionResultID int) (*models.ScoringAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensurePendingLocked(); err != nil {
		return nil, err
	}
	s.touch()

	if err := s.validateActionLocked(actor, actionTypeID, actionResultID); err != nil {
		return nil, err
	}

	open := s.openSet
	action, err := s.deps.Actions.Create(ctx, open.SetID, actionTypeID, actionResultID, actor)
	if err != nil {
		s.notifyError(err)
		return nil, err
	}
	s.selection = Selection{}
	s.log.Info("action recorded",
		slog.Int("set_number", open.Number),
		slog.Int("action_id", action.ID),
		slog.Int("roster_id", action.RosterPlayerID),
		slog.Int("court_position", action.CourtPosition),
	)

	working := open.Working
	if _, err := s.deps.Sets.Update(ctx, open.SetID, working.Home, working.Away); err != nil {
		err = fmt.Errorf("%w: %w", ErrPointsNotSaved, err)
		s.notifyError(err)
		return action, err
	}
	open.Persisted = working
	if err := s.refreshSetsLocked(ctx); err != nil {
		if set, ok := findSet(s.sets, open.Number); ok {
			set.HomePoints, set.AwayPoints = working.Home, working.Away
			s.sets = upsertSet(s.sets, set)
		}
	}

	s.notify(models.NotificationSuccess, s.describeAction(*action))
	return action, nil
}

func (s *ScoringSession) validateActionLocked(actor models.ActorSelection, actionTypeID, actionResultID int) error {
	if s.openSet == nil {
		return newValidationError("set", "open a set before recording actions")
	}

	verr := &ValidationError{}
	if err := validateActionInput(actor, actionTypeID, actionResultID); err != nil {
		verr = err.(*ValidationError)
	}
	if actionTypeID > 0 && len(s.catalog.ActionTypes) > 0 {
		if _, ok := s.catalog.ActionType(actionTypeID); !ok {
			verr.add("action_type", "unknown action type")
		}
	}
	if actionResultID > 0 && len(s.catalog.ActionResults) > 0 {
		if _, ok := s.catalog.ActionResult(actionResultID); !ok {
			verr.add("action_result", "unknown action result")
		}
	}
	if actor.RosterPlayerID > 0 && len(s.roster) > 0 && !slices.ContainsFunc(s.roster, func(p models.RosterPlayer) bool {
		return p.ID == actor.RosterPlayerID
	}) {
		verr.add("actor", "player is not in the home roster")
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// ActionsForOpenSet returns the log of the open set, newest first.
func (s *ScoringSession) ActionsForOpenSet(ctx context.Context) ([]models.ScoringAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureUsableLocked(); err != nil {
		return nil, err
	}
	if s.openSet == nil {
		return nil, ErrNoOpenSet
	}
	s.touch()
	return s.deps.Actions.ListBySet(ctx, s.openSet.SetID)
}

// RequestSetDeletion is the first step of deleting set n.
func (s *ScoringSession) RequestSetDeletion(n int) (Confirmation, error) {
	if !models.ValidSetNumber(n) {
		return Confirmation{}, newValidationError("set_number", fmt.Sprintf("set number must be between %d and %d", models.MinSetNumber, models.MaxSetNumber))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensurePendingLocked(); err != nil {
		return Confirmation{}, err
	}
	s.touch()

	set, ok := findSet(s.sets, n)
	if !ok {
		return Confirmation{}, fmt.Errorf("%w: set %d does not exist", ErrSetNotFound, n)
	}
	return s.gate.request(Confirmation{
		Operation: OpDeleteSet,
		TargetID:  set.ID,
		SetNumber: n,
		Prompt: fmt.Sprintf("Delete set %d (%d-%d) of %s vs %s? This cannot be undone.",
			n, set.HomePoints, set.AwayPoints, s.match.HomeTeamName, s.match.AwayTeamName),
	}), nil
}

// RequestActionDeletion is the first step of deleting an action of the open set.
func (s *ScoringSession) RequestActionDeletion(ctx context.Context, actionID int) (Confirmation, error) {
	if actionID <= 0 {
		return Confirmation{}, newValidationError("action_id", "invalid action id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensurePendingLocked(); err != nil {
		return Confirmation{}, err
	}
	if s.openSet == nil {
		return Confirmation{}, ErrNoOpenSet
	}
	s.touch()

	actions, err := s.deps.Actions.ListBySet(ctx, s.openSet.SetID)
	if err != nil {
		s.notifyError(err)
		return Confirmation{}, err
	}
	idx := slices.IndexFunc(actions, func(a models.ScoringAction) bool { return a.ID == actionID })
	if idx < 0 {
		return Confirmation{}, fmt.Errorf("%w: action %d is not in the log of set %d", ErrActionNotFound, actionID, s.openSet.Number)
	}

	return s.gate.request(Confirmation{
		Operation: OpDeleteAction,
		TargetID:  actionID,
		SetNumber: s.openSet.Number,
		Prompt:    fmt.Sprintf("Delete \"%s\" from the log of set %d? This cannot be undone.", s.describeAction(actions[idx]), s.openSet.Number),
	}), nil
}

// RequestFinalization is the first step of recording the final result. Pending is not a
// valid target and is rejected here.
func (s *ScoringSession) RequestFinalization(result models.MatchResult) (Confirmation, error) {
	if !result.IsTerminal() {
		return Confirmation{}, fmt.Errorf("%w: %w", ErrValidationFailed, ErrInvalidFinalResult)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensurePendingLocked(); err != nil {
		return Confirmation{}, err
	}
	s.touch()

	return s.gate.request(Confirmation{
		Operation: OpFinalizeResult,
		TargetID:  s.match.ID,
		Result:    result,
		Prompt: fmt.Sprintf("Record \"%s\" as the result of %s vs %s? The match will no longer be editable.",
			result, s.match.HomeTeamName, s.match.AwayTeamName),
	}), nil
}

// Confirm executes the operation behind token. Tokens are single use.
func (s *ScoringSession) Confirm(ctx context.Context, token string) (Confirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureUsableLocked(); err != nil {
		return Confirmation{}, err
	}
	s.touch()

	c, err := s.gate.take(token)
	if err != nil {
		return Confirmation{}, err
	}

	switch c.Operation {
	case OpDeleteSet:
		err = s.deleteSetLocked(ctx, c)
	case OpDeleteAction:
		err = s.deleteActionLocked(ctx, c)
	case OpFinalizeResult:
		err = s.finalizeLocked(ctx, c.Result)
	default:
		err = fmt.Errorf("unknown confirmation operation %q", c.Operation)
	}
	return c, err
}

func (s *ScoringSession) deleteSetLocked(ctx context.Context, c Confirmation) error {
	if err := s.ensurePendingLocked(); err != nil {
		return err
	}
	err := s.deps.Sets.Delete(ctx, c.TargetID)
	_ = s.refreshSetsLocked(ctx)
	if err != nil {
		s.notifyError(err)
		return err
	}

	// Actions of the deleted set are left to the API's cascade.
	s.sets = slices.DeleteFunc(s.sets, func(set models.Set) bool { return set.ID == c.TargetID })
	if s.openSet != nil && (s.openSet.SetID == c.TargetID || s.openSet.Number == c.SetNumber) {
		s.openSet = nil
		s.selection = Selection{}
	}
	s.log.Info("set deleted", slog.Int("set_number", c.SetNumber), slog.Int("set_id", c.TargetID))
	s.notify(models.NotificationSuccess, fmt.Sprintf("Set %d deleted", c.SetNumber))
	return nil
}

func (s *ScoringSession) deleteActionLocked(ctx context.Context, c Confirmation) error {
	if err := s.ensurePendingLocked(); err != nil {
		return err
	}
	if err := s.deps.Actions.Delete(ctx, c.TargetID); err != nil {
		s.notifyError(err)
		return err
	}
	s.log.Info("action deleted", slog.Int("action_id", c.TargetID))
	s.notify(models.NotificationSuccess, "Action deleted from the log")
	return nil
}

func (s *ScoringSession) finalizeLocked(ctx context.Context, result models.MatchResult) error {
	if err := s.ensurePendingLocked(); err != nil {
		return err
	}
	if err := s.deps.Matches.UpdateResult(ctx, s.match.ID, result); err != nil {
		err = mapRepositoryError(err)
		s.notifyError(err)
		return fmt.Errorf("failed to record result for match %d: %w", s.match.ID, err)
	}

	s.match.Result = result
	s.openSet = nil
	s.selection = Selection{}
	s.log.Info("match finalized", slog.String("result", string(result)))
	s.notify(models.NotificationSuccess, fmt.Sprintf("Result recorded: %s", result))
	if s.deps.Publisher != nil {
		s.deps.Publisher.PublishMatchEvent(s.match.ID, EventMatchUpdated, s.match)
	}

	if s.closeTimer != nil {
		s.closeTimer.Stop()
	}
	s.closeTimer = time.AfterFunc(s.deps.Config.CloseDelay, s.Close)

	if s.deps.Archiver != nil {
		go s.archive(context.WithoutCancel(ctx), s.match)
	}
	return nil
}

// archive runs outside the session lock; it only reads what the API already stores.
func (s *ScoringSession) archive(ctx context.Context, match models.Match) {
	key, err := s.deps.Archiver.Archive(ctx, match)
	switch {
	case errors.Is(err, ErrArchiveDisabled):
	case err != nil:
		s.log.Warn("failed to archive scoresheet", slog.Any("error", err))
	default:
		s.log.Info("scoresheet archived", slog.String("key", key))
	}
}

// Snapshot returns a copy of the session state for rendering.
func (s *ScoringSession) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := SessionSnapshot{
		Match:             s.match,
		Sets:              slices.Clone(s.sets),
		Selection:         s.selection,
		Roster:            slices.Clone(s.roster),
		RosterUnavailable: s.rosterUnavailable,
		Catalog: Catalog{
			ActionTypes:   slices.Clone(s.catalog.ActionTypes),
			ActionResults: slices.Clone(s.catalog.ActionResults),
		},
		Active: s.active,
		Closed: s.closed.Load(),
	}
	if s.openSet != nil {
		open := *s.openSet
		snap.OpenSet = &open
	}
	return snap
}

// Close ends the session. Working points that were never saved are discarded. Safe to call twice.
func (s *ScoringSession) Close() {
	s.mu.Lock()
	if s.closed.Swap(true) {
		s.mu.Unlock()
		return
	}
	s.openSet = nil
	s.selection = Selection{}
	s.gate.clear()
	if s.closeTimer != nil {
		s.closeTimer.Stop()
	}
	onClose := s.onClose
	logger := s.log
	s.mu.Unlock()

	logger.Info("scoring session closed")
	if onClose != nil {
		onClose()
	}
}

func (s *ScoringSession) IsClosed() bool {
	return s.closed.Load()
}

// IdleFor reports how long the session has gone without an operation.
func (s *ScoringSession) IdleFor(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastActivity.Load()))
}

func (s *ScoringSession) setOnClose(fn func()) {
	s.mu.Lock()
	s.onClose = fn
	s.mu.Unlock()
}

func (s *ScoringSession) touch() {
	s.lastActivity.Store(s.now().UnixNano())
}

func (s *ScoringSession) ensureUsableLocked() error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	if !s.active {
		return ErrSessionNotActive
	}
	return nil
}

func (s *ScoringSession) ensurePendingLocked() error {
	if err := s.ensureUsableLocked(); err != nil {
		return err
	}
	if s.match.Result != models.ResultPending {
		return fmt.Errorf("%w: result is %q", ErrMatchNotPending, s.match.Result)
	}
	return nil
}

// refreshSetsLocked refetches the whole set list. On failure the current list is kept.
func (s *ScoringSession) refreshSetsLocked(ctx context.Context) error {
	sets, err := s.deps.Sets.ListByMatch(ctx, s.match.ID)
	if err != nil {
		s.log.Warn("failed to refresh sets", slog.Any("error", err))
		return err
	}
	s.sets = sets

	if s.openSet != nil {
		if set, ok := findSet(sets, s.openSet.Number); ok {
			s.openSet.SetID = set.ID
			s.openSet.Persisted = models.Points{Home: set.HomePoints, Away: set.AwayPoints}
		}
	}
	if s.deps.Publisher != nil {
		s.deps.Publisher.PublishMatchEvent(s.match.ID, EventSetsChanged, sets)
	}
	return nil
}

func (s *ScoringSession) describeAction(a models.ScoringAction) string {
	typeName := fmt.Sprintf("action type %d", a.ActionTypeID)
	if t, ok := s.catalog.ActionType(a.ActionTypeID); ok {
		typeName = t.Name
	}
	resultName := fmt.Sprintf("result %d", a.ActionResultID)
	if r, ok := s.catalog.ActionResult(a.ActionResultID); ok {
		resultName = r.Name
	}

	actor := fmt.Sprintf("%s position %d", s.match.AwayTeamName, a.CourtPosition)
	if a.RosterPlayerID != 0 {
		actor = fmt.Sprintf("player #%d", a.RosterPlayerID)
		if idx := slices.IndexFunc(s.roster, func(p models.RosterPlayer) bool { return p.ID == a.RosterPlayerID }); idx >= 0 {
			actor = s.roster[idx].Name
		}
	}
	return fmt.Sprintf("%s: %s (%s)", actor, typeName, resultName)
}

func (s *ScoringSession) notify(kind models.NotificationKind, text string) {
	if s.deps.Notifier == nil {
		return
	}
	s.deps.Notifier.Push(s.match.ID, kind, text)
}

func (s *ScoringSession) notifyError(err error) {
	s.notify(models.NotificationError, UserMessage(err))
}

func insertSet(sets []models.Set, set models.Set) []models.Set {
	idx, _ := slices.BinarySearchFunc(sets, set.Number, func(s models.Set, n int) int { return s.Number - n })
	return slices.Insert(sets, idx, set)
}

func upsertSet(sets []models.Set, set models.Set) []models.Set {
	if idx := slices.IndexFunc(sets, func(s models.Set) bool { return s.Number == set.Number }); idx >= 0 {
		sets[idx] = set
		return sets
	}
	return insertSet(sets, set)
}
