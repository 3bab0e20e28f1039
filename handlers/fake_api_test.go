package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-admin/apiclient"
	"github.com/Dosada05/tournament-admin/models"
	"github.com/Dosada05/tournament-admin/repositories"
	"github.com/Dosada05/tournament-admin/services"
)

const (
	testOperatorID  = 3
	pendingMatchID  = 42
	finishedMatchID = 43
)

// fakeCompetitionAPI is an in-memory stand-in for the competition REST API.
type fakeCompetitionAPI struct {
	mu      sync.Mutex
	matches map[int]models.Match
	sets    map[int]models.Set
	actions map[int]models.ScoringAction
	nextID  int

	failSetUpdates bool
}

func newFakeCompetitionAPI() *fakeCompetitionAPI {
	scheduled := time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)
	return &fakeCompetitionAPI{
		matches: map[int]models.Match{
			pendingMatchID: {
				ID: pendingMatchID, HomeRegistrationID: 7, HomeTeamName: "Aguilas",
				AwayTeamID: 9, AwayTeamName: "Halcones", ScheduledAt: scheduled, Result: models.ResultPending,
			},
			finishedMatchID: {
				ID: finishedMatchID, HomeRegistrationID: 8, HomeTeamName: "Condores",
				AwayTeamID: 7, AwayTeamName: "Aguilas", ScheduledAt: scheduled.Add(-48 * time.Hour), Result: models.ResultLost,
			},
		},
		sets:    map[int]models.Set{},
		actions: map[int]models.ScoringAction{},
		nextID:  100,
	}
}

func (f *fakeCompetitionAPI) routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/partidos", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		out := []models.Match{}
		for _, m := range f.matches {
			if id := req.URL.Query().Get("inscripcion_id"); id != "" && id != strconv.Itoa(m.HomeRegistrationID) {
				continue
			}
			out = append(out, m)
		}
		f.reply(w, http.StatusOK, map[string]any{"data": out})
	})
	r.Get("/partidos/{id}", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		m, ok := f.matches[urlID(req, "id")]
		if !ok {
			f.reply(w, http.StatusNotFound, map[string]string{"message": "Partido no encontrado"})
			return
		}
		f.reply(w, http.StatusOK, m)
	})
	r.Put("/partidos/{id}/resultado", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Result models.MatchResult `json:"resultado"`
		}
		_ = json.NewDecoder(req.Body).Decode(&body)
		f.mu.Lock()
		defer f.mu.Unlock()
		m := f.matches[urlID(req, "id")]
		m.Result = body.Result
		f.matches[m.ID] = m
		f.reply(w, http.StatusOK, m)
	})

	r.Get("/sets/partido/{id}", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		out := []models.Set{}
		for _, s := range f.sets {
			if s.MatchID == urlID(req, "id") {
				out = append(out, s)
			}
		}
		f.reply(w, http.StatusOK, map[string]any{"sets": out})
	})
	r.Post("/sets", func(w http.ResponseWriter, req *http.Request) {
		var s models.Set
		_ = json.NewDecoder(req.Body).Decode(&s)
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, existing := range f.sets {
			if existing.MatchID == s.MatchID && existing.Number == s.Number {
				f.reply(w, http.StatusConflict, map[string]string{"message": "El set ya existe"})
				return
			}
		}
		f.nextID++
		s.ID = f.nextID
		f.sets[s.ID] = s
		f.reply(w, http.StatusCreated, map[string]any{"set": s})
	})
	r.Put("/sets/{id}", func(w http.ResponseWriter, req *http.Request) {
		var body models.Set
		_ = json.NewDecoder(req.Body).Decode(&body)
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failSetUpdates {
			f.reply(w, http.StatusInternalServerError, map[string]string{"message": "db down"})
			return
		}
		s, ok := f.sets[urlID(req, "id")]
		if !ok {
			f.reply(w, http.StatusNotFound, map[string]string{"message": "Set no encontrado"})
			return
		}
		s.HomePoints, s.AwayPoints = body.HomePoints, body.AwayPoints
		f.sets[s.ID] = s
		f.reply(w, http.StatusOK, map[string]any{"set": s})
	})
	r.Delete("/sets/{id}", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.sets, urlID(req, "id"))
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/acciones-juego/set/{id}", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		out := []models.ScoringAction{}
		for _, a := range f.actions {
			if a.SetID == urlID(req, "id") {
				out = append(out, a)
			}
		}
		slices.SortFunc(out, func(a, b models.ScoringAction) int { return a.ID - b.ID })
		f.reply(w, http.StatusOK, out)
	})
	r.Post("/acciones-juego", func(w http.ResponseWriter, req *http.Request) {
		var a models.ScoringAction
		_ = json.NewDecoder(req.Body).Decode(&a)
		f.mu.Lock()
		defer f.mu.Unlock()
		f.nextID++
		a.ID = f.nextID
		a.CreatedAt = time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC).Add(time.Duration(a.ID) * time.Second)
		f.actions[a.ID] = a
		f.reply(w, http.StatusCreated, a)
	})
	r.Delete("/acciones-juego/{id}", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.actions, urlID(req, "id"))
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/tipos-accion", func(w http.ResponseWriter, req *http.Request) {
		f.reply(w, http.StatusOK, []models.ActionType{{ID: 1, Name: "Saque"}, {ID: 2, Name: "Remate"}})
	})
	r.Get("/resultados-accion", func(w http.ResponseWriter, req *http.Request) {
		f.reply(w, http.StatusOK, []models.ActionResult{{ID: 1, Name: "Punto"}, {ID: 2, Name: "Error"}})
	})
	r.Get("/roster/inscripciones/{id}", func(w http.ResponseWriter, req *http.Request) {
		f.reply(w, http.StatusOK, []models.RosterPlayer{{ID: 7, Name: "Lucia Rojas", RegistrationID: 7, Number: 10}})
	})

	r.Get("/torneos", func(w http.ResponseWriter, req *http.Request) {
		f.reply(w, http.StatusOK, []models.Tournament{{ID: 1, Name: "Copa Invierno"}})
	})
	r.Get("/categorias/torneo/{id}", func(w http.ResponseWriter, req *http.Request) {
		f.reply(w, http.StatusOK, []models.Category{{ID: 10, Name: "Juvenil Femenino", TournamentID: 1}})
	})
	r.Get("/inscripciones/categoria/{id}", func(w http.ResponseWriter, req *http.Request) {
		f.reply(w, http.StatusOK, []models.Registration{{ID: 7, TeamName: "Aguilas", CategoryID: 10}})
	})
	return r
}

func (f *fakeCompetitionAPI) reply(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (f *fakeCompetitionAPI) setFailSetUpdates(fail bool) {
	f.mu.Lock()
	f.failSetUpdates = fail
	f.mu.Unlock()
}

func (f *fakeCompetitionAPI) matchResult(id int) models.MatchResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.matches[id].Result
}

func urlID(r *http.Request, name string) int {
	id, _ := strconv.Atoi(chi.URLParam(r, name))
	return id
}

// testServer is the admin API wired to a fake competition API.
type testServer struct {
	api      *fakeCompetitionAPI
	router   chi.Router
	sessions *services.SessionManager
	queue    *services.NotificationQueue
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)

	fake := newFakeCompetitionAPI()
	upstream := httptest.NewServer(fake.routes())
	t.Cleanup(upstream.Close)

	client, err := apiclient.New(apiclient.Config{BaseURL: upstream.URL, Timeout: 2 * time.Second}, logger)
	require.NoError(t, err)

	matchRepo := repositories.NewHTTPMatchRepository(client)
	setStore := services.NewSetStore(repositories.NewHTTPSetRepository(client))
	actionLog := services.NewActionLog(repositories.NewHTTPActionRepository(client))
	catalog := services.NewCatalogProvider(repositories.NewHTTPCatalogRepository(client), logger)
	roster := services.NewRosterProvider(repositories.NewHTTPRosterRepository(client))
	queue := services.NewNotificationQueue(time.Minute, nil, logger)
	scoresheets := services.NewScoresheetService(setStore, actionLog, catalog, roster, nil, logger)
	matchService := services.NewMatchService(matchRepo)
	filterService := services.NewFilterService(repositories.NewHTTPTournamentRepository(client), logger)

	sessions := services.NewSessionManager(services.SessionDeps{
		Sets:     setStore,
		Actions:  actionLog,
		Catalog:  catalog,
		Roster:   roster,
		Matches:  matchRepo,
		Notifier: queue,
		Archiver: scoresheets,
		Logger:   logger,
		Config:   services.SessionConfig{CloseDelay: time.Hour},
	})
	t.Cleanup(func() { sessions.CloseAll() })

	matchH := NewMatchHandler(matchService, filterService)
	filterH := NewFilterHandler(filterService)
	scoringH := NewScoringHandler(sessions, matchService, scoresheets)
	notifH := NewNotificationHandler(queue)

	r := chi.NewRouter()
	r.Get("/filters/tournaments", filterH.ListTournaments)
	r.Get("/filters/tournaments/{tournamentID}/categories", filterH.ListCategories)
	r.Get("/filters/categories/{categoryID}/teams", filterH.ListTeams)
	r.Get("/notifications", notifH.List)
	r.Get("/matches", matchH.ListMatches)
	r.Route("/matches/{matchID}", func(r chi.Router) {
		r.Get("/", matchH.GetMatch)
		r.Get("/scoresheet.xlsx", scoringH.DownloadScoresheet)
		r.Post("/session", scoringH.StartSession)
		r.Get("/session", scoringH.GetSession)
		r.Delete("/session", scoringH.EndSession)
		r.Post("/session/sets/{setNumber}/open", scoringH.OpenSet)
		r.Put("/session/sets/{setNumber}", scoringH.SaveSet)
		r.Post("/session/sets/{setNumber}/delete-request", scoringH.RequestSetDeletion)
		r.Post("/session/points", scoringH.AdjustPoints)
		r.Patch("/session/selection", scoringH.UpdateSelection)
		r.Get("/session/actions", scoringH.ListActions)
		r.Post("/session/actions", scoringH.RecordAction)
		r.Post("/session/actions/{actionID}/delete-request", scoringH.RequestActionDeletion)
		r.Post("/session/finalize-request", scoringH.RequestFinalization)
		r.Post("/session/confirm", scoringH.Confirm)
	})

	return &testServer{api: fake, router: r, sessions: sessions, queue: queue}
}
