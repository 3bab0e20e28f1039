package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/gosimple/slug"
	"github.com/xuri/excelize/v2"

	"github.com/Dosada05/tournament-admin/models"
	"github.com/Dosada05/tournament-admin/storage"
)

const (
	sheetSets    = "Sets"
	sheetActions = "Bitacora"
)

// ScoresheetService renders a match's sets and action log as a workbook and archives it.
type ScoresheetService struct {
	sets     *SetStore
	actions  *ActionLog
	catalog  *CatalogProvider
	roster   *RosterProvider
	uploader storage.FileUploader
	logger   *slog.Logger
}

// NewScoresheetService accepts a nil uploader; Archive then returns ErrArchiveDisabled.
func NewScoresheetService(sets *SetStore, actions *ActionLog, catalog *CatalogProvider, roster *RosterProvider, uploader storage.FileUploader, logger *slog.Logger) *ScoresheetService {
	return &ScoresheetService{
		sets:     sets,
		actions:  actions,
		catalog:  catalog,
		roster:   roster,
		uploader: uploader,
		logger:   logger,
	}
}

func ScoresheetKey(match models.Match) string {
	return fmt.Sprintf("scoresheets/%d-%s-vs-%s.xlsx", match.ID, slug.Make(match.HomeTeamName), slug.Make(match.AwayTeamName))
}

// Archive renders the scoresheet and uploads it, returning the public URL or the key.
func (s *ScoresheetService) Archive(ctx context.Context, match models.Match) (string, error) {
	if s.uploader == nil {
		return "", ErrArchiveDisabled
	}
	data, err := s.Render(ctx, match)
	if err != nil {
		return "", err
	}

	key := ScoresheetKey(match)
	res, err := s.uploader.Upload(ctx, key, storage.ContentTypeXLSX, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to archive scoresheet for match %d: %w", match.ID, err)
	}
	if res.Location != "" {
		return res.Location, nil
	}
	return res.Key, nil
}

// Render builds the workbook. Catalog and roster lookups are best effort: missing names
// fall back to ids.
func (s *ScoresheetService) Render(ctx context.Context, match models.Match) ([]byte, error) {
	sets, err := s.sets.ListByMatch(ctx, match.ID)
	if err != nil {
		return nil, err
	}

	catalog, catalogErr := s.catalog.Load(ctx)
	if catalogErr != nil {
		s.logger.Warn("scoresheet rendered with partial catalog", slog.Int("match_id", match.ID), slog.Any("error", catalogErr))
	}
	roster, rosterErr := s.roster.ListHomeRoster(ctx, match.HomeRegistrationID)
	if rosterErr != nil {
		s.logger.Warn("scoresheet rendered without roster", slog.Int("match_id", match.ID), slog.Any("error", rosterErr))
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSets); err != nil {
		return nil, fmt.Errorf("failed to prepare scoresheet: %w", err)
	}
	if _, err := f.NewSheet(sheetActions); err != nil {
		return nil, fmt.Errorf("failed to prepare scoresheet: %w", err)
	}

	title := fmt.Sprintf("%s vs %s", match.HomeTeamName, match.AwayTeamName)
	rows := [][]any{
		{title, match.ScheduledAt.Format("2006-01-02 15:04"), match.Location, string(match.Result)},
		{},
		{"Set", match.HomeTeamName, match.AwayTeamName, "Winner", "Finished"},
	}
	for _, set := range sets {
		rows = append(rows, []any{set.Number, set.HomePoints, set.AwayPoints, string(set.Winner), set.Finished})
	}
	if err := writeRows(f, sheetSets, rows); err != nil {
		return nil, err
	}

	logRows := [][]any{{"Set", "Time", "Actor", "Action", "Result"}}
	for _, set := range sets {
		actions, err := s.actions.ListBySet(ctx, set.ID)
		if err != nil {
			return nil, err
		}
		// Oldest first on paper.
		slices.Reverse(actions)
		for _, a := range actions {
			logRows = append(logRows, []any{
				set.Number,
				a.CreatedAt.Format("15:04:05"),
				actorLabel(a, match, roster),
				typeName(catalog, a.ActionTypeID),
				resultName(catalog, a.ActionResultID),
			})
		}
	}
	if err := writeRows(f, sheetActions, logRows); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write scoresheet: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func actorLabel(a models.ScoringAction, match models.Match, roster []models.RosterPlayer) string {
	if a.RosterPlayerID == 0 {
		return fmt.Sprintf("%s #%d", match.AwayTeamName, a.CourtPosition)
	}
	if idx := slices.IndexFunc(roster, func(p models.RosterPlayer) bool { return p.ID == a.RosterPlayerID }); idx >= 0 {
		return roster[idx].Name
	}
	return fmt.Sprintf("player %d", a.RosterPlayerID)
}

func typeName(c Catalog, id int) string {
	if t, ok := c.ActionType(id); ok {
		return t.Name
	}
	return fmt.Sprintf("#%d", id)
}

func resultName(c Catalog, id int) string {
	if r, ok := c.ActionResult(id); ok {
		return r.Name
	}
	return fmt.Sprintf("#%d", id)
}
