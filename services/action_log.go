package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/Dosada05/tournament-admin/models"
	"github.com/Dosada05/tournament-admin/repositories"
)

// ActionLog: журнал действий («bitácora») одного сета. Записи не редактируются:
// исправление = удаление + новая запись.
type ActionLog struct {
	repo repositories.ActionRepository
}

func NewActionLog(repo repositories.ActionRepository) *ActionLog {
	return &ActionLog{repo: repo}
}

// ListBySet returns the actions of a set newest first.
func (l *ActionLog) ListBySet(ctx context.Context, setID int) ([]models.ScoringAction, error) {
	actions, err := l.repo.ListBySet(ctx, setID)
	if err != nil {
		return nil, fmt.Errorf("failed to list actions for set %d: %w", setID, mapRepositoryError(err))
	}
	if actions == nil {
		return []models.ScoringAction{}, nil
	}
	// Server order is kept for entries without a usable timestamp.
	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].CreatedAt.After(actions[j].CreatedAt)
	})
	return actions, nil
}

func (l *ActionLog) Create(ctx context.Context, setID, actionTypeID, actionResultID int, actor models.ActorSelection) (*models.ScoringAction, error) {
	if err := validateActionInput(actor, actionTypeID, actionResultID); err != nil {
		return nil, err
	}

	action := &models.ScoringAction{
		SetID:          setID,
		ActionTypeID:   actionTypeID,
		ActionResultID: actionResultID,
		RosterPlayerID: actor.RosterPlayerID,
		CourtPosition:  actor.CourtPosition,
	}
	if err := l.repo.Create(ctx, action); err != nil {
		return nil, fmt.Errorf("failed to log action for set %d: %w", setID, mapRepositoryError(err))
	}
	return action, nil
}

func (l *ActionLog) Delete(ctx context.Context, actionID int) error {
	if err := l.repo.Delete(ctx, actionID); err != nil {
		return fmt.Errorf("failed to delete action %d: %w", actionID, mapRepositoryError(err))
	}
	return nil
}

func validateActionInput(actor models.ActorSelection, actionTypeID, actionResultID int) error {
	verr := &ValidationError{}
	if problem := actor.Problem(); problem != "" {
		verr.add("actor", problem)
	}
	if actionTypeID <= 0 {
		verr.add("action_type", "select an action type")
	}
	if actionResultID <= 0 {
		verr.add("action_result", "select an action result")
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}
