package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/goolstar/goolstar-api/models"
	"github.com/lib/pq"
)

var (
	ErrPhaseNotFound       = errors.New("phase not found")
	ErrPhaseOrderTaken     = errors.New("phase order already exists for tournament")
	ErrBracketSlotNotFound = errors.New("bracket slot not found")
)

type PhaseRepository interface {
	Create(ctx context.Context, exec SQLExecutor, phase *models.Phase) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Phase, error)
	GetByOrder(ctx context.Context, exec SQLExecutor, tournamentID, order int) (*models.Phase, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Phase, error)
	UpdateState(ctx context.Context, exec SQLExecutor, id int, state models.PhaseState) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error

	CreateSlot(ctx context.Context, exec SQLExecutor, slot *models.BracketSlot) error
	GetSlotByMatch(ctx context.Context, exec SQLExecutor, matchID int) (*models.BracketSlot, error)
	ListSlots(ctx context.Context, exec SQLExecutor, phaseID int) ([]*models.BracketSlot, error)
	UpdateSlotTeams(ctx context.Context, exec SQLExecutor, slotID int, homeTeamID, awayTeamID *int) error
	UpdateSlotMatch(ctx context.Context, exec SQLExecutor, slotID int, matchID *int) error
	CompleteSlot(ctx context.Context, exec SQLExecutor, slotID int) error

	ReplaceBestLosers(ctx context.Context, exec SQLExecutor, tournamentID int, losers []*models.BestLoser) error
	ListBestLosers(ctx context.Context, tournamentID int) ([]*models.BestLoser, error)
}

type postgresPhaseRepository struct {
	db *sql.DB
}

func NewPostgresPhaseRepository(db *sql.DB) PhaseRepository {
	return &postgresPhaseRepository{db: db}
}

func (r *postgresPhaseRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const phaseColumns = `id, tournament_id, name, phase_order, state, start_date, created_at`

func (r *postgresPhaseRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Phase) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO phases (tournament_id, name, phase_order, state, start_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		p.TournamentID, p.Name, p.Order, p.State, p.StartDate,
	).Scan(&p.ID, &p.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrPhaseOrderTaken
	}
	return err
}

func (r *postgresPhaseRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Phase, error) {
	executor := r.getExecutor(exec)
	row := executor.QueryRowContext(ctx, `SELECT `+phaseColumns+` FROM phases WHERE id = $1`, id)
	return scanPhase(row)
}

func (r *postgresPhaseRepository) GetByOrder(ctx context.Context, exec SQLExecutor, tournamentID, order int) (*models.Phase, error) {
	executor := r.getExecutor(exec)
	row := executor.QueryRowContext(ctx,
		`SELECT `+phaseColumns+` FROM phases WHERE tournament_id = $1 AND phase_order = $2`,
		tournamentID, order)
	return scanPhase(row)
}

func (r *postgresPhaseRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Phase, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+phaseColumns+` FROM phases WHERE tournament_id = $1 ORDER BY phase_order ASC`,
		tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	phases := make([]*models.Phase, 0)
	for rows.Next() {
		p, err := scanPhase(rows)
		if err != nil {
			return nil, err
		}
		phases = append(phases, p)
	}
	return phases, rows.Err()
}

func (r *postgresPhaseRepository) UpdateState(ctx context.Context, exec SQLExecutor, id int, state models.PhaseState) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE phases SET state = $1 WHERE id = $2`, state, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPhaseNotFound)
}

func (r *postgresPhaseRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM phases WHERE id = $1 AND state = 'pending'`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPhaseNotFound)
}

const slotColumns = `id, phase_id, slot_number, home_team_id, away_team_id, match_id, completed, created_at`

func (r *postgresPhaseRepository) CreateSlot(ctx context.Context, exec SQLExecutor, s *models.BracketSlot) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO bracket_slots (phase_id, slot_number, home_team_id, away_team_id, match_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	return executor.QueryRowContext(ctx, query,
		s.PhaseID, s.SlotNumber, s.HomeTeamID, s.AwayTeamID, s.MatchID,
	).Scan(&s.ID, &s.CreatedAt)
}

func (r *postgresPhaseRepository) GetSlotByMatch(ctx context.Context, exec SQLExecutor, matchID int) (*models.BracketSlot, error) {
	executor := r.getExecutor(exec)
	row := executor.QueryRowContext(ctx,
		`SELECT `+slotColumns+` FROM bracket_slots WHERE match_id = $1`, matchID)
	return scanBracketSlot(row)
}

func (r *postgresPhaseRepository) ListSlots(ctx context.Context, exec SQLExecutor, phaseID int) ([]*models.BracketSlot, error) {
	executor := r.getExecutor(exec)
	rows, err := executor.QueryContext(ctx,
		`SELECT `+slotColumns+` FROM bracket_slots WHERE phase_id = $1 ORDER BY slot_number ASC`,
		phaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]*models.BracketSlot, 0)
	for rows.Next() {
		s, err := scanBracketSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (r *postgresPhaseRepository) UpdateSlotTeams(ctx context.Context, exec SQLExecutor, slotID int, homeTeamID, awayTeamID *int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE bracket_slots SET home_team_id = $1, away_team_id = $2 WHERE id = $3 AND completed = FALSE`,
		homeTeamID, awayTeamID, slotID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrBracketSlotNotFound)
}

func (r *postgresPhaseRepository) UpdateSlotMatch(ctx context.Context, exec SQLExecutor, slotID int, matchID *int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE bracket_slots SET match_id = $1 WHERE id = $2`, matchID, slotID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrBracketSlotNotFound)
}

func (r *postgresPhaseRepository) CompleteSlot(ctx context.Context, exec SQLExecutor, slotID int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE bracket_slots SET completed = TRUE WHERE id = $1`, slotID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrBracketSlotNotFound)
}

// ReplaceBestLosers rewrites the cross-group ranking in one shot. The
// ranking is derived data, so a full replace keeps it consistent with
// the tables it was computed from.
func (r *postgresPhaseRepository) ReplaceBestLosers(ctx context.Context, exec SQLExecutor, tournamentID int, losers []*models.BestLoser) error {
	executor := r.getExecutor(exec)
	if _, err := executor.ExecContext(ctx,
		`DELETE FROM best_losers WHERE tournament_id = $1`, tournamentID); err != nil {
		return err
	}

	query := `
		INSERT INTO best_losers
			(tournament_id, group_code, team_id, points, goal_difference, goals_for, goals_against, cross_group_rank)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	for _, bl := range losers {
		err := executor.QueryRowContext(ctx, query,
			tournamentID, bl.GroupCode, bl.TeamID, bl.Points,
			bl.GoalDifference, bl.GoalsFor, bl.GoalsAgainst, bl.CrossGroupRank,
		).Scan(&bl.ID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresPhaseRepository) ListBestLosers(ctx context.Context, tournamentID int) ([]*models.BestLoser, error) {
	query := `
		SELECT id, tournament_id, group_code, team_id, points, goal_difference, goals_for, goals_against, cross_group_rank
		FROM best_losers
		WHERE tournament_id = $1
		ORDER BY cross_group_rank ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	losers := make([]*models.BestLoser, 0)
	for rows.Next() {
		var bl models.BestLoser
		err := rows.Scan(&bl.ID, &bl.TournamentID, &bl.GroupCode, &bl.TeamID, &bl.Points,
			&bl.GoalDifference, &bl.GoalsFor, &bl.GoalsAgainst, &bl.CrossGroupRank)
		if err != nil {
			return nil, err
		}
		losers = append(losers, &bl)
	}
	return losers, rows.Err()
}

func scanPhase(rowScanner interface{ Scan(...interface{}) error }) (*models.Phase, error) {
	var p models.Phase
	err := rowScanner.Scan(&p.ID, &p.TournamentID, &p.Name, &p.Order, &p.State, &p.StartDate, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPhaseNotFound
		}
		return nil, err
	}
	return &p, nil
}

func scanBracketSlot(rowScanner interface{ Scan(...interface{}) error }) (*models.BracketSlot, error) {
	var s models.BracketSlot
	err := rowScanner.Scan(&s.ID, &s.PhaseID, &s.SlotNumber, &s.HomeTeamID, &s.AwayTeamID, &s.MatchID, &s.Completed, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBracketSlotNotFound
		}
		return nil, err
	}
	return &s, nil
}
