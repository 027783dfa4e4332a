package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rhmoon-github/cesimAnalyze/internal/analyzer"
	"github.com/rhmoon-github/cesimAnalyze/internal/model"
)

// RunRecord 历史分析运行记录
type RunRecord struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	LatestRound string    `json:"latestRound"`
	Rounds      []string  `json:"rounds"`
	TeamCount   int       `json:"teamCount"`
}

// TeamHealthRow 单次运行的队伍健康度快照
type TeamHealthRow struct {
	Team        string   `json:"team"`
	RedCount    int      `json:"redCount"`
	YellowCount int      `json:"yellowCount"`
	Cash        *float64 `json:"cash"`
	DebtEquity  *float64 `json:"debtEquity"`
	EBITDARate  *float64 `json:"ebitdaRate"`
}

// SaveRun 保存一次完整的分析运行，返回运行 ID
func (s *Store) SaveRun(result *analyzer.Result, report string) (string, error) {
	id := uuid.New().String()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (id, created_at, latest_round, rounds, team_count, report)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, result.GeneratedAt, result.LatestRound, strings.Join(result.Rounds, ","), len(result.Teams), report)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	for _, team := range result.Teams {
		record := result.Health[team]
		if record == nil {
			continue
		}
		_, err = tx.Exec(`
			INSERT INTO team_health (run_id, team, red_count, yellow_count, cash, debt_equity, ebitda_rate)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, id, team, record.RedCount, record.YellowCount,
			indicatorValue(record, model.IndicatorCash),
			indicatorValue(record, model.IndicatorDebtEquity),
			indicatorValue(record, model.IndicatorEBITDARate))
		if err != nil {
			return "", fmt.Errorf("failed to insert team health for %s: %w", team, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return id, nil
}

// ListRuns 按创建时间倒序返回历史运行记录
func (s *Store) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT id, created_at, latest_round, rounds, team_count
		FROM runs ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	records := []RunRecord{}
	for rows.Next() {
		var r RunRecord
		var rounds string
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.LatestRound, &rounds, &r.TeamCount); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if rounds != "" {
			r.Rounds = strings.Split(rounds, ",")
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// GetRunReport 获取某次运行的完整报告
func (s *Store) GetRunReport(id string) (string, error) {
	var report string
	err := s.db.QueryRow(`SELECT report FROM runs WHERE id = ?`, id).Scan(&report)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("运行记录不存在: %s", id)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query run report: %w", err)
	}
	return report, nil
}

// GetTeamHealth 获取某次运行的队伍健康度快照
func (s *Store) GetTeamHealth(runID string) ([]TeamHealthRow, error) {
	rows, err := s.db.Query(`
		SELECT team, red_count, yellow_count, cash, debt_equity, ebitda_rate
		FROM team_health WHERE run_id = ? ORDER BY team
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query team health: %w", err)
	}
	defer rows.Close()

	result := []TeamHealthRow{}
	for rows.Next() {
		var row TeamHealthRow
		if err := rows.Scan(&row.Team, &row.RedCount, &row.YellowCount, &row.Cash, &row.DebtEquity, &row.EBITDARate); err != nil {
			return nil, fmt.Errorf("failed to scan team health: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func indicatorValue(record *model.HealthRecord, name string) *float64 {
	return record.Indicators[name].Value
}
