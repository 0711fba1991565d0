package services

import (
	"context"
	"database/sql"

	"github.com/sirupsen/logrus"

	"github.com/Federico-Chandia/Scrapper-quini6/models"
	"github.com/Federico-Chandia/Scrapper-quini6/shared"
)

// RecentDaysWindow is how many distinct draw days the listing endpoints cover
const RecentDaysWindow = 10

// DrawService owns persistence and querying of draw results. It appends the
// synthesized POZO EXTRA record to every per-day result set it returns.
type DrawService struct {
	db    *sql.DB
	synth *PozoExtraSynthesizer
}

// NewDrawService creates a draw service on top of an open database handle
func NewDrawService(db *sql.DB, synth *PozoExtraSynthesizer) *DrawService {
	return &DrawService{db: db, synth: synth}
}

// InsertIgnoring stores one draw record, silently skipping rows that already
// exist for the same date, draw and numbers. Returns whether a row was
// actually written.
func (s *DrawService) InsertIgnoring(ctx context.Context, fecha, sorteo, numeros string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO sorteos (fecha, sorteo, numeros) VALUES (?, ?, ?)`,
		fecha, sorteo, numeros,
	)
	if err != nil {
		return false, shared.WrapError(err, shared.ErrorCategoryDatabase, "INSERT_FAILED", "DrawService", "InsertIgnoring", true)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, shared.WrapError(err, shared.ErrorCategoryDatabase, "INSERT_FAILED", "DrawService", "InsertIgnoring", false)
	}
	return affected > 0, nil
}

// LatestDate returns the most recent draw date in the store. The second
// return value is false when the store is empty.
func (s *DrawService) LatestDate(ctx context.Context) (string, bool, error) {
	var fecha sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT MAX(fecha) FROM sorteos`).Scan(&fecha)
	if err != nil {
		return "", false, shared.WrapError(err, shared.ErrorCategoryDatabase, "QUERY_FAILED", "DrawService", "LatestDate", true)
	}
	if !fecha.Valid {
		return "", false, nil
	}
	return fecha.String, true, nil
}

// RowsForDate returns all stored rows for one date in insertion order
func (s *DrawService) RowsForDate(ctx context.Context, fecha string) ([]models.StoredDraw, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, fecha, sorteo, numeros, timestamp FROM sorteos WHERE fecha = ? ORDER BY id ASC`,
		fecha,
	)
	if err != nil {
		return nil, shared.WrapError(err, shared.ErrorCategoryDatabase, "QUERY_FAILED", "DrawService", "RowsForDate", true)
	}
	defer rows.Close()
	return scanStoredDraws(rows)
}

// DistinctDatesDescending returns up to limit distinct draw dates, newest first
func (s *DrawService) DistinctDatesDescending(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT fecha FROM sorteos ORDER BY fecha DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, shared.WrapError(err, shared.ErrorCategoryDatabase, "QUERY_FAILED", "DrawService", "DistinctDatesDescending", true)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var fecha string
		if err := rows.Scan(&fecha); err != nil {
			return nil, shared.WrapError(err, shared.ErrorCategoryDatabase, "SCAN_FAILED", "DrawService", "DistinctDatesDescending", false)
		}
		dates = append(dates, fecha)
	}
	if err := rows.Err(); err != nil {
		return nil, shared.WrapError(err, shared.ErrorCategoryDatabase, "QUERY_FAILED", "DrawService", "DistinctDatesDescending", true)
	}
	return dates, nil
}

// ResetAll deletes every stored row. Only the seed reload path uses it.
func (s *DrawService) ResetAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sorteos`); err != nil {
		return shared.WrapError(err, shared.ErrorCategoryDatabase, "DELETE_FAILED", "DrawService", "ResetAll", true)
	}
	logrus.Warn("All stored draw results deleted")
	return nil
}

// GetCurrent returns the draw records of the most recent day, with the
// synthesized POZO EXTRA appended. An empty store is reported as not found.
func (s *DrawService) GetCurrent(ctx context.Context) (*models.DayResults, error) {
	fecha, ok, err := s.LatestDate(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		// An empty store is an error here, not an empty result: "no data
		// yet" must stay distinguishable from a day with zero draws.
		return nil, shared.NewServiceError(
			shared.ErrorCategoryResource,
			"STORE_EMPTY",
			"no draw results stored yet",
			"DrawService",
			"GetCurrent",
			false,
			nil,
		)
	}

	stored, err := s.RowsForDate(ctx, fecha)
	if err != nil {
		return nil, err
	}

	return &models.DayResults{
		Fecha:   fecha,
		Sorteos: s.finishDay(toRecords(stored)),
	}, nil
}

// GetRecentDays returns the last limit distinct draw days, newest first, each
// with POZO EXTRA appended. An empty store yields an empty slice.
func (s *DrawService) GetRecentDays(ctx context.Context, limit int) ([]models.DayResults, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, fecha, sorteo, numeros, timestamp FROM sorteos
		 WHERE fecha IN (SELECT DISTINCT fecha FROM sorteos ORDER BY fecha DESC LIMIT ?)
		 ORDER BY fecha DESC, id ASC`,
		limit,
	)
	if err != nil {
		return nil, shared.WrapError(err, shared.ErrorCategoryDatabase, "QUERY_FAILED", "DrawService", "GetRecentDays", true)
	}
	defer rows.Close()

	stored, err := scanStoredDraws(rows)
	if err != nil {
		return nil, err
	}

	days := make([]models.DayResults, 0, limit)
	for _, row := range stored {
		if len(days) == 0 || days[len(days)-1].Fecha != row.Fecha {
			days = append(days, models.DayResults{Fecha: row.Fecha})
		}
		day := &days[len(days)-1]
		day.Sorteos = append(day.Sorteos, models.DrawRecord{Sorteo: row.Sorteo, Numeros: row.Numeros})
	}
	for i := range days {
		days[i].Sorteos = s.finishDay(days[i].Sorteos)
	}
	return days, nil
}

// GetDayByRecencyRank returns the draw day at 1-based recency rank n within
// the last-10-days window: 1 is the most recent day, 10 the oldest listed.
func (s *DrawService) GetDayByRecencyRank(ctx context.Context, n int) (*models.RankedDay, error) {
	if n < 1 || n > RecentDaysWindow {
		return nil, shared.NewServiceError(
			shared.ErrorCategoryValidation,
			"RANK_OUT_OF_RANGE",
			"draw rank must be between 1 and 10",
			"DrawService",
			"GetDayByRecencyRank",
			false,
			nil,
		)
	}

	dates, err := s.DistinctDatesDescending(ctx, RecentDaysWindow)
	if err != nil {
		return nil, err
	}
	if n > len(dates) {
		return nil, shared.NewServiceError(
			shared.ErrorCategoryNotFound,
			"RANK_NOT_AVAILABLE",
			"no draw results stored for the requested rank",
			"DrawService",
			"GetDayByRecencyRank",
			false,
			nil,
		)
	}

	fecha := dates[n-1]
	stored, err := s.RowsForDate(ctx, fecha)
	if err != nil {
		return nil, err
	}

	return &models.RankedDay{
		Numero:  n,
		Fecha:   fecha,
		Sorteos: s.finishDay(toRecords(stored)),
	}, nil
}

// finishDay collapses duplicate (sorteo, numeros) pairs while preserving
// order and appends the synthesized POZO EXTRA record when one can be built
func (s *DrawService) finishDay(records []models.DrawRecord) []models.DrawRecord {
	deduped := make([]models.DrawRecord, 0, len(records))
	seen := make(map[models.DrawRecord]bool)
	for _, record := range records {
		if !seen[record] {
			seen[record] = true
			deduped = append(deduped, record)
		}
	}

	if pozo := s.synth.Synthesize(deduped); pozo != nil {
		deduped = append(deduped, *pozo)
	}
	return deduped
}

// toRecords strips stored rows down to their wire form
func toRecords(stored []models.StoredDraw) []models.DrawRecord {
	records := make([]models.DrawRecord, len(stored))
	for i, row := range stored {
		records[i] = models.DrawRecord{Sorteo: row.Sorteo, Numeros: row.Numeros}
	}
	return records
}

// scanStoredDraws drains a result set of full sorteos rows
func scanStoredDraws(rows *sql.Rows) ([]models.StoredDraw, error) {
	var stored []models.StoredDraw
	for rows.Next() {
		var row models.StoredDraw
		if err := rows.Scan(&row.ID, &row.Fecha, &row.Sorteo, &row.Numeros, &row.Timestamp); err != nil {
			return nil, shared.WrapError(err, shared.ErrorCategoryDatabase, "SCAN_FAILED", "DrawService", "scanStoredDraws", false)
		}
		stored = append(stored, row)
	}
	if err := rows.Err(); err != nil {
		return nil, shared.WrapError(err, shared.ErrorCategoryDatabase, "QUERY_FAILED", "DrawService", "scanStoredDraws", true)
	}
	return stored, nil
}
