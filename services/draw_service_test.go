package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Federico-Chandia/Scrapper-quini6/database"
	"github.com/Federico-Chandia/Scrapper-quini6/shared"
)

func newTestDrawService(t *testing.T) *DrawService {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	require.NoError(t, database.Migrate(db, "../database/schema.sql"))
	return NewDrawService(db, NewPozoExtraSynthesizer(99))
}

func errorCategory(t *testing.T, err error) shared.ErrorCategory {
	t.Helper()
	var serviceErr *shared.ServiceError
	require.True(t, errors.As(err, &serviceErr))
	return serviceErr.Category
}

func TestInsertAndGetCurrent(t *testing.T) {
	svc := newTestDrawService(t)
	ctx := context.Background()

	rows := []struct{ fecha, sorteo, numeros string }{
		{"2025-09-03", "TRADICIONAL", "20 - 24 - 29 - 33 - 39 - 43"},
		{"2025-09-07", "TRADICIONAL", "05 - 18 - 19 - 28 - 39 - 40"},
		{"2025-09-07", "LA SEGUNDA", "17 - 18 - 19 - 24 - 25 - 43"},
		{"2025-09-07", "REVANCHA", "00 - 09 - 11 - 38 - 40 - 42"},
	}
	for _, row := range rows {
		wrote, err := svc.InsertIgnoring(ctx, row.fecha, row.sorteo, row.numeros)
		require.NoError(t, err)
		assert.True(t, wrote)
	}

	day, err := svc.GetCurrent(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2025-09-07", day.Fecha)
	require.Len(t, day.Sorteos, 4)
	assert.Equal(t, "TRADICIONAL", day.Sorteos[0].Sorteo)
	assert.Equal(t, PozoExtraLabel, day.Sorteos[3].Sorteo)
	assert.Equal(t, "00 - 05 - 09 - 11 - 17 - 18 - 19 - 24 - 25 - 28 - 38 - 39 - 40 - 42 - 43", day.Sorteos[3].Numeros)
}

func TestInsertIgnoringDeduplicates(t *testing.T) {
	svc := newTestDrawService(t)
	ctx := context.Background()

	wrote, err := svc.InsertIgnoring(ctx, "2025-09-07", "TRADICIONAL", "05 - 18 - 19 - 28 - 39 - 40")
	require.NoError(t, err)
	assert.True(t, wrote)

	wrote, err = svc.InsertIgnoring(ctx, "2025-09-07", "TRADICIONAL", "05 - 18 - 19 - 28 - 39 - 40")
	require.NoError(t, err)
	assert.False(t, wrote)

	stored, err := svc.RowsForDate(ctx, "2025-09-07")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestGetCurrentEmptyStore(t *testing.T) {
	svc := newTestDrawService(t)

	_, err := svc.GetCurrent(context.Background())
	require.Error(t, err)
	assert.Equal(t, shared.ErrorCategoryResource, errorCategory(t, err))
}

func TestGetRecentDays(t *testing.T) {
	svc := newTestDrawService(t)
	ctx := context.Background()

	dates := []string{"2025-08-06", "2025-08-10", "2025-08-13", "2025-08-17"}
	for _, fecha := range dates {
		for _, sorteo := range []string{"TRADICIONAL", "LA SEGUNDA", "REVANCHA"} {
			_, err := svc.InsertIgnoring(ctx, fecha, sorteo, "01 - 02 - 03 - 04 - 05 - 06")
			require.NoError(t, err)
		}
	}

	days, err := svc.GetRecentDays(ctx, RecentDaysWindow)
	require.NoError(t, err)
	require.Len(t, days, 4)

	// Newest first
	assert.Equal(t, "2025-08-17", days[0].Fecha)
	assert.Equal(t, "2025-08-06", days[3].Fecha)

	// Three stored draws plus the synthesized one
	for _, day := range days {
		require.Len(t, day.Sorteos, 4)
		assert.Equal(t, PozoExtraLabel, day.Sorteos[3].Sorteo)
	}
}

func TestGetRecentDaysEmptyStore(t *testing.T) {
	svc := newTestDrawService(t)

	days, err := svc.GetRecentDays(context.Background(), RecentDaysWindow)
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestGetDayByRecencyRank(t *testing.T) {
	svc := newTestDrawService(t)
	ctx := context.Background()

	for _, fecha := range []string{"2025-09-03", "2025-09-07"} {
		for _, sorteo := range []string{"TRADICIONAL", "LA SEGUNDA", "REVANCHA"} {
			_, err := svc.InsertIgnoring(ctx, fecha, sorteo, "01 - 02 - 03 - 04 - 05 - 06")
			require.NoError(t, err)
		}
	}

	day, err := svc.GetDayByRecencyRank(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, day.Numero)
	assert.Equal(t, "2025-09-07", day.Fecha)

	day, err = svc.GetDayByRecencyRank(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "2025-09-03", day.Fecha)
}

func TestGetDayByRecencyRankBounds(t *testing.T) {
	svc := newTestDrawService(t)
	ctx := context.Background()

	_, err := svc.GetDayByRecencyRank(ctx, 0)
	require.Error(t, err)
	assert.Equal(t, shared.ErrorCategoryValidation, errorCategory(t, err))

	_, err = svc.GetDayByRecencyRank(ctx, 11)
	require.Error(t, err)
	assert.Equal(t, shared.ErrorCategoryValidation, errorCategory(t, err))

	// Valid rank but the store is empty
	_, err = svc.GetDayByRecencyRank(ctx, 1)
	require.Error(t, err)
	assert.Equal(t, shared.ErrorCategoryNotFound, errorCategory(t, err))
}

func TestResetAll(t *testing.T) {
	svc := newTestDrawService(t)
	ctx := context.Background()

	_, err := svc.InsertIgnoring(ctx, "2025-09-07", "TRADICIONAL", "05 - 18 - 19 - 28 - 39 - 40")
	require.NoError(t, err)

	require.NoError(t, svc.ResetAll(ctx))

	_, ok, err := svc.LatestDate(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
