package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astroflux/astroflux/backend/internal/models"
)

func testHoroscope(sign, period, date string) *models.Horoscope {
	return &models.Horoscope{
		ZodiacSign: sign,
		Period:     period,
		TargetDate: date,
		Content:    "A good day for " + sign,
		LoveScore:  80,
		CreatedBy:  1,
	}
}

func TestHoroscopeCreateValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewHoroscopeService(db)

	assert.ErrorIs(t, svc.Create(testHoroscope("dragon", "daily", "2026-09-01")), ErrInvalidZodiacSign)
	assert.ErrorIs(t, svc.Create(testHoroscope("aries", "hourly", "2026-09-01")), ErrInvalidPeriod)

	row := testHoroscope("aries", "daily", "2026-09-01")
	require.NoError(t, svc.Create(row))
	assert.NotZero(t, row.ID)
	assert.True(t, row.IsActive)
}

func TestHoroscopeExists(t *testing.T) {
	db := setupTestDB(t)
	svc := NewHoroscopeService(db)

	require.NoError(t, svc.Create(testHoroscope("aries", "daily", "2026-09-01")))

	exists, err := svc.Exists("aries", "daily", "2026-09-01")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.Exists("taurus", "daily", "2026-09-01")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = svc.Exists("aries", "weekly", "2026-09-01")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestHoroscopeGetPublic(t *testing.T) {
	db := setupTestDB(t)
	svc := NewHoroscopeService(db)

	row := testHoroscope("aries", "daily", "2026-09-01")
	require.NoError(t, svc.Create(row))

	t.Run("active row is served", func(t *testing.T) {
		got, err := svc.GetPublic("aries", "daily", "2026-09-01")
		require.NoError(t, err)
		assert.Equal(t, row.ID, got.ID)
	})

	t.Run("invalid sign", func(t *testing.T) {
		_, err := svc.GetPublic("dragon", "daily", "2026-09-01")
		assert.ErrorIs(t, err, ErrInvalidZodiacSign)
	})

	t.Run("invalid period", func(t *testing.T) {
		_, err := svc.GetPublic("aries", "hourly", "2026-09-01")
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	})

	t.Run("missing date", func(t *testing.T) {
		_, err := svc.GetPublic("aries", "daily", "2026-09-02")
		assert.ErrorIs(t, err, ErrHoroscopeNotFound)
	})

	t.Run("inactive row is hidden", func(t *testing.T) {
		require.NoError(t, svc.SetActive(row.ID, false))
		_, err := svc.GetPublic("aries", "daily", "2026-09-01")
		assert.ErrorIs(t, err, ErrHoroscopeNotFound)
	})
}

func TestHoroscopeListFilters(t *testing.T) {
	db := setupTestDB(t)
	svc := NewHoroscopeService(db)

	require.NoError(t, svc.Create(testHoroscope("aries", "daily", "2026-09-01")))
	require.NoError(t, svc.Create(testHoroscope("taurus", "daily", "2026-09-01")))
	require.NoError(t, svc.Create(testHoroscope("aries", "weekly", "2026-09-01")))
	require.NoError(t, svc.Create(testHoroscope("aries", "daily", "2026-08-31")))

	rows, err := svc.List("aries", "", "", 100)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	rows, err = svc.List("aries", "daily", "", 100)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = svc.List("", "", "2026-09-01", 100)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	rows, err = svc.List("", "", "", 100)
	require.NoError(t, err)
	assert.Len(t, rows, 4)
	// Newest target date first.
	assert.Equal(t, "2026-09-01", rows[0].TargetDate)
}

func TestHoroscopeDelete(t *testing.T) {
	db := setupTestDB(t)
	svc := NewHoroscopeService(db)

	row := testHoroscope("aries", "daily", "2026-09-01")
	require.NoError(t, svc.Create(row))

	require.NoError(t, svc.Delete(row.ID))
	assert.ErrorIs(t, svc.Delete(row.ID), ErrHoroscopeNotFound)
	assert.ErrorIs(t, svc.SetActive(row.ID, true), ErrHoroscopeNotFound)
}

func TestHoroscopeDeleteByDate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewHoroscopeService(db)

	require.NoError(t, svc.Create(testHoroscope("aries", "daily", "2026-09-01")))
	require.NoError(t, svc.Create(testHoroscope("taurus", "daily", "2026-09-01")))
	require.NoError(t, svc.Create(testHoroscope("aries", "daily", "2026-08-31")))

	deleted, err := svc.DeleteByDate("2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	var count int64
	require.NoError(t, db.Model(&models.Horoscope{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestHoroscopeCountActive(t *testing.T) {
	db := setupTestDB(t)
	svc := NewHoroscopeService(db)

	a := testHoroscope("aries", "daily", "2026-09-01")
	b := testHoroscope("taurus", "daily", "2026-09-01")
	require.NoError(t, svc.Create(a))
	require.NoError(t, svc.Create(b))
	require.NoError(t, svc.SetActive(b.ID, false))

	count, err := svc.CountActive()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
