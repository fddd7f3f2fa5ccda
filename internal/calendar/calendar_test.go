package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGregorianFormat(t *testing.T) {
	ts := time.Date(2024, 3, 5, 7, 9, 0, 0, time.UTC)
	f := Gregorian{}

	assert.Equal(t, "2024-03-05", f.Format(ts, DayKey))
	assert.Equal(t, "05/03/2024 07:09", f.Format(ts, "dd/MM/yyyy HH:mm"))
	assert.Equal(t, "at 07h", f.Format(ts, "at HHh"))
}

func TestPersianFormat(t *testing.T) {
	// Nowruz 1403
	ts := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	f := Persian{}

	assert.Equal(t, "1403-01-01", f.Format(ts, DayKey))
}

func TestDifferenceInDays(t *testing.T) {
	a := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, differenceInDays(a, a.Add(-23*time.Hour)))
	assert.Equal(t, 1, differenceInDays(a, a.Add(-25*time.Hour)))
	assert.Equal(t, -2, Gregorian{}.DifferenceInDays(a, a.Add(50*time.Hour)))
}

func TestNew(t *testing.T) {
	f, err := New("")
	require.NoError(t, err)
	assert.Equal(t, NameGregorian, f.Name())

	f, err = New("Persian")
	require.NoError(t, err)
	assert.Equal(t, NamePersian, f.Name())

	_, err = New("mayan")
	assert.Error(t, err)
}
