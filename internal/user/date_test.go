package user

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	d := NewDate(1990, time.January, 1)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"1990-01-01"`, string(b))

	var parsed Date
	require.NoError(t, json.Unmarshal(b, &parsed))
	assert.True(t, parsed.Equal(d.Time))
}

func TestDate_JSONNull(t *testing.T) {
	b, err := json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))

	var payload struct {
		DateOfBirth Date `json:"dateOfBirth"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"dateOfBirth":null}`), &payload))
	assert.True(t, payload.DateOfBirth.IsZero())
}

func TestDate_JSONInvalid(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"01/01/1990"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`"1990-13-01"`), &d))
}

func TestDate_Scan(t *testing.T) {
	var d Date

	require.NoError(t, d.Scan(time.Date(1990, time.January, 1, 10, 30, 0, 0, time.UTC)))
	assert.Equal(t, "1990-01-01", d.String())

	require.NoError(t, d.Scan("2000-02-29"))
	assert.Equal(t, "2000-02-29", d.String())

	require.NoError(t, d.Scan([]byte("2001-03-04")))
	assert.Equal(t, "2001-03-04", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}

func TestDate_Value(t *testing.T) {
	v, err := Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	d := NewDate(1990, time.January, 1)
	v, err = d.Value()
	require.NoError(t, err)
	assert.Equal(t, d.Time, v)
}

func TestDate_Between(t *testing.T) {
	from := NewDate(1990, time.January, 1)
	to := NewDate(1999, time.December, 31)

	assert.True(t, from.Between(from, to))
	assert.True(t, to.Between(from, to))
	assert.True(t, NewDate(1995, time.June, 15).Between(from, to))
	assert.False(t, NewDate(1989, time.December, 31).Between(from, to))
	assert.False(t, NewDate(2000, time.January, 1).Between(from, to))
}
