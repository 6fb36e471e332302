package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckUpdateFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		fields  []string
		wantErr bool
	}{
		{"all allowed", []string{"where", "paid"}, false},
		{"one disallowed", []string{"where", "owner"}, true},
		{"only disallowed", []string{"_id"}, true},
		{"empty", nil, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckUpdateFields(tc.fields, ShiftUpdatableFields)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrValidation))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestCheckUpdateFields_ListsRejectedFields(t *testing.T) {
	t.Parallel()

	err := CheckUpdateFields([]string{"tokens", "name", "joined"}, UserUpdatableFields)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "joined, tokens")
}

func TestParseShiftDate(t *testing.T) {
	t.Parallel()

	want := time.Date(2022, 3, 8, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"08-03-2022", "2022-03-08", "2022-03-08T17:30:00Z", " 08-03-2022 "} {
		got, err := ParseShiftDate(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s parsed to %v", in, got)
	}

	late, err := ParseShiftDate("2022-03-08T23:30:00-05:00")
	require.NoError(t, err)
	assert.Equal(t, "08-03-2022", FormatShiftDate(late))

	_, err = ParseShiftDate("yesterday")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestFormatShiftDate_PadsDayAndMonth(t *testing.T) {
	t.Parallel()

	got := FormatShiftDate(time.Date(2022, 1, 5, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, "05-01-2022", got)
	assert.Len(t, got, 10)
}

func TestShiftValidate(t *testing.T) {
	t.Parallel()

	ok := Shift{Owner: "u1", Billed: 205, Description: "Worked 8 hours"}
	require.NoError(t, ok.Validate())

	negative := ok
	negative.Billed = -1
	assert.ErrorIs(t, negative.Validate(), ErrValidation)

	noOwner := ok
	noOwner.Owner = ""
	assert.ErrorIs(t, noOwner.Validate(), ErrValidation)

	noDescription := ok
	noDescription.Description = "   "
	assert.ErrorIs(t, noDescription.Validate(), ErrValidation)
}

func TestShiftChanges_Apply(t *testing.T) {
	t.Parallel()

	where := "  Lymington "
	paid := true
	s := Shift{Where: "Brockenhurst", Billed: 100, Description: "d"}

	ShiftChanges{Where: &where, Paid: &paid}.Apply(&s)

	assert.Equal(t, "Lymington", s.Where)
	assert.True(t, s.Paid)
	assert.Equal(t, 100.0, s.Billed)
}

func TestUser_ProfileAndTokens(t *testing.T) {
	t.Parallel()

	joined := time.Now().UTC()
	u := User{ID: "u1", Name: "Matt", Email: "matt@email.com", PasswordHash: "hash", Joined: joined, Tokens: []string{"a", "b"}}

	assert.Equal(t, Profile{Name: "Matt", Email: "matt@email.com", Joined: joined}, u.Profile())
	assert.True(t, u.HasToken("b"))
	assert.False(t, u.HasToken("c"))
}
