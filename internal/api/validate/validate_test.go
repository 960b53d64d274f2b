package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email string `json:"email" validate:"required,email"`
	Year  int    `json:"year" validate:"gte=1888,lte=3000"`
	Day   string `json:"day,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func TestStruct_ReportsJSONNames(t *testing.T) {
	err := Struct(sample{Email: "nope", Year: 12, Day: "15/06/2024"})
	require.Error(t, err)

	var errs Errs
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 3)
	assert.Equal(t, ErrField{Field: "email", Msg: "must be a valid email"}, errs[0])
	assert.Equal(t, ErrField{Field: "year", Msg: "must be >= 1888"}, errs[1])
	assert.Equal(t, "day", errs[2].Field)
	assert.Contains(t, err.Error(), "email: must be a valid email; year:")
}

func TestStruct_OK(t *testing.T) {
	assert.NoError(t, Struct(sample{Email: "a@example.com", Year: 1999, Day: "2024-06-15"}))
}
