package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAgeOn(t *testing.T) {
	now := time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		birth time.Time
		want  int
	}{
		{"exactly thirteen", time.Date(2011, time.June, 15, 0, 0, 0, 0, time.UTC), 13},
		{"one day short of thirteen", time.Date(2011, time.June, 16, 0, 0, 0, 0, time.UTC), 12},
		{"month not reached", time.Date(2011, time.July, 1, 0, 0, 0, 0, time.UTC), 12},
		{"month passed", time.Date(2011, time.May, 31, 0, 0, 0, 0, time.UTC), 13},
		{"adult", time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC), 34},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, AgeOn(c.birth, now))
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "test@example.com", NormalizeEmail("  Test@Example.COM "))
}

func TestUser_View(t *testing.T) {
	u := User{ID: "u1", Name: "Ann", Email: "ann@example.com", Role: RoleFilmAdmin, PasswordHash: "secret"}
	assert.Equal(t, UserView{ID: "u1", Name: "Ann", Email: "ann@example.com", Role: RoleFilmAdmin}, u.View())
}
