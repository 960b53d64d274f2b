package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampGrade(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{-3, 1}, {0, 1}, {1, 1}, {5, 5}, {10, 10}, {11, 10}, {15, 10},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ClampGrade(c.in), "grade %d", c.in)
	}
}

func TestClampGrade_AlwaysInRange(t *testing.T) {
	for g := -50; g <= 50; g++ {
		got := ClampGrade(g)
		assert.GreaterOrEqual(t, got, MinGrade)
		assert.LessOrEqual(t, got, MaxGrade)
		if g >= MinGrade && g <= MaxGrade {
			assert.Equal(t, g, got)
		}
	}
}

func TestReviewInput_Normalized(t *testing.T) {
	in := ReviewInput{Text: "ok", Grade: 42, Recommend: true}
	out := in.Normalized()
	assert.Equal(t, 10, out.Grade)
	assert.Equal(t, "ok", out.Text)
	assert.True(t, out.Recommend)
	assert.Equal(t, 42, in.Grade, "receiver must not be modified")
}
