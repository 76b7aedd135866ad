package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeries(t *testing.T) {
	t.Run("insertion order preserved", func(t *testing.T) {
		s := NewSeries()
		s.Set("20230104", 2)
		s.Set("20230103", 1)

		assert.Equal(t, []string{"20230104", "20230103"}, s.Dates())
		assert.Equal(t, []float64{2, 1}, s.Values())
	})

	t.Run("setting an existing date updates in place", func(t *testing.T) {
		s := NewSeries()
		s.Set("20230103", 1)
		s.Set("20230103", 5)

		assert.Equal(t, 1, s.Len())
		v, ok := s.Get("20230103")
		assert.True(t, ok)
		assert.Equal(t, 5.0, v)
	})

	t.Run("last", func(t *testing.T) {
		s := NewSeries()
		_, _, ok := s.Last()
		assert.False(t, ok)

		s.Set("20230103", 1)
		s.Set("20230104", 2)
		d, v, ok := s.Last()
		assert.True(t, ok)
		assert.Equal(t, "20230104", d)
		assert.Equal(t, 2.0, v)
	})

	t.Run("add sums shared dates and unions the rest", func(t *testing.T) {
		a := NewSeries()
		a.Set("20230103", 1)
		a.Set("20230104", 2)

		b := NewSeries()
		b.Set("20230104", 10)
		b.Set("20230105", 20)

		merged := a.Add(b)
		assert.Equal(t, []string{"20230103", "20230104", "20230105"}, merged.Dates())
		assert.Equal(t, []float64{1, 12, 20}, merged.Values())
	})
}
