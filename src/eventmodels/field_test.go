package eventmodels

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldSet(t *testing.T) {
	t.Run("empty set contains nothing", func(t *testing.T) {
		fs := NewFieldSet()

		assert.False(t, fs.IsAll())
		assert.False(t, fs.Contains(FieldClose))
		assert.Equal(t, 0, fs.Len())
	})

	t.Run("explicit membership", func(t *testing.T) {
		fs := NewFieldSet(FieldOpen, FieldClose)

		assert.True(t, fs.Contains(FieldOpen))
		assert.True(t, fs.Contains(FieldClose))
		assert.False(t, fs.Contains(FieldVolume))
		assert.Equal(t, 2, fs.Len())
	})

	t.Run("all fields contains everything", func(t *testing.T) {
		fs := AllFields()

		assert.True(t, fs.IsAll())
		assert.True(t, fs.Contains(FieldPrice))
		assert.True(t, fs.Contains(FieldPctChange))
		assert.Nil(t, fs.Fields())
	})

	t.Run("union merges members", func(t *testing.T) {
		merged := NewFieldSet(FieldOpen).Union(NewFieldSet(FieldClose, FieldOpen))

		assert.Equal(t, []Field{FieldClose, FieldOpen}, merged.Fields())
	})

	t.Run("union with all is all", func(t *testing.T) {
		merged := NewFieldSet(FieldOpen).Union(AllFields())
		assert.True(t, merged.IsAll())

		merged = AllFields().Union(NewFieldSet(FieldOpen))
		assert.True(t, merged.IsAll())
	})

	t.Run("fields are sorted", func(t *testing.T) {
		fs := NewFieldSet(FieldVolume, FieldClose, FieldHigh)

		assert.Equal(t, []Field{FieldClose, FieldHigh, FieldVolume}, fs.Fields())
	})
}
