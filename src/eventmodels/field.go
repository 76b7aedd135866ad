package eventmodels

import "sort"

// Field names a column of a market data record.
type Field string

const (
	FieldPrice     Field = "price"
	FieldOpen      Field = "open"
	FieldHigh      Field = "high"
	FieldLow       Field = "low"
	FieldClose     Field = "close"
	FieldVolume    Field = "volume"
	FieldPctChange Field = "pct_change"
)

// FieldSet is a set of subscribed data fields. The zero value is the empty
// set. A set created with AllFields is unbounded: it contains every field,
// and stays unbounded under union regardless of what it is merged with.
type FieldSet struct {
	all    bool
	fields map[Field]struct{}
}

func NewFieldSet(fields ...Field) *FieldSet {
	fs := &FieldSet{fields: make(map[Field]struct{})}
	for _, f := range fields {
		fs.fields[f] = struct{}{}
	}
	return fs
}

// AllFields returns the unbounded field set.
func AllFields() *FieldSet {
	return &FieldSet{all: true}
}

func (fs *FieldSet) IsAll() bool {
	return fs.all
}

func (fs *FieldSet) Contains(f Field) bool {
	if fs.all {
		return true
	}
	_, ok := fs.fields[f]
	return ok
}

func (fs *FieldSet) Len() int {
	if fs.all {
		return 0
	}
	return len(fs.fields)
}

// Union merges other into a new set. If either side is unbounded, the result
// is unbounded: one all-fields subscriber makes the aggregate request
// unbounded.
func (fs *FieldSet) Union(other *FieldSet) *FieldSet {
	if other == nil {
		return fs
	}
	if fs.all || other.all {
		return AllFields()
	}

	merged := NewFieldSet()
	for f := range fs.fields {
		merged.fields[f] = struct{}{}
	}
	for f := range other.fields {
		merged.fields[f] = struct{}{}
	}
	return merged
}

// Fields returns the explicit members in sorted order. Unbounded sets return
// nil.
func (fs *FieldSet) Fields() []Field {
	if fs.all {
		return nil
	}

	fields := make([]Field, 0, len(fs.fields))
	for f := range fs.fields {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	return fields
}
