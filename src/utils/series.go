package utils

// Series is an insertion-ordered date -> value series, the container behind
// every mark-to-market curve. Setting an existing date updates the value in
// place, so a series holds at most one entry per trading date.
type Series struct {
	dates  []string
	values map[string]float64
}

func NewSeries() *Series {
	return &Series{values: make(map[string]float64)}
}

func (s *Series) Set(date string, value float64) {
	if _, ok := s.values[date]; !ok {
		s.dates = append(s.dates, date)
	}
	s.values[date] = value
}

func (s *Series) Get(date string) (float64, bool) {
	v, ok := s.values[date]
	return v, ok
}

func (s *Series) Len() int {
	return len(s.dates)
}

func (s *Series) Dates() []string {
	return s.dates
}

func (s *Series) Values() []float64 {
	out := make([]float64, len(s.dates))
	for i, d := range s.dates {
		out[i] = s.values[d]
	}
	return out
}

func (s *Series) Last() (string, float64, bool) {
	if len(s.dates) == 0 {
		return "", 0, false
	}
	d := s.dates[len(s.dates)-1]
	return d, s.values[d], true
}

// Add merges other into a new series, summing values on shared dates and
// treating missing dates as zero on either side. Dates of the receiver keep
// their order; dates only in other are appended in their order.
func (s *Series) Add(other *Series) *Series {
	merged := NewSeries()
	for _, d := range s.dates {
		merged.Set(d, s.values[d])
	}
	for _, d := range other.dates {
		if v, ok := merged.Get(d); ok {
			merged.Set(d, v+other.values[d])
		} else {
			merged.Set(d, other.values[d])
		}
	}
	return merged
}
