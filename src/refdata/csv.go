package refdata

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// NewCSVRefData loads reference entries from a CSV file into a StaticRefData.
func NewCSVRefData(path string) (*StaticRefData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference data file %s: %w", path, err)
	}
	defer f.Close()

	var entries []*Entry
	if err := gocsv.UnmarshalFile(f, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse reference data file %s: %w", path, err)
	}

	ref := NewStaticRefData()
	for _, e := range entries {
		ref.Set(*e)
	}
	return ref, nil
}
