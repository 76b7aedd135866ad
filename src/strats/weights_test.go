package strats

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wqtech/bullet/src/eventmodels"
)

func TestStaticWeightModel(t *testing.T) {
	m := NewStaticWeightModel()
	m.SetWeight("20230104", "600000", 0.6)
	m.SetWeight("20230104", "600001", 0.4)

	t.Run("dates with weights", func(t *testing.T) {
		weights, err := m.TargetWeights("20230104")
		require.NoError(t, err)
		assert.Equal(t, 0.6, weights[eventmodels.Instrument("600000")])
		assert.Equal(t, 0.4, weights[eventmodels.Instrument("600001")])
	})

	t.Run("dates without weights have no view", func(t *testing.T) {
		weights, err := m.TargetWeights("20230105")
		require.NoError(t, err)
		assert.Nil(t, weights)
	})
}

func TestNewCSVWeightModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.csv")
	content := "trade_date,sec_id,weight\n" +
		"20230104,600000,0.6\n" +
		"20230104,600001,0.4\n" +
		"20230105,600000,1.0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	m, err := NewCSVWeightModel(path)
	require.NoError(t, err)

	weights, err := m.TargetWeights("20230104")
	require.NoError(t, err)
	require.Len(t, weights, 2)
	assert.Equal(t, 0.6, weights[eventmodels.Instrument("600000")])

	weights, err = m.TargetWeights("20230105")
	require.NoError(t, err)
	require.Len(t, weights, 1)
	assert.Equal(t, 1.0, weights[eventmodels.Instrument("600000")])

	t.Run("missing file fails", func(t *testing.T) {
		_, err := NewCSVWeightModel(filepath.Join(t.TempDir(), "nope.csv"))
		assert.Error(t, err)
	})
}
