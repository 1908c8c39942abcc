package wifi

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pointsYAML = `points:
  - id: square
    name: Central square
    address: Lenina sq., 1
    lat: 55.7539
    lon: 37.6208
  - id: park
    name: Gorky park
    address: Krymsky Val, 9
    lat: 55.7298
    lon: 37.6010
  - id: station
    name: Railway station
    address: Komsomolskaya sq., 3
    lat: 55.7765
    lon: 37.6550
`

func TestLoadAndNearest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.yaml")
	require.NoError(t, os.WriteFile(path, []byte(pointsYAML), 0o644))

	d, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, d.Points(), 3)
	assert.True(t, d.Has("park"))
	assert.False(t, d.Has("library"))

	near, err := d.Nearest(55.7300, 37.6000, 2)
	require.NoError(t, err)
	require.Len(t, near, 2)
	assert.Equal(t, "park", near[0].ID)
	assert.Equal(t, "square", near[1].ID)
	assert.Less(t, near[0].DistanceMeters, 200.0)
	assert.InDelta(t, 2800, near[1].DistanceMeters, 400)

	all, err := d.Nearest(55.7300, 37.6000, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = d.Nearest(100, 0, 1)
	assert.Error(t, err)
}

func TestNewDirectory_Validation(t *testing.T) {
	_, err := NewDirectory([]Point{{ID: "a", Lat: 1, Lon: 1}, {ID: "a", Lat: 2, Lon: 2}})
	assert.Error(t, err)

	_, err = NewDirectory([]Point{{ID: "", Lat: 1, Lon: 1}})
	assert.Error(t, err)

	_, err = NewDirectory([]Point{{ID: "x", Lat: 95, Lon: 1}})
	assert.Error(t, err)
}
