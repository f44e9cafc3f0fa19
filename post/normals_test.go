package post

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWallNormalFilesRoundTrip(t *testing.T) {
	// GIVEN a topology holding a curved wall-normal field
	dir := t.TempDir()
	topo := NewTopology()
	topo.Normals[1] = &WallNormalField{
		X: []float64{0, 0.1, 0.25},
		Y: []float64{1, 0.99498743710662, 0.96824583655185426},
	}
	info := &SimInfo{NBlocks: 1, Dims: map[int]BlockDims{1: {Nx: 3, Ny: 8, Nz: 1}}}

	// WHEN the field is saved and loaded back
	assert.NoError(t, topo.SaveWallNormals(dir))

	loaded := NewTopology()
	assert.NoError(t, loaded.LoadWallNormals(dir, info))

	// THEN the loaded topology matches and remembers that a file existed
	assert.True(t, loaded.HasNormalFile)
	assert.Equal(t, topo.Normals[1].X, loaded.Normals[1].X)
	assert.Equal(t, topo.Normals[1].Y, loaded.Normals[1].Y)
}

func TestLoadWallNormalsToleratesMissingFiles(t *testing.T) {
	// GIVEN a directory without any wall-normal files
	dir := t.TempDir()
	topo := NewTopology()
	info := &SimInfo{NBlocks: 2, Dims: map[int]BlockDims{1: {Nx: 3}, 2: {Nx: 3}}}

	// WHEN loading runs
	err := topo.LoadWallNormals(dir, info)

	// THEN it succeeds with the fallback marker unset
	assert.NoError(t, err)
	assert.False(t, topo.HasNormalFile)
	assert.Empty(t, topo.Normals)
}

func TestLoadWallNormalsRejectsStationCountMismatch(t *testing.T) {
	// GIVEN a wall-normal file with fewer stations than the grid
	dir := t.TempDir()
	path := filepath.Join(dir, "normals_bl1.dat")
	assert.NoError(t, os.WriteFile(path, []byte("0 0 1\n1 0 1\n"), 0o644))

	topo := NewTopology()
	info := &SimInfo{NBlocks: 1, Dims: map[int]BlockDims{1: {Nx: 5}}}

	// WHEN loading runs
	err := topo.LoadWallNormals(dir, info)

	// THEN the mismatch is an error
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "stations")
}

func TestLoadWallNormalsSkipsCommentsAndBlankLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "normals_bl1.dat")
	content := "# wall normals\n\n0 0.0 1.0\n1 0.1 0.99\n"
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	topo := NewTopology()
	info := &SimInfo{NBlocks: 1, Dims: map[int]BlockDims{1: {Nx: 2}}}

	assert.NoError(t, topo.LoadWallNormals(dir, info))
	assert.Equal(t, []float64{0, 0.1}, topo.Normals[1].X)
	assert.Equal(t, []float64{1, 0.99}, topo.Normals[1].Y)
}

func TestFlatWallNormalsPointStraightUp(t *testing.T) {
	f := FlatWallNormals(4)
	assert.Equal(t, 4, f.Len())
	for i := 0; i < 4; i++ {
		assert.Equal(t, 0.0, f.X[i])
		assert.Equal(t, 1.0, f.Y[i])
	}
}

func TestHasWallRequiresWallOnJminFace(t *testing.T) {
	topo := NewTopology()
	topo.BCs[1] = BlockBC{FaceJmin: BCWall}
	topo.BCs[2] = BlockBC{FaceJmin: BCSlipWall}
	topo.BCs[3] = BlockBC{FaceImin: BCWall}

	assert.True(t, topo.HasWall(1))
	assert.False(t, topo.HasWall(2), "slip walls have no boundary layer")
	assert.False(t, topo.HasWall(3), "walls on other faces are out of scope")
	assert.False(t, topo.HasWall(4), "unknown block")
}
