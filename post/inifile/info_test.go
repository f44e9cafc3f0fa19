package inifile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mbpost/mbpost/post"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleInfo = `nbloc&ndim&is_curv&is_2d = 2 2 T T
block 1 = 400 200 1
block 2 = 120 200 1
ngh = 5
uref rhoref = 236.44 0.547
tscale = 1.2e-05
label = run3
`

func TestReadInfoParsesHeaderBlocksAndScalars(t *testing.T) {
	// GIVEN an info file with a &-joined header, two block lines and
	// scalar parameters
	path := writeTempFile(t, "info.ini", sampleInfo)

	// WHEN it is parsed
	info, err := ReadInfo(path)

	// THEN header keys, block extents and numeric scalars are all there
	assert.NoError(t, err)
	assert.Equal(t, 2, info.NBloc)
	assert.Equal(t, "T", info.Header["is_curv"])
	assert.Equal(t, post.BlockDims{Nx: 400, Ny: 200, Nz: 1}, info.Dims[1])
	assert.Equal(t, post.BlockDims{Nx: 120, Ny: 200, Nz: 1}, info.Dims[2])
	assert.Equal(t, 236.44, info.Values["uref"])
	assert.Equal(t, 0.547, info.Values["rhoref"])
	assert.Equal(t, 1.2e-05, info.Values["tscale"])

	// non-numeric scalars are skipped, not an error
	_, ok := info.Values["label"]
	assert.False(t, ok)
}

func TestReadInfoSimInfoCarriesReferenceState(t *testing.T) {
	path := writeTempFile(t, "info.ini", sampleInfo)
	info, err := ReadInfo(path)
	assert.NoError(t, err)

	si := info.SimInfo()
	assert.Equal(t, 2, si.NBlocks)
	assert.Equal(t, 236.44, si.URef)
	assert.Equal(t, 0.547, si.RhoRef)
	assert.True(t, si.IsCurv)
	assert.Equal(t, 5, si.Ngh)
}

func TestReadInfoDefaultsGhostPointsWhenAbsent(t *testing.T) {
	// GIVEN an info file without an ngh entry
	content := `nbloc&is_curv = 1 F
block 1 = 10 10 1
uref rhoref = 1 1
`
	path := writeTempFile(t, "info.ini", content)
	info, err := ReadInfo(path)
	assert.NoError(t, err)

	// WHEN the simulation parameters are built
	si := info.SimInfo()

	// THEN the solver default of 5 ghost points applies
	assert.Equal(t, 5, si.Ngh)
	assert.False(t, si.IsCurv)
}

func TestReadInfoRejectsHeaderKeyValueMismatch(t *testing.T) {
	path := writeTempFile(t, "info.ini", "nbloc&ndim = 1\n")
	_, err := ReadInfo(path)
	assert.Error(t, err)
}

func TestReadInfoRejectsMissingBlockLines(t *testing.T) {
	path := writeTempFile(t, "info.ini", "nbloc = 3\nblock 1 = 10 10 1\n")
	_, err := ReadInfo(path)
	assert.Error(t, err)
}

func TestReadInfoMissingFileIsAnError(t *testing.T) {
	_, err := ReadInfo(filepath.Join(t.TempDir(), "info.ini"))
	assert.Error(t, err)
}
