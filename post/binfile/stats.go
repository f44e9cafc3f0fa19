package binfile

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/mbpost/mbpost/post"
)

// stats1Vars is the variable order of the first statistics file
// (stats1_bl<n>.bin), shared across the boundary-layer cases.
var stats1Vars = []string{
	"rho", "uu", "vv", "ww", "prs", "T",
	"rhou", "rhov", "rhow", "rhoe", "rho^2",
	"u2", "v2", "w2", "uv", "uw", "vw",
	"vT", "p2", "T2", "mu", "div", "div^2",
}

// stats2VarsSTBL is the variable order of stats2_bl<n>.bin for the stbl
// case. The file carries 144 records; trailing records beyond this list are
// unnamed and skipped.
var stats2VarsSTBL = []string{
	"e", "h", "c", "s", "M", "kt", "g", "la", "cp", "cv", "pr",
	"eck", "rho*dux", "rho*duy", "rho*duz", "rho*dvx", "rho*dvy", "rho*dvz",
	"rho*dwx", "rho*dwy", "rho*dwz", "p*div", "rho*div", "b1", "b2", "b3", "rho*T",
	"u*T", "v*T", "e^2", "h^2", "c^2", "s^2", "Mt^2", "g^2", "mu^2", "la^2", "cv^2",
	"cp^2", "pr^2", "eck^2", "p*u", "p*v", "s*u", "s*v", "p*rho", "h*rho", "T*p",
	"p*s",
	"T*s", "rho*s", "g*rho", "g*p", "g*s", "g*T", "g*u", "g*v", "p*dux", "p*dvy",
	"p*dwz", "p*duy", "p*dvx", "rho*div^2", "dux^2", "duy^2", "duz^2", "dvx^2", "dvy^2",
	"dvz^2", "dwx^2", "dwy^2", "dwz^2", "b1^2", "b2^2", "b3^2", "rho*b1", "rho*b2", "rho*b3",
	"rho*u^2", "rho*v^2", "rho*w^2", "rho*T^2", "rho*b1^2", "rho*b2^2", "rho*b3^2",
	"rho*u*v", "rho*u*w", "rho*v*w",
	"rho*v*T", "rho*u^2*v", "rho*v^2*v", "rho*w^2*v", "rho*v^2*u", "rho*dux^2",
	"rho*dvy^2",
	"rho*dwz^2", "rho*duy*dvx", "rho*duz*dwx", "rho*dvz*dwy", "u^3", "p^3", "u^4", "p^4",
	"Frhou", "Frhov", "Frhow", "Grhov", "Grhow", "Hrhow", "Frhov*u", "Frhou*u", "Frhov*v",
	"Frhow*w", "Grhov*u", "Grhov*v", "Grhow*w", "Frhou*dux", "Frhou*dvx", "Frhov*dux",
	"Frhov*duy", "Frhov*dvx", "Frhov*dvy", "Frhow*duz", "Frhow*dvz", "Frhow*dwx",
	"Grhov*duy",
	"Grhov*dvy", "Grhow*duz", "Grhow*dvz", "Grhow*dwy", "Hrhow*dwz", "la*dTx", "la*dTy",
	"la*dTz",
}

// stats2VarsTURB is the stats2 ordering of the turb case, which appends the
// enthalpy-flux and stagnation groups.
var stats2VarsTURB = []string{
	"e", "h", "c", "s", "M", "0.5*q", "g", "la", "cp", "cv",
	"prr", "eck", "rho*dux", "rho*duy", "rho*duz", "rho*dvx", "rho*dvy",
	"rho*dvz", "rho*dwx", "rho*dwy", "rho*dwz", "p*div", "rho*div", "b1",
	"b2", "b3", "rhoT", "uT", "vT", "e**2", "h**2", "c**2", "s**2",
	"qq/cc2", "g**2", "mu**2", "la**2", "cv**2", "cp**2", "prr**2", "eck**2",
	"p*u", "p*v", "s*u", "s*v", "p*rho", "h*rho", "T*p", "p*s", "T*s", "rho*s",
	"g*rho", "g*p", "g*s", "g*T", "g*u", "g*v", "p*dux", "p*dvy", "p*dwz",
	"p*duy", "p*dvx", "rho*div**2", "dux**2", "duy**2", "duz**2", "dvx**2",
	"dvy**2", "dvz**2", "dwx**2", "dwy**2", "dwz**2", "b1**2", "b2**2", "b3**2",
	"rho*b1", "rho*b2", "rho*b3", "rho*uu", "rho*vv", "rho*ww",
	"rho*T**2", "rho*b1**2", "rho*b2**2", "rho*b3**2", "rho*uv", "rho*uw",
	"rho*vw", "rho*vT", "rho*u**2*v", "rho*v**3", "rho*w**2*v", "rho*v**2*u",
	"rho*dux**2", "rho*dvy**2", "rho*dwz**2", "rho*duy*dvx", "rho*duz*dwx",
	"rho*dvz*dwy", "u**3", "p**3", "u**4", "p**4", "Frhou", "Frhov", "Frhow",
	"Grhov", "Grhow", "Hrhow", "Frhovu", "Frhouu", "Frhovv", "Frhoww",
	"Grhovu", "Grhovv", "Grhoww", "Frhou_dux", "Frhou_dvx", "Frhov_dux",
	"Frhov_duy", "Frhov_dvx", "Frhov_dvy", "Frhow_duz", "Frhow_dvz",
	"Frhow_dwx", "Grhov_duy", "Grhov_dvy", "Grhow_duz", "Grhow_dvz",
	"Grhow_dwy", "Hrhow_dwz", "la*dTx", "la*dTy", "la*dTz",
	"h*u", "h*v", "h*w", "rho*h*u", "rho*h*v", "rho*h*w", "rho*u**3",
	"rho*v**3", "rho*w**3", "rho*w**2*u",
	"h0", "e0", "s0", "T0", "p0", "rho0", "mut",
}

const (
	nStats1 = 23
	nStats2 = 144
)

// ReadStats reads the time-averaged statistics for the given case. Binary
// cases (stbl, turb) read stats1_bl<n>.bin / stats2_bl<n>.bin per block and
// keep the last frame of each variable; the channel-flow case reads the
// textual stats.dat profile. Unknown cases fall back to the stbl layout
// with an error log, matching the solver's tooling.
func ReadStats(dir, caseName string, info *post.SimInfo, order ByteOrder) (post.StatsStore, error) {
	switch strings.ToLower(caseName) {
	case "stbl":
		return readStatsBinary(dir, info, stats2VarsSTBL, order)
	case "turb":
		return readStatsBinary(dir, info, stats2VarsTURB, order)
	case "chan":
		return readStatsChan(dir)
	default:
		logrus.Errorf("No statistics reader for case %q, falling back to stbl layout", caseName)
		return readStatsBinary(dir, info, stats2VarsSTBL, order)
	}
}

func readStatsBinary(dir string, info *post.SimInfo, stats2Vars []string, order ByteOrder) (post.StatsStore, error) {
	store := make(post.StatsStore, info.NBlocks)
	for block := 1; block <= info.NBlocks; block++ {
		store[block] = make(post.BlockStats)
		dims := info.Dims[block]

		file1 := filepath.Join(dir, fmt.Sprintf("stats1_bl%d.bin", block))
		if err := mergeStatsFile(store[block], file1, dims.Nx, dims.Ny, nStats1, stats1Vars, order); err != nil {
			return nil, fmt.Errorf("block %d: %w", block, err)
		}

		file2 := filepath.Join(dir, fmt.Sprintf("stats2_bl%d.bin", block))
		if err := mergeStatsFile(store[block], file2, dims.Nx, dims.Ny, nStats2, stats2Vars, order); err != nil {
			return nil, fmt.Errorf("block %d: %w", block, err)
		}
	}
	logrus.Infof("Done reading statistics for %d block(s)", info.NBlocks)
	return store, nil
}

// mergeStatsFile reads one statistics file and stores the last frame of
// each named variable. A missing file is tolerated (logged) so sessions
// with only first-order statistics still work.
func mergeStatsFile(bs post.BlockStats, path string, n1, n2, nvar int, names []string, order ByteOrder) error {
	vars, err := Read2D(path, n1, n2, nvar, order)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logrus.Errorf("Statistics file %s not found, skipping", path)
			return nil
		}
		return err
	}
	for v, name := range names {
		if v >= len(vars) || len(vars[v]) == 0 {
			continue
		}
		frames := vars[v]
		bs[name] = frames[len(frames)-1]
	}
	return nil
}

// chanColumns maps stats.dat columns to variable names for the channel-flow
// case (column 0 is y/h). Columns 90-92 hold one gradient variance per
// spatial direction and feed the u/v/w keys alike.
var chanColumns = map[int][]string{
	0: {"y_h"}, 1: {"rho"}, 2: {"uu"}, 3: {"vv"}, 4: {"ww"}, 5: {"prs"},
	6: {"T"}, 7: {"e"}, 8: {"h"}, 9: {"c"}, 10: {"s"}, 11: {"Mt"},
	12: {"0.5*q"}, 14: {"mu"},
	21: {"rho*dux"}, 22: {"rho*duy"}, 23: {"rho*duz"},
	24: {"rho*dvx"}, 25: {"rho*dvy"}, 26: {"rho*dvz"},
	27: {"rho*dwx"}, 28: {"rho*dwy"}, 29: {"rho*dwz"},
	43: {"u2"}, 44: {"v2"}, 45: {"w2"}, 46: {"uv"}, 50: {"p2"},
	90: {"dux2", "dvx2", "dwx2"},
	91: {"duy2", "dvy2", "dwy2"},
	92: {"duz2", "dvz2", "dwz2"},
}

// readStatsChan parses the single-column-profile stats.dat of the channel
// case into a one-block store of 1×ny fields.
func readStatsChan(dir string) (post.StatsStore, error) {
	path := filepath.Join(dir, "stats.dat")
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening channel stats: %w", err)
	}
	defer file.Close()

	columns := make(map[int][]float64)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		for col, names := range chanColumns {
			if col >= len(fields) {
				continue
			}
			v, err := strconv.ParseFloat(fields[col], 64)
			if err != nil {
				return nil, fmt.Errorf("column %d (%s): %w", col, names[0], err)
			}
			columns[col] = append(columns[col], v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	bs := make(post.BlockStats, len(chanColumns))
	for col, names := range chanColumns {
		vals := columns[col]
		if len(vals) == 0 {
			continue
		}
		field := mat.NewDense(1, len(vals), vals)
		for _, name := range names {
			bs[name] = field
		}
	}
	logrus.Infof("Done reading channel statistics (%d wall-normal point(s))", len(columns[0]))
	return post.StatsStore{1: bs}, nil
}
