// Package inifile parses the solver's textual metadata files (info.ini,
// param_blocks.ini, feos_<fluid>.ini). The formats are line-oriented solver
// conventions, not INI syntax, so the parsers are hand-written.
package inifile

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mbpost/mbpost/post"
)

// InfoFile holds the contents of info.ini: a header line of &-joined keys,
// one mesh-extent line per block, then scalar key/value lines.
type InfoFile struct {
	Header map[string]string  // first-line keys (nbloc, ndim, is_curv, ...)
	Values map[string]float64 // trailing scalar parameters
	NBloc  int
	Dims   map[int]post.BlockDims
}

// ReadInfo parses info.ini.
func ReadInfo(path string) (*InfoFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening info file: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("info file %s is empty", path)
	}

	info := &InfoFile{
		Header: make(map[string]string),
		Values: make(map[string]float64),
		Dims:   make(map[int]post.BlockDims),
	}

	// Header line: "key1&key2&... = v1 v2 ...".
	keyPart, valPart, ok := strings.Cut(lines[0], "=")
	if !ok {
		return nil, fmt.Errorf("malformed info header %q", lines[0])
	}
	keys := strings.Split(keyPart, "&")
	vals := strings.Fields(valPart)
	if len(keys) != len(vals) {
		return nil, fmt.Errorf("info header has %d keys but %d values", len(keys), len(vals))
	}
	for i, k := range keys {
		info.Header[strings.TrimSpace(k)] = vals[i]
	}

	nbloc, err := strconv.Atoi(info.Header["nbloc"])
	if err != nil {
		return nil, fmt.Errorf("parsing nbloc: %w", err)
	}
	info.NBloc = nbloc
	if len(lines) < 1+nbloc {
		return nil, fmt.Errorf("info file lists %d blocks but has %d block lines", nbloc, len(lines)-1)
	}

	// One "block <n> = nx ny nz" line per block.
	for b := 1; b <= nbloc; b++ {
		_, valPart, ok := strings.Cut(lines[b], "=")
		if !ok {
			return nil, fmt.Errorf("malformed block line %q", lines[b])
		}
		f := strings.Fields(valPart)
		if len(f) < 3 {
			return nil, fmt.Errorf("block line %q needs nx ny nz", lines[b])
		}
		var dims post.BlockDims
		if dims.Nx, err = strconv.Atoi(f[0]); err != nil {
			return nil, fmt.Errorf("block %d nx: %w", b, err)
		}
		if dims.Ny, err = strconv.Atoi(f[1]); err != nil {
			return nil, fmt.Errorf("block %d ny: %w", b, err)
		}
		if dims.Nz, err = strconv.Atoi(f[2]); err != nil {
			return nil, fmt.Errorf("block %d nz: %w", b, err)
		}
		info.Dims[b] = dims
	}

	// Remaining lines: "key [key...] = v [v...]" float scalars.
	for _, line := range lines[1+nbloc:] {
		keyPart, valPart, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		keys := strings.Fields(keyPart)
		vals := strings.Fields(valPart)
		for i, k := range keys {
			if i >= len(vals) {
				break
			}
			v, err := strconv.ParseFloat(vals[i], 64)
			if err != nil {
				logrus.Debugf("info key %q: value %q is not numeric, skipped", k, vals[i])
				continue
			}
			info.Values[k] = v
		}
	}

	return info, nil
}

// SimInfo converts the parsed file into the engine's simulation parameters.
// A missing ghost-point count falls back to 5 with a warning, matching the
// solver default.
func (f *InfoFile) SimInfo() *post.SimInfo {
	ngh := 5
	if v, ok := f.Values["ngh"]; ok {
		ngh = int(v)
	} else {
		logrus.Warnf("info file has no ngh entry, using default %d", ngh)
	}
	return &post.SimInfo{
		NBlocks: f.NBloc,
		Dims:    f.Dims,
		URef:    f.Values["uref"],
		RhoRef:  f.Values["rhoref"],
		IsCurv:  f.Header["is_curv"] == "T",
		Ngh:     ngh,
	}
}
