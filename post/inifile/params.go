package inifile

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mbpost/mbpost/post"
)

// SnapshotKind classifies an instrumentation window by its collapsed
// extents.
type SnapshotKind int

const (
	SnapshotPoint SnapshotKind = iota
	SnapshotLine
	SnapshotPlane
	SnapshotVolume
)

// SnapshotDef is one output-snapshot card: an index window, an output
// frequency and the recorded variables.
type SnapshotDef struct {
	I1, I2 int
	J1, J2 int
	K1, K2 int
	Freq   int
	NVar   int
	Vars   []string
}

// Kind derives the snapshot type from how many index pairs are collapsed.
func (d SnapshotDef) Kind() SnapshotKind {
	collapsed := 0
	if d.I1 == d.I2 {
		collapsed++
	}
	if d.J1 == d.J2 {
		collapsed++
	}
	if d.K1 == d.K2 {
		collapsed++
	}
	switch collapsed {
	case 3:
		return SnapshotPoint
	case 2:
		return SnapshotLine
	case 1:
		return SnapshotPlane
	default:
		return SnapshotVolume
	}
}

// Normal returns the axis (1=i, 2=j, 3=k) a plane is normal to, or the axis
// a line runs along. Zero for points and volumes.
func (d SnapshotDef) Normal() int {
	switch d.Kind() {
	case SnapshotPlane:
		switch {
		case d.I1 == d.I2:
			return 1
		case d.J1 == d.J2:
			return 2
		default:
			return 3
		}
	case SnapshotLine:
		switch {
		case d.I1 != d.I2:
			return 1
		case d.J1 != d.J2:
			return 2
		default:
			return 3
		}
	default:
		return 0
	}
}

// BlockCard holds the per-block section of param_blocks.ini.
type BlockCard struct {
	Points    [3]int     // mesh points per direction (I, J, K)
	Procs     [3]int     // MPI decomposition per direction
	Neighbors [6]int     // first BC row: neighbor block id per face, 0 = none
	BCTags    [6]string  // second BC row: condition tag per face
	Sponge    [][]string // raw sponge-zone rows
	Snapshots []SnapshotDef
}

// BC maps the textual face tags onto the engine's boundary-condition kinds.
// Tags starting with "w" are no-slip walls, tags starting with "s" slip
// walls, everything else (periodicity, connectivity, inflow/outflow) is
// BCOther.
func (c *BlockCard) BC() post.BlockBC {
	bc := make(post.BlockBC, 6)
	for face := post.FaceImin; face <= post.FaceKmax; face++ {
		tag := strings.ToLower(c.BCTags[face])
		switch {
		case strings.HasPrefix(tag, "w"):
			bc[face] = post.BCWall
		case strings.HasPrefix(tag, "s"):
			bc[face] = post.BCSlipWall
		default:
			bc[face] = post.BCOther
		}
	}
	return bc
}

var pointsProcsRe = regexp.MustCompile(`^\s*(\d+)\s+(\d+)\s+\|\s+(\w)-direction`)

// ReadParamBlocks parses param_blocks.ini into per-block cards.
func ReadParamBlocks(path string) (map[int]*BlockCard, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening param_blocks file: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), " \t\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	cards := make(map[int]*BlockCard)
	var current *BlockCard
	currentID := 0

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(line, "! Block #"):
			id, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "! Block #")))
			if err != nil {
				return nil, fmt.Errorf("line %d: malformed block header %q", i+1, line)
			}
			current = &BlockCard{}
			cards[id] = current
			currentID = id

		case current == nil:
			continue

		case strings.HasPrefix(line, "! Nb points"):
			if err := parsePointsProcs(current, lines, i); err != nil {
				return nil, fmt.Errorf("block %d: %w", currentID, err)
			}

		case strings.HasPrefix(line, "Imin"):
			if err := parseBoundaryRows(current, lines, i); err != nil {
				return nil, fmt.Errorf("block %d: %w", currentID, err)
			}

		case strings.HasPrefix(line, "! Define output snapshots:"):
			if err := parseSnapshots(current, lines, i); err != nil {
				return nil, fmt.Errorf("block %d: %w", currentID, err)
			}

		case strings.HasPrefix(line, "T "):
			current.Sponge = append(current.Sponge, strings.Fields(line))
		}
	}

	logrus.Infof("Parsed %d block card(s) from %s", len(cards), path)
	return cards, nil
}

// Topology builds the engine topology (per-face BC kinds) from the cards.
func Topology(cards map[int]*BlockCard) *post.Topology {
	topo := post.NewTopology()
	for id, card := range cards {
		topo.BCs[id] = card.BC()
	}
	return topo
}

func parsePointsProcs(card *BlockCard, lines []string, i int) error {
	dirIndex := map[string]int{"I": 0, "J": 1, "K": 2}
	for j := i + 1; j < len(lines) && j <= i+3; j++ {
		m := pointsProcsRe.FindStringSubmatch(lines[j])
		if m == nil {
			continue
		}
		idx, ok := dirIndex[m[3]]
		if !ok {
			return fmt.Errorf("unknown direction %q", m[3])
		}
		card.Points[idx], _ = strconv.Atoi(m[1])
		card.Procs[idx], _ = strconv.Atoi(m[2])
	}
	return nil
}

func parseBoundaryRows(card *BlockCard, lines []string, i int) error {
	if i+2 >= len(lines) {
		return fmt.Errorf("truncated boundary-condition rows")
	}
	neighbors := strings.Fields(lines[i+1])
	tags := strings.Fields(lines[i+2])
	if len(neighbors) < 6 || len(tags) < 6 {
		return fmt.Errorf("boundary-condition rows need 6 entries, got %d and %d", len(neighbors), len(tags))
	}
	for f := 0; f < 6; f++ {
		n, err := strconv.Atoi(neighbors[f])
		if err != nil {
			return fmt.Errorf("neighbor entry %q: %w", neighbors[f], err)
		}
		card.Neighbors[f] = n
		card.BCTags[f] = tags[f]
	}
	return nil
}

func parseSnapshots(card *BlockCard, lines []string, i int) error {
	if i+1 >= len(lines) {
		return fmt.Errorf("truncated snapshot section")
	}
	countFields := strings.Fields(lines[i+1])
	if len(countFields) == 0 {
		return fmt.Errorf("missing snapshot count")
	}
	count, err := strconv.Atoi(countFields[0])
	if err != nil {
		return fmt.Errorf("snapshot count %q: %w", countFields[0], err)
	}

	// Four header lines sit between the count and the first card row.
	for j := 1; j <= count; j++ {
		row := i + 5 + j
		if row >= len(lines) {
			return fmt.Errorf("truncated snapshot card %d", j)
		}
		f := strings.Fields(lines[row])
		if len(f) < 8 {
			return fmt.Errorf("snapshot card %d needs at least 8 columns, got %d", j, len(f))
		}
		var def SnapshotDef
		ints := make([]int, 8)
		for k := 0; k < 8; k++ {
			if ints[k], err = strconv.Atoi(f[k]); err != nil {
				return fmt.Errorf("snapshot card %d column %d: %w", j, k+1, err)
			}
		}
		def.I1, def.I2 = ints[0], ints[1]
		def.J1, def.J2 = ints[2], ints[3]
		def.K1, def.K2 = ints[4], ints[5]
		def.Freq = ints[6]
		def.NVar = ints[7]
		if len(f) < 8+def.NVar {
			return fmt.Errorf("snapshot card %d declares %d variables, found %d", j, def.NVar, len(f)-8)
		}
		def.Vars = f[8 : 8+def.NVar]
		card.Snapshots = append(card.Snapshots, def)
	}
	return nil
}
