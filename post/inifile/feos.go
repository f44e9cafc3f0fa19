package inifile

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Feos carries the fluid-property table from feos_<fluid>.ini. Numeric
// entries land in Values, everything else in Strings.
type Feos struct {
	Values  map[string]float64
	Strings map[string]string
}

var feosRowRe = regexp.MustCompile(`^(.*?)\.{2,}\s*(.+)$`)

// ReadFeos parses the dotted-key fluid-property file for the named fluid.
func ReadFeos(dir, fluid string) (*Feos, error) {
	path := filepath.Join(dir, fmt.Sprintf("feos_%s.ini", fluid))
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening feos file: %w", err)
	}
	defer file.Close()

	feos := &Feos{
		Values:  make(map[string]float64),
		Strings: make(map[string]string),
	}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}
		m := feosRowRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		key := strings.TrimSpace(m[1])
		val := strings.TrimSpace(m[2])
		if v, err := strconv.ParseFloat(val, 64); err == nil {
			feos.Values[key] = v
		} else {
			feos.Strings[key] = val
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return feos, nil
}
