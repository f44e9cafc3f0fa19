package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/sirupsen/logrus"
)

// writeQuantityCSV exports one derived quantity as <dir>/<name>.csv with
// rows (block, station, value), blocks in ascending order.
func writeQuantityCSV(dir, name string, perBlock map[int][]float64) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(dir, name+".csv")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"block", "i", name}); err != nil {
		return err
	}

	blocks := make([]int, 0, len(perBlock))
	for b := range perBlock {
		blocks = append(blocks, b)
	}
	sort.Ints(blocks)

	for _, b := range blocks {
		for i, v := range perBlock[b] {
			rec := []string{
				strconv.Itoa(b),
				strconv.Itoa(i),
				strconv.FormatFloat(v, 'g', 17, 64),
			}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}

	logrus.Debugf("Wrote %s", path)
	return nil
}
