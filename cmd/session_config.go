package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// SessionConfig mirrors the compute flags so recurring sessions can live in
// a YAML file. Explicitly-set flags win over file values.
type SessionConfig struct {
	Directory  string   `yaml:"directory"`
	Case       string   `yaml:"case"`
	Quantities []string `yaml:"quantities"`
	OutDir     string   `yaml:"out"`
	NormalsDir string   `yaml:"normals"`
	Ngh        *int     `yaml:"ngh"`
	BigEndian  *bool    `yaml:"big_endian"`
	OldGrid    *bool    `yaml:"old_grid"`
	Full3D     *bool    `yaml:"full_3d"`

	VorticityThreshold *float64 `yaml:"vorticity_threshold"`
	JumpThreshold      *float64 `yaml:"jump_threshold"`
	SigmaLeft          *float64 `yaml:"sigma_left"`
	SigmaRight         *float64 `yaml:"sigma_right"`
	ThetaMargin        *int     `yaml:"theta_margin"`
}

// applySessionConfig loads the YAML session file into the flag variables,
// skipping any flag the user set on the command line.
func applySessionConfig(cmd *cobra.Command, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Fatalf("Reading session config %s: %v", path, err)
	}
	var cfg SessionConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logrus.Fatalf("Parsing session config %s: %v", path, err)
	}

	changed := cmd.Flags().Changed

	if cfg.Directory != "" && !changed("dir") {
		directory = cfg.Directory
	}
	if cfg.Case != "" && !changed("case") {
		caseName = cfg.Case
	}
	if len(cfg.Quantities) > 0 && !changed("quantities") {
		quantities = cfg.Quantities
	}
	if cfg.OutDir != "" && !changed("out") {
		outDir = cfg.OutDir
	}
	if cfg.NormalsDir != "" && !changed("normals") {
		normalsDir = cfg.NormalsDir
	}
	if cfg.Ngh != nil && !changed("ngh") {
		ngh = *cfg.Ngh
	}
	if cfg.BigEndian != nil && !changed("big-endian") {
		bigEndian = *cfg.BigEndian
	}
	if cfg.OldGrid != nil && !changed("old-grid") {
		oldGrid = *cfg.OldGrid
	}
	if cfg.Full3D != nil && !changed("full-3d") {
		full3D = *cfg.Full3D
	}
	if cfg.VorticityThreshold != nil && !changed("vorticity-threshold") {
		vortThreshold = *cfg.VorticityThreshold
	}
	if cfg.JumpThreshold != nil && !changed("jump-threshold") {
		jumpThreshold = *cfg.JumpThreshold
	}
	if cfg.SigmaLeft != nil && !changed("sigma-left") {
		sigmaLeft = *cfg.SigmaLeft
	}
	if cfg.SigmaRight != nil && !changed("sigma-right") {
		sigmaRight = *cfg.SigmaRight
	}
	if cfg.ThetaMargin != nil && !changed("theta-margin") {
		thetaMargin = *cfg.ThetaMargin
	}

	logrus.Infof("Loaded session config from %s", path)
}
