package cmd

import (
	"encoding/binary"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mbpost/mbpost/post"
	"github.com/mbpost/mbpost/post/binfile"
	"github.com/mbpost/mbpost/post/inifile"
)

var (
	// CLI flags for the post-processing session
	directory   string   // simulation output directory
	caseName    string   // solver case name selecting the statistics layout
	quantities  []string // derived quantities to compute
	configFile  string   // optional YAML session file
	logLevel    string   // log verbosity level
	outDir      string   // CSV export directory
	normalsDir  string   // directory holding wall-normal files (defaults to --dir)
	ngh         int      // ghost-point override (-1: take from info.ini)
	bigEndian   bool     // solver output written big-endian
	oldGrid     bool     // legacy grid files without ghost points
	full3D      bool     // fully 3D curvilinear grid files
	saveNormals bool     // persist generated fallback normals for reuse

	// Engine constant overrides; defaults are the validated values.
	vortThreshold float64
	jumpThreshold float64
	sigmaLeft     float64
	sigmaRight    float64
	thetaMargin   int
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "mbpost",
	Short: "Post-processor for multi-block structured-grid flow statistics",
}

// computeCmd derives boundary-layer quantities from the time-averaged
// statistics and exports them as CSV.
var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute boundary-layer quantities from time-averaged statistics",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if configFile != "" {
			applySessionConfig(cmd, configFile)
		}
		if directory == "" {
			logrus.Fatalf("Simulation directory not provided. Exiting.")
		}
		if normalsDir == "" {
			normalsDir = directory
		}

		var order binary.ByteOrder = binary.LittleEndian
		if bigEndian {
			order = binary.BigEndian
		}

		info, err := inifile.ReadInfo(directory + "/info.ini")
		if err != nil {
			logrus.Fatalf("Reading info.ini: %v", err)
		}
		simInfo := info.SimInfo()

		cards, err := inifile.ReadParamBlocks(directory + "/param_blocks.ini")
		if err != nil {
			logrus.Fatalf("Reading param_blocks.ini: %v", err)
		}
		topo := inifile.Topology(cards)
		if err := topo.LoadWallNormals(normalsDir, simInfo); err != nil {
			logrus.Fatalf("Loading wall normals: %v", err)
		}

		grid, err := binfile.ReadGrid(binfile.GridConfig{
			Dir:           directory,
			Order:         order,
			NewGrid:       !oldGrid,
			Full3D:        full3D,
			GhostOverride: ngh,
		}, simInfo)
		if err != nil {
			logrus.Fatalf("Reading grid: %v", err)
		}

		stats, err := binfile.ReadStats(directory, caseName, simInfo, order)
		if err != nil {
			logrus.Fatalf("Reading statistics: %v", err)
		}

		params := post.DefaultEngineParams()
		params.VorticityThreshold = vortThreshold
		params.JumpThresholdPct = jumpThreshold
		params.SigmaLeft = sigmaLeft
		params.SigmaRight = sigmaRight
		params.ThetaEdgeMargin = thetaMargin

		engine := post.NewEngine(grid, stats, simInfo, topo, params)
		orch := post.NewOrchestrator(engine)

		logrus.Infof("Computing %s for %d block(s)", strings.Join(quantities, ", "), simInfo.NBlocks)
		results := orch.RequestAll(quantities)

		for name, perBlock := range results {
			if err := writeQuantityCSV(outDir, name, perBlock); err != nil {
				logrus.Fatalf("Exporting %s: %v", name, err)
			}
		}

		if saveNormals && !topo.HasNormalFile {
			if err := topo.SaveWallNormals(normalsDir); err != nil {
				logrus.Errorf("Persisting fallback wall normals: %v", err)
			}
		}

		for _, d := range orch.Diagnostics() {
			if d.Block > 0 {
				logrus.Warnf("diagnostic: %s block %d: %s", d.Quantity, d.Block, d.Message)
			} else {
				logrus.Warnf("diagnostic: %s: %s", d.Quantity, d.Message)
			}
		}
		logrus.Info("Post-processing complete.")
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	computeCmd.Flags().StringVar(&directory, "dir", "", "Simulation output directory")
	computeCmd.Flags().StringVar(&caseName, "case", "stbl", "Solver case name (stbl, turb, chan)")
	computeCmd.Flags().StringSliceVar(&quantities, "quantities", []string{"ufst", "d99", "deltas", "theta", "tauw", "cf"}, "Comma-separated derived quantities")
	computeCmd.Flags().StringVar(&configFile, "config", "", "YAML session file (flags take precedence)")
	computeCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	computeCmd.Flags().StringVar(&outDir, "out", ".", "Directory for CSV exports")
	computeCmd.Flags().StringVar(&normalsDir, "normals", "", "Directory holding normals_bl<n>.dat files (default --dir)")
	computeCmd.Flags().IntVar(&ngh, "ngh", -1, "Ghost points per side in the grid files (-1: from info.ini)")
	computeCmd.Flags().BoolVar(&bigEndian, "big-endian", false, "Solver output written big-endian")
	computeCmd.Flags().BoolVar(&oldGrid, "old-grid", false, "Legacy grid files without ghost points")
	computeCmd.Flags().BoolVar(&full3D, "full-3d", false, "Fully 3D curvilinear grid files (x/y/z volumes)")
	computeCmd.Flags().BoolVar(&saveNormals, "save-normals", false, "Persist generated fallback wall normals")

	defaults := post.DefaultEngineParams()
	computeCmd.Flags().Float64Var(&vortThreshold, "vorticity-threshold", defaults.VorticityThreshold, "Freestream edge-detection threshold")
	computeCmd.Flags().Float64Var(&jumpThreshold, "jump-threshold", defaults.JumpThresholdPct, "Discontinuity jump threshold (percent)")
	computeCmd.Flags().Float64Var(&sigmaLeft, "sigma-left", defaults.SigmaLeft, "Gaussian width for the upstream anchor segment")
	computeCmd.Flags().Float64Var(&sigmaRight, "sigma-right", defaults.SigmaRight, "Gaussian width for the downstream anchor segment")
	computeCmd.Flags().IntVar(&thetaMargin, "theta-margin", defaults.ThetaEdgeMargin, "Extra wall-normal points past j99 for theta")

	// Attach `compute` as a subcommand to `root`
	rootCmd.AddCommand(computeCmd)
}
