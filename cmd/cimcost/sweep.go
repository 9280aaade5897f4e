package main

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/rramcim/cost"
	"github.com/sarchlab/rramcim/sweep"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Evaluate a grid of macro configurations.",
	Long: "`sweep --topologies all --modes aimc,dimc --shares 4,8,16` " +
		"evaluates every combination on top of the --config base. " +
		"Digital crossbars are skipped. Results can be printed as a " +
		"report, CSV or JSON, and recorded into a SQLite database.",
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		configPath, _ := flags.GetString("config")
		topologyNames, _ := flags.GetStringSlice("topologies")
		modeNames, _ := flags.GetStringSlice("modes")
		shares, _ := flags.GetFloat64Slice("shares")
		resolutions, _ := flags.GetIntSlice("resolutions")
		sizes, _ := flags.GetIntSlice("sizes")
		mappingPath, _ := flags.GetString("mapping")
		workers, _ := flags.GetInt("workers")
		format, _ := flags.GetString("format")
		verbose, _ := flags.GetBool("verbose")
		record, _ := flags.GetBool("record")
		dbName, _ := flags.GetString("db")
		cpuProfile, _ := flags.GetString("cpuprofile")

		base, err := loadHardwareConfig(configPath)
		if err != nil {
			log.Fatalf("Error loading configuration: %v", err)
		}

		grid := sweep.Grid{
			ShareFactors: shares,
			Resolutions:  resolutions,
			Sizes:        sizes,
		}
		if grid.Topologies, err = parseTopologies(topologyNames); err != nil {
			log.Fatalf("Error parsing topologies: %v", err)
		}
		if grid.ComputeModes, err = parseModes(modeNames); err != nil {
			log.Fatalf("Error parsing compute modes: %v", err)
		}
		if mappingPath != "" {
			mapping, err := loadMapping(mappingPath, cost.WorkloadMapping{ActivationRepeat: 1})
			if err != nil {
				log.Fatalf("Error loading mapping: %v", err)
			}
			grid.Mapping = &mapping
		}

		config := sweep.DefaultConfig()
		config.Verbose = verbose
		if workers > 0 {
			config.Workers = workers
		}

		if record {
			recorder := sweep.NewSQLiteRecorder(dbName)
			if err := recorder.Init(); err != nil {
				log.Fatalf("Error creating database: %v", err)
			}
			atexit.Register(func() { _ = recorder.Close() })
			config.Recorder = recorder
			fmt.Fprintf(os.Stderr, "Recording to %s (run %s)\n",
				recorder.Filename(), recorder.RunID())
		}

		if cpuProfile != "" {
			stop, err := startCPUProfile(cpuProfile)
			if err != nil {
				log.Fatalf("Error starting CPU profile: %v", err)
			}
			defer stop()
		}

		harness := sweep.NewHarness(config)
		harness.AddCases(grid.Cases(base))

		results, err := harness.RunAll()
		if err != nil {
			atexit.Fatalf("Error running sweep: %v", err)
		}

		switch format {
		case "csv":
			harness.PrintCSV(results)
		case "json":
			if err := harness.PrintJSON(results); err != nil {
				atexit.Fatalf("Error writing results: %v", err)
			}
		default:
			harness.PrintResults(results)
		}
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
	flags := sweepCmd.Flags()
	flags.String("config", "", "Base hardware configuration JSON file")
	flags.StringSlice("topologies", nil,
		"Topologies to sweep (crossbar, 1t1r, 1t1r_pseudo_crossbar, 2t2r, 2t2r_pseudo_crossbar or all)")
	flags.StringSlice("modes", nil, "Compute modes to sweep (aimc, dimc)")
	flags.Float64Slice("shares", nil, "ADC share factors to sweep")
	flags.IntSlice("resolutions", nil, "ADC resolutions to sweep")
	flags.IntSlice("sizes", nil, "Square array sizes to sweep")
	flags.String("mapping", "", "Workload mapping JSON file applied to every case")
	flags.Int("workers", runtime.NumCPU(), "Number of concurrent evaluations")
	flags.String("format", "text", "Output format (text, csv, json)")
	flags.BoolP("verbose", "v", false, "Print the per-component breakdowns")
	flags.Bool("record", false, "Record the results into a SQLite database")
	flags.String("db", "", "Database name without extension (default: generated)")
	flags.String("cpuprofile", "", "Write a CPU profile to this file")
}

// startCPUProfile starts profiling into path and returns the function that
// stops it.
func startCPUProfile(path string) (func(), error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return nil, err
	}

	return func() {
		pprof.StopCPUProfile()
		_ = f.Close()
	}, nil
}
