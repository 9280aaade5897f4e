package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/rramcim/sweep"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate the peak area, timing and energy of one macro.",
	Long: "`evaluate --config macro.json` prints the area, clock period, " +
		"peak energy and efficiency of the configured macro. Without " +
		"--config the default 1T1R analog macro is evaluated. " +
		"`evaluate --config configs/lightcim2024.json --reference " +
		"configs/lightcim2024_reference.json` compares a macro against " +
		"its published figures.",
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		referencePath, _ := cmd.Flags().GetString("reference")
		asJSON, _ := cmd.Flags().GetBool("json")
		verbose, _ := cmd.Flags().GetBool("verbose")

		cfg, err := loadHardwareConfig(configPath)
		if err != nil {
			log.Fatalf("Error loading configuration: %v", err)
		}

		c := sweep.Case{Name: cfg.Name, Config: cfg}
		if c.Name == "" {
			c.Name = cfg.Topology.String()
		}
		if referencePath != "" {
			c.Reference, err = loadReference(referencePath)
			if err != nil {
				log.Fatalf("Error loading reference: %v", err)
			}
		}

		runSingle(c, asJSON, verbose)
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
	evaluateCmd.Flags().String("config", "", "Hardware configuration JSON file")
	evaluateCmd.Flags().String("reference", "",
		"JSON file with published figures to compare against")
	evaluateCmd.Flags().Bool("json", false, "Print the result as JSON")
	evaluateCmd.Flags().BoolP("verbose", "v", false,
		"Print the per-component breakdowns")
}

// runSingle evaluates one case, prints it, and exits on failure.
func runSingle(c sweep.Case, asJSON, verbose bool) {
	harness := sweep.NewHarness(sweep.HarnessConfig{
		Workers: 1,
		Output:  os.Stdout,
		Verbose: verbose,
	})
	harness.AddCase(c)

	results, err := harness.RunAll()
	if err != nil {
		log.Fatalf("Error evaluating %s: %v", c.Name, err)
	}

	if asJSON {
		if err := harness.PrintJSON(results); err != nil {
			log.Fatalf("Error writing result: %v", err)
		}
	} else {
		harness.PrintResults(results)
	}

	if results[0].Failed() {
		log.Fatalf("Error evaluating %s: %s", c.Name, results[0].Error)
	}
}
