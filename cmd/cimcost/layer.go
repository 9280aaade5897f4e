package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/sarchlab/rramcim/cost"
	"github.com/sarchlab/rramcim/sweep"
)

var layerCmd = &cobra.Command{
	Use:   "layer",
	Short: "Evaluate the energy of one layer mapped onto a macro.",
	Long: "`layer --config macro.json --rows 64 --cols 512 --vectors 196` " +
		"evaluates a layer that activates 64 rows and 512 physical " +
		"columns for 196 input vectors. --repeat sets the number of ADC " +
		"sub-cycles directly. A --mapping file can be given instead; " +
		"flags override the file. Unset fields default to the full array " +
		"and one input vector.",
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		mappingPath, _ := cmd.Flags().GetString("mapping")
		asJSON, _ := cmd.Flags().GetBool("json")
		verbose, _ := cmd.Flags().GetBool("verbose")

		cfg, err := loadHardwareConfig(configPath)
		if err != nil {
			log.Fatalf("Error loading configuration: %v", err)
		}

		model, err := cost.NewModel(cfg)
		if err != nil {
			log.Fatalf("Error evaluating configuration: %v", err)
		}

		geo := model.Geometry()
		mapping := cost.FullMapping(geo)
		mapping.ActivationRepeat = cost.RepeatForVectors(model.Config(), geo, 1)
		if mappingPath != "" {
			mapping, err = loadMapping(mappingPath, mapping)
			if err != nil {
				log.Fatalf("Error loading mapping: %v", err)
			}
		}
		if cmd.Flags().Changed("rows") {
			mapping.MappedRows, _ = cmd.Flags().GetInt("rows")
		}
		if cmd.Flags().Changed("cols") {
			mapping.MappedCols, _ = cmd.Flags().GetInt("cols")
		}
		if cmd.Flags().Changed("repeat") && cmd.Flags().Changed("vectors") {
			log.Fatalf("Error: --repeat and --vectors are mutually exclusive")
		}
		if cmd.Flags().Changed("repeat") {
			mapping.ActivationRepeat, _ = cmd.Flags().GetFloat64("repeat")
		}
		if cmd.Flags().Changed("vectors") {
			vectors, _ := cmd.Flags().GetFloat64("vectors")
			mapping.ActivationRepeat = cost.RepeatForVectors(model.Config(), geo, vectors)
		}

		name := cfg.Name
		if name == "" {
			name = cfg.Topology.String()
		}

		runSingle(sweep.Case{
			Name:    name,
			Config:  cfg,
			Mapping: &mapping,
		}, asJSON, verbose)
	},
}

func init() {
	rootCmd.AddCommand(layerCmd)
	layerCmd.Flags().String("config", "", "Hardware configuration JSON file")
	layerCmd.Flags().String("mapping", "", "Workload mapping JSON file")
	layerCmd.Flags().Int("rows", 0, "Number of active rows")
	layerCmd.Flags().Int("cols", 0, "Number of active physical columns")
	layerCmd.Flags().Float64("repeat", 1, "Number of ADC sub-cycles")
	layerCmd.Flags().Float64("vectors", 1, "Number of input vectors")
	layerCmd.Flags().Bool("json", false, "Print the result as JSON")
	layerCmd.Flags().BoolP("verbose", "v", false,
		"Print the per-component breakdowns")
}
