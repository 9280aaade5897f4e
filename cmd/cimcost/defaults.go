package main

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/sarchlab/rramcim/array"
)

var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print or save the default hardware configuration.",
	Long: "`defaults` prints the default configuration as JSON. " +
		"`defaults --output macro.json` writes it to a file that can be " +
		"edited and passed to the other commands.",
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")

		cfg := array.DefaultHardwareConfig()
		if output != "" {
			if err := cfg.SaveConfig(output); err != nil {
				log.Fatalf("Error saving configuration: %v", err)
			}
			fmt.Printf("Default configuration written to %s\n", output)
			return
		}

		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			log.Fatalf("Error encoding configuration: %v", err)
		}
		fmt.Println(string(data))
	},
}

func init() {
	rootCmd.AddCommand(defaultsCmd)
	defaultsCmd.Flags().StringP("output", "o", "", "Write the configuration to this file")
}
