package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sarchlab/rramcim/cacti"
)

var cactiCmd = &cobra.Command{
	Use:   "cacti",
	Short: "Estimate an SRAM or DRAM buffer with CACTI.",
	Long: "`cacti --size-bits 65536 --bandwidth-bits 64` runs the CACTI " +
		"binary for one memory and prints its per-access energy and area. " +
		"The binary is taken from --cacti, then $CACTI_BIN, then the PATH.",
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		q := cacti.Query{}
		q.Name, _ = flags.GetString("name")
		q.MemType, _ = flags.GetString("mem-type")
		q.TechNodeUm, _ = flags.GetFloat64("tech")
		q.SizeBits, _ = flags.GetInt("size-bits")
		q.BandwidthBits, _ = flags.GetInt("bandwidth-bits")
		q.ReadPorts, _ = flags.GetInt("read-ports")
		q.WritePorts, _ = flags.GetInt("write-ports")
		q.ReadWritePorts, _ = flags.GetInt("rw-ports")
		q.Banks, _ = flags.GetInt("banks")
		binary, _ := flags.GetString("cacti")
		workDir, _ := flags.GetString("work-dir")
		timeout, _ := flags.GetDuration("timeout")
		asJSON, _ := flags.GetBool("json")

		if binary == "" {
			binary = os.Getenv("CACTI_BIN")
		}
		if binary == "" {
			binary = "cacti"
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		client := cacti.NewClient(cacti.ExecRunner{Binary: binary}, workDir)
		res, err := client.Estimate(ctx, q)
		if err != nil {
			var toolErr *cacti.ExternalToolError
			if errors.As(err, &toolErr) && toolErr.Output != "" {
				fmt.Fprintln(os.Stderr, toolErr.Output)
			}
			log.Fatalf("Error estimating %s: %v", q.Name, err)
		}

		if asJSON {
			data, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				log.Fatalf("Error encoding result: %v", err)
			}
			fmt.Println(string(data))
			return
		}

		fmt.Printf("Memory: %s (%s, %d bits)\n", q.Name, q.MemType, q.SizeBits)
		fmt.Printf("  Read Energy:  %.4f pJ\n", res.ReadEnergyPJ)
		fmt.Printf("  Write Energy: %.4f pJ\n", res.WriteEnergyPJ)
		fmt.Printf("  Area:         %.6f mm2\n", res.AreaMm2)
	},
}

func init() {
	rootCmd.AddCommand(cactiCmd)
	flags := cactiCmd.Flags()
	flags.String("name", "buffer", "Name of the memory")
	flags.String("mem-type", "sram", "Memory type (sram, dram)")
	flags.Float64("tech", 0.032, "Technology node in um")
	flags.Int("size-bits", 65536, "Capacity in bits")
	flags.Int("bandwidth-bits", 64, "Bits read or written per access")
	flags.Int("read-ports", 0, "Number of read ports")
	flags.Int("write-ports", 0, "Number of write ports")
	flags.Int("rw-ports", 1, "Number of read/write ports")
	flags.Int("banks", 1, "Number of banks")
	flags.String("cacti", "", "CACTI binary")
	flags.String("work-dir", "", "Directory for the generated CACTI configuration")
	flags.Duration("timeout", 5*time.Minute, "Maximum CACTI run time")
	flags.Bool("json", false, "Print the result as JSON")
}
