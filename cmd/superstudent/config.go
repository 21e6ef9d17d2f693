package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/superstudent/internal/config"
	"github.com/vovakirdan/superstudent/internal/levels/colors"
)

var flagDump bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show where the Colors config is loaded from",
	Long: `Report which configuration file the Colors level would load and
check that it is valid.

Search order: --config, ~/.superstudent/configs/colors.yaml,
./configs/colors.yaml, then the built-in defaults.

Use --dump to print the built-in defaults as a starting point:
  superstudent config --dump > ~/.superstudent/configs/colors.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom level config YAML")
	configCmd.Flags().BoolVar(&flagDump, "dump", false, "Print the built-in default config")
}

func runConfig(_ *cobra.Command, _ []string) error {
	if flagDump {
		_, err := os.Stdout.Write(config.DefaultColorsYAML())
		return err
	}

	fmt.Printf("Source: %s\n", config.ColorsSource(flagConfig))

	cfg, err := config.LoadColors(flagConfig)
	if err != nil {
		return err
	}
	sc, err := colors.SimConfig(cfg, 0)
	if err != nil {
		return err
	}

	fmt.Printf("Field: %.0fx%.0f  Dots: %d targets + %d distractors  Hit quota: %d  Checkpoint every: %d\n",
		sc.Width, sc.Height, sc.TargetCount, sc.DistractorCount, sc.HitQuota, sc.CheckpointEvery)
	fmt.Print("Palette:")
	for _, c := range sc.Palette {
		fmt.Printf(" %s(%s)", c.Name, c.Color.Hex())
	}
	fmt.Println()
	fmt.Println("Config is valid.")
	return nil
}
