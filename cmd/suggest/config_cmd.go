package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leok974/ai-finance-agent-oss-sub001/internal/config"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the rollout configuration",
	}
	cmd.AddCommand(showConfigCmd())
	return cmd
}

func showConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective rollout configuration",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.RolloutFromViper(viper.GetViper())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()
			fmt.Fprintf(w, "Model enabled:\t%t\n", cfg.ModelEnabled)
			fmt.Fprintf(w, "Shadow enabled:\t%t\n", cfg.ShadowEnabled)
			fmt.Fprintf(w, "Canary percent:\t%d\n", cfg.CanaryPercent)
			fmt.Fprintf(w, "Default threshold:\t%.2f\n", cfg.DefaultThreshold)

			if len(cfg.Thresholds) > 0 {
				labels := make([]string, 0, len(cfg.Thresholds))
				for label := range cfg.Thresholds {
					labels = append(labels, label)
				}
				sort.Strings(labels)
				fmt.Fprintln(w, "Category thresholds:")
				for _, label := range labels {
					fmt.Fprintf(w, "  %s:\t%.2f\n", label, cfg.Thresholds[label])
				}
			}
			return nil
		},
	}
}
