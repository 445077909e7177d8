package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/leok974/ai-finance-agent-oss-sub001/internal/classifier"
)

func modelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Manage classifier model versions",
		Long:  `List stored model versions, inspect the current one, and promote a version for serving.`,
	}

	cmd.AddCommand(listModelsCmd())
	cmd.AddCommand(currentModelCmd())
	cmd.AddCommand(promoteModelCmd())
	cmd.AddCommand(putModelCmd())

	return cmd
}

func listModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all stored model versions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := openRegistry()
			if err != nil {
				return err
			}

			versions, err := reg.List()
			if err != nil {
				return fmt.Errorf("failed to list versions: %w", err)
			}
			if len(versions) == 0 {
				fmt.Println("No model versions stored. Use 'suggest models put' to add one.")
				return nil
			}

			current, _ := reg.Current()

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()
			fmt.Fprintln(w, "VERSION\tTRAINED\tRUN\tVAL F1\tCURRENT")
			for _, v := range versions {
				artifact, err := reg.Load(cmd.Context(), v)
				if err != nil {
					fmt.Fprintf(w, "%s\t(unreadable: %v)\t\t\t\n", v, err)
					continue
				}
				marker := ""
				if v == current {
					marker = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%.3f\t%s\n",
					v,
					artifact.Metadata.TrainedAt.Format("2006-01-02"),
					artifact.Metadata.RunID,
					artifact.Metadata.ValidationF1,
					marker)
			}
			return nil
		},
	}
}

func currentModelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the currently promoted model version",
		RunE: func(_ *cobra.Command, _ []string) error {
			reg, err := openRegistry()
			if err != nil {
				return err
			}
			current, err := reg.Current()
			if err != nil {
				fmt.Println("No model promoted.")
				return nil
			}
			fmt.Println(current)
			return nil
		},
	}
}

func promoteModelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "promote <version>",
		Short: "Atomically promote a stored version for serving",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := openRegistry()
			if err != nil {
				return err
			}
			if err := reg.Promote(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Promoted %s\n", args[0])
			return nil
		},
	}
}

func putModelCmd() *cobra.Command {
	var promote bool

	cmd := &cobra.Command{
		Use:   "put <artifact.json>",
		Short: "Store a trained model artifact as a new version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read artifact file: %w", err)
			}
			var artifact classifier.Artifact
			if err := json.Unmarshal(data, &artifact); err != nil {
				return fmt.Errorf("failed to parse artifact file: %w", err)
			}

			reg, err := openRegistry()
			if err != nil {
				return err
			}
			if err := reg.Put(&artifact); err != nil {
				return err
			}
			fmt.Printf("Stored %s\n", artifact.Version)

			if promote {
				if err := reg.Promote(cmd.Context(), artifact.Version); err != nil {
					return err
				}
				fmt.Printf("Promoted %s\n", artifact.Version)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&promote, "promote", false, "promote the version after storing it")
	return cmd
}
