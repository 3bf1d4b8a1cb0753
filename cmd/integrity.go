package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"datapath/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	fixFlag  bool
	jsonFlag bool
)

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check that models, stored definitions and tables agree",
	Long:  `Reconciles every schema across Go models, object storage and the database. With --fix, publishes missing definitions and creates missing tables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityCheck(cmd.Context())
	},
}

func init() {
	integrityCmd.Flags().BoolVar(&fixFlag, "fix", false, "Apply the planned repairs")
	integrityCmd.Flags().BoolVar(&jsonFlag, "json", false, "Save the detailed plan as JSON")
	RootCmd.AddCommand(integrityCmd)
}

func runIntegrityCheck(ctx context.Context) error {
	startTime := time.Now()

	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	logg := rt.logger
	svc := integrity.NewService(rt.integrityConfig(), logg)

	logg.Info("Checking schemas...")
	plan, err := svc.Check(ctx)
	if err != nil {
		return fmt.Errorf("schema integrity check failed: %w", err)
	}

	if fixFlag && len(plan.Actions) > 0 {
		executed, after, err := svc.Fix(ctx, plan)
		if err != nil {
			return fmt.Errorf("schema repair failed after %d actions: %w", executed, err)
		}
		fmt.Printf("Repairs executed: %d\n", executed)
		plan = after
	}

	if jsonFlag {
		filename := fmt.Sprintf("integrity_schemas_%d.json", time.Now().Unix())
		data, err := json.MarshalIndent(plan, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		if err := os.WriteFile(filename, data, 0644); err != nil {
			return fmt.Errorf("failed to save JSON file: %w", err)
		}
		logg.Info("Detailed JSON report saved", zap.String("file", filename))
	}

	fmt.Println("\n=== Schema Integrity Metrics ===")
	fmt.Printf("Total Schemas:    %d\n", plan.Summary.TotalItems)
	fmt.Printf("Model Missing:    %d\n", plan.Summary.MissingModel)
	fmt.Printf("Storage Missing:  %d\n", plan.Summary.MissingStorage)
	fmt.Printf("Database Missing: %d\n", plan.Summary.MissingDatabase)
	fmt.Printf("Mismatch:         %d\n", plan.Summary.Mismatches)
	fmt.Printf("Pending Actions:  %d\n", len(plan.Actions))
	fmt.Printf("Execution Time:   %s\n", time.Since(startTime))

	for _, r := range plan.Results {
		for _, m := range r.Mismatch {
			fmt.Printf("- %s: %s\n", r.Name, m)
		}
	}
	return nil
}
