package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"datapath/core/database"
	"datapath/core/schema"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspect schemas, models and tables",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// inspectSchemaCmd prints the definition the registry resolves for a name
var inspectSchemaCmd = &cobra.Command{
	Use:   "schema [name]",
	Short: "Print the schema definition resolved by the registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		sch, err := rt.schemas.GetOrLoad(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		rt.logger.Info("Schema resolved", zap.String("schema", sch.Name), zap.String("origin", string(sch.Origin)))
		return printDefinition(sch)
	},
}

// inspectModelCmd prints the schema introspected from a registered model
var inspectModelCmd = &cobra.Command{
	Use:   "model [name]",
	Short: "Print the schema introspected from a Go model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		sch, err := rt.models.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printDefinition(sch)
	},
}

// inspectTableCmd prints the columns of a database table
var inspectTableCmd = &cobra.Command{
	Use:   "table [name]",
	Short: "Print the columns of a database table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		if rt.db == nil {
			return fmt.Errorf("database connection required")
		}
		return printTable(cmd.Context(), rt, args[0])
	},
}

func init() {
	inspectCmd.AddCommand(inspectSchemaCmd)
	inspectCmd.AddCommand(inspectModelCmd)
	inspectCmd.AddCommand(inspectTableCmd)
	RootCmd.AddCommand(inspectCmd)
}

func printDefinition(sch *schema.Schema) error {
	data, err := json.MarshalIndent(sch.Definition(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal definition: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func printTable(ctx context.Context, rt *runtime, table string) error {
	source := schema.NewDatabaseSource(rt.db)
	sch, err := source.Load(ctx, table)
	if err != nil {
		return err
	}
	columns, err := database.GetTableColumns(rt.db, sch.Target)
	if err != nil {
		return err
	}

	fmt.Printf("\n--- Table %s ---\n", table)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COLUMN\tSQL TYPE\tGO TYPE\tNULL\tKEY")
	for _, c := range columns {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", c.Field, c.Type, c.GoType(), c.Null, c.Key)
	}
	return w.Flush()
}
