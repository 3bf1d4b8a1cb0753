package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"datapath/core/datastore"
	"datapath/core/scope"
	"datapath/feature/records"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	queryFilters  []string
	querySorts    []string
	queryLimit    int
	queryOffset   int
	queryDistinct bool
	queryTenant   string
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query [schema]",
	Short: "Query the records of a schema",
	Long: `Runs a record query and prints one JSON object per row.
Filters use the "path:op:value" form, e.g. --filter price:lt:100 --filter year(created_at):eq:2024.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd.Context(), args[0])
	},
}

func init() {
	queryCmd.Flags().StringArrayVar(&queryFilters, "filter", nil, "Filter as path:op:value (repeatable)")
	queryCmd.Flags().StringArrayVar(&querySorts, "sort", nil, "Sort as path or path:desc (repeatable)")
	queryCmd.Flags().IntVar(&queryLimit, "limit", 0, "Maximum number of rows")
	queryCmd.Flags().IntVar(&queryOffset, "offset", 0, "Rows to skip")
	queryCmd.Flags().BoolVar(&queryDistinct, "distinct", false, "Remove duplicate rows")
	queryCmd.Flags().StringVar(&queryTenant, "tenant", "", "Tenant whose rows are read")
	RootCmd.AddCommand(queryCmd)
}

func runQuery(ctx context.Context, name string) error {
	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	if rt.db == nil {
		return fmt.Errorf("database connection required")
	}

	sch, err := rt.schemas.GetOrLoad(ctx, name)
	if err != nil {
		return err
	}
	svc := records.NewService(rt.schemas, rt.scopes, rt.cfg.Server, rt.logger)
	cfg, err := svc.Build(sch, records.FindParams{
		Filters:  queryFilters,
		Sorts:    querySorts,
		Limit:    queryLimit,
		Offset:   queryOffset,
		Distinct: queryDistinct,
	})
	if err != nil {
		return err
	}

	var store datastore.Datastore
	if queryTenant != "" {
		ctx = scope.WithTenant(ctx, queryTenant)
		store, err = scope.NewTenantProxy[datastore.Datastore](rt.beans, records.StoreBean).Get(ctx)
	} else {
		store, err = scope.BeanOf[datastore.Datastore](ctx, rt.beans, records.SharedStoreBean)
	}
	if err != nil {
		return err
	}

	boxes, err := store.Query(ctx, sch.Set, cfg)
	if err != nil {
		return err
	}
	for _, box := range boxes {
		line, err := json.Marshal(sch.Encode(box))
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}
		fmt.Println(string(line))
	}
	rt.logger.Info("Query completed",
		zap.String("schema", name),
		zap.String("tenant", queryTenant),
		zap.Int("rows", len(boxes)),
	)
	return nil
}
