package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"commerce-etl-lab/internal/cleaning"
	"commerce-etl-lab/internal/observability"
	"commerce-etl-lab/internal/pipeline"
	"commerce-etl-lab/internal/warehouse"
	chstore "commerce-etl-lab/internal/warehouse/clickhouse"
	"commerce-etl-lab/internal/warehouse/migrations"
	pgstore "commerce-etl-lab/internal/warehouse/postgres"
)

// loadCmd runs the pipeline and loads the result into the warehouse.
var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Run the pipeline and load the star schema",
	Long: `Run the ETL pipeline, then load dimensions and facts into
PostgreSQL. When a ClickHouse DSN is configured the order facts are also
mirrored there for analytical queries.

Loads are idempotent: rows whose keys already exist are skipped, so
re-running over the same staging export is safe.

Example:
  etl load --items items.csv --postgres-dsn postgres://localhost:5432/analytics`,
	RunE: runLoad,
}

var (
	loadItemsPath     string
	loadHeadersPath   string
	loadPostgresDSN   string
	loadClickhouseDSN string
)

func init() {
	rootCmd.AddCommand(loadCmd)

	loadCmd.Flags().StringVar(&loadItemsPath, "items", "", "line-item CSV path (overrides ETL_ITEMS_PATH)")
	loadCmd.Flags().StringVar(&loadHeadersPath, "headers", "", "optional order-header CSV path")
	loadCmd.Flags().StringVar(&loadPostgresDSN, "postgres-dsn", "", "PostgreSQL DSN (overrides POSTGRES_DSN)")
	loadCmd.Flags().StringVar(&loadClickhouseDSN, "clickhouse-dsn", "", "optional ClickHouse DSN (overrides CLICKHOUSE_DSN)")
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	log := newLogger(cfg)
	ctx := cmd.Context()

	if loadItemsPath != "" {
		cfg.ItemsPath = loadItemsPath
	}
	if loadHeadersPath != "" {
		cfg.OrdersPath = loadHeadersPath
	}
	if loadPostgresDSN != "" {
		cfg.PostgresDSN = loadPostgresDSN
	}
	if loadClickhouseDSN != "" {
		cfg.ClickhouseDSN = loadClickhouseDSN
	}
	if cfg.PostgresDSN == "" {
		return fmt.Errorf("postgres DSN required: set POSTGRES_DSN or --postgres-dsn")
	}

	strategy := cleaning.ParseStrategy(cfg.ImputationStrategy)

	p := pipeline.New(cfg.DatasetName, cfg.ItemsPath, cfg.OutputDir).
		WithImputation(strategy).
		WithLogger(log)
	if cfg.OrdersPath != "" {
		p = p.WithOrderHeaders(cfg.OrdersPath)
	}
	if len(cfg.DedupKeyFields) > 0 {
		p = p.WithDedupKeys(cfg.DedupKeyFields)
	}

	result, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("pipeline run: %w", err)
	}

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		return fmt.Errorf("postgres migrations: %w", err)
	}

	loader := warehouse.NewLoader(pgstore.NewDimensionStore(pool), pgstore.NewFactStore(pool), log)
	if err := loader.Load(ctx, result.Orders, result.Cleaned); err != nil {
		return fmt.Errorf("load postgres: %w", err)
	}

	orderFacts := warehouse.BuildOrderFacts(result.Orders)
	itemFacts := warehouse.BuildOrderItemFacts(result.Cleaned)
	observability.RecordRowsLoaded("fact_orders", len(orderFacts))
	observability.RecordRowsLoaded("fact_order_items", len(itemFacts))

	if cfg.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
		if err != nil {
			return fmt.Errorf("clickhouse migrations: %w", err)
		}
		defer conn.Close()

		store := chstore.NewOrderFactStore(conn)
		if err := store.InsertOrders(ctx, orderFacts); err != nil {
			return fmt.Errorf("load clickhouse orders: %w", err)
		}
		if err := store.InsertOrderItems(ctx, itemFacts); err != nil {
			return fmt.Errorf("load clickhouse order items: %w", err)
		}
		log.Info().Int("orders", len(orderFacts)).Msg("clickhouse load completed")
	}

	fmt.Printf("Loaded %d orders and %d line items\n", len(orderFacts), len(itemFacts))
	return nil
}
