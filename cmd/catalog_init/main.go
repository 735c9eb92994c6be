package main

import (
	"context"
	"flag"
	"log"

	"sales-kpi/internal/config"
	"sales-kpi/internal/logger"

	sdk "github.com/matrixorigin/moi-go-sdk"
)

func main() {
	configFile := flag.String("config", "", "config file")
	skipKnowledge := flag.Bool("skip-knowledge", false, "only create the database and tables")
	flag.Parse()

	logger.Init(config.LogConfig{Level: "info", Console: true})

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal(err)
	}
	client, err := cfg.NewRawClient()
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()
	catalogID := sdk.CatalogID(cfg.MOI.CatalogID)
	if catalogID == 0 {
		catalogID = 1
	}

	dbID, tables, err := initCatalog(ctx, client, catalogID, cfg.Database.Name)
	if err != nil {
		log.Fatal("catalog init failed: ", err)
	}
	logger.Info("catalog ready; set MOI_DATABASE_ID and MOI_DAILY_KPI_TABLE_ID",
		"database_id", dbID, "daily_kpi_table_id", tables["daily_kpi"])

	if *skipKnowledge {
		return
	}
	if err := initKnowledge(ctx, client); err != nil {
		log.Fatal("knowledge init failed: ", err)
	}
	logger.Info("catalog init done")
}
