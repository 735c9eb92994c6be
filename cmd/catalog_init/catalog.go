package main

import (
	"context"
	"fmt"
	"strings"

	"sales-kpi/internal/logger"

	sdk "github.com/matrixorigin/moi-go-sdk"
)

type tableDef struct {
	name    string
	comment string
	columns []sdk.Column
}

func counterColumns() []sdk.Column {
	return []sdk.Column{
		{Name: "emails_sent_manual", Type: "INT", Comment: "手動で送信したメール数"},
		{Name: "emails_sent_outsource", Type: "INT", Comment: "外注で送信したメール数"},
		{Name: "valid_emails_manual", Type: "INT", Comment: "手動送信のうち有効に届いたメール数"},
		{Name: "valid_emails_outsource", Type: "INT", Comment: "外注送信のうち有効に届いたメール数"},
		{Name: "replies_received", Type: "INT", Comment: "返信数"},
		{Name: "meetings_scheduled", Type: "INT", Comment: "設定した商談数"},
		{Name: "deals_closed", Type: "INT", Comment: "成約数"},
		{Name: "projects_created", Type: "INT", Comment: "案件化数"},
		{Name: "ongoing_projects", Type: "INT", Comment: "その日時点の進行中案件数（合計せず最新値を使う）"},
		{Name: "slide_views", Type: "INT", Comment: "資料閲覧数"},
		{Name: "video_views", Type: "INT", Comment: "動画視聴数"},
	}
}

func kpiTables() []tableDef {
	daily := []sdk.Column{
		{Name: "id", Type: "INT", IsPk: true, Comment: "主キー"},
		{Name: "user_id", Type: "INT", Comment: "users.id"},
		{Name: "date", Type: "DATE", Comment: "KPIの対象日"},
	}
	daily = append(daily, counterColumns()...)
	daily = append(daily,
		sdk.Column{Name: "notes", Type: "TEXT", Comment: "メモ"},
		sdk.Column{Name: "created_at", Type: "DATETIME", Comment: "登録日時"},
	)

	return []tableDef{
		{"users", "営業担当者", []sdk.Column{
			{Name: "id", Type: "INT", IsPk: true, Comment: "主キー"},
			{Name: "email", Type: "VARCHAR(255)", Comment: "ログイン用メールアドレス"},
			{Name: "name", Type: "VARCHAR(100)", Comment: "担当者名"},
			{Name: "created_at", Type: "DATETIME", Comment: "登録日時"},
		}},
		{"daily_kpi", "日次KPI。1ユーザー1日1行", daily},
		{"kpi_goals", "週次KPI目標。最新のweek_startが現在の目標", []sdk.Column{
			{Name: "id", Type: "INT", IsPk: true, Comment: "主キー"},
			{Name: "user_id", Type: "INT", Comment: "users.id"},
			{Name: "week_start", Type: "DATE", Comment: "目標の対象週の開始日"},
			{Name: "reply_target", Type: "INT", Comment: "返信数目標"},
			{Name: "reply_rate_target", Type: "DECIMAL(6,2)", Comment: "返信率目標(%)"},
			{Name: "meetings_target", Type: "INT", Comment: "商談数目標"},
			{Name: "deals_target", Type: "INT", Comment: "成約数目標"},
			{Name: "projects_target", Type: "INT", Comment: "案件化数目標"},
		}},
		{"weekly_reviews", "週次振り返り", []sdk.Column{
			{Name: "id", Type: "INT", IsPk: true, Comment: "主キー"},
			{Name: "user_id", Type: "INT", Comment: "users.id"},
			{Name: "week_start", Type: "DATE", Comment: "週の開始日"},
			{Name: "week_end", Type: "DATE", Comment: "週の終了日（開始日+6日）"},
			{Name: "achievements", Type: "TEXT", Comment: "成果"},
			{Name: "challenges", Type: "TEXT", Comment: "課題"},
			{Name: "improvements", Type: "TEXT", Comment: "改善策"},
			{Name: "notes", Type: "TEXT", Comment: "メモ"},
		}},
	}
}

// initCatalog creates the database and tables, reusing whatever already exists.
// It returns the database ID and the IDs of the tables created in this run.
func initCatalog(ctx context.Context, client *sdk.RawClient, catalogID sdk.CatalogID, dbName string) (sdk.DatabaseID, map[string]sdk.TableID, error) {
	var dbID sdk.DatabaseID
	dbResp, err := client.CreateDatabase(ctx, &sdk.DatabaseCreateRequest{
		CatalogID:    catalogID,
		DatabaseName: dbName,
		Comment:      "営業KPI",
	})
	switch {
	case err == nil:
		dbID = dbResp.DatabaseID
		logger.Info("catalog: database created", "id", dbID)
	case isDuplicate(err):
		logger.Info("catalog: database already exists, discovering ID", "name", dbName)
		if dbID, err = discoverDatabaseID(ctx, client, catalogID, dbName); err != nil {
			return 0, nil, err
		}
	default:
		return 0, nil, fmt.Errorf("create database: %w", err)
	}

	ids := make(map[string]sdk.TableID)
	for _, t := range kpiTables() {
		resp, err := client.CreateTable(ctx, &sdk.TableCreateRequest{
			DatabaseID: dbID,
			Name:       t.name,
			Columns:    t.columns,
			Comment:    t.comment,
		})
		if err != nil {
			if isDuplicate(err) {
				logger.Info("catalog: table already exists, skipping", "name", t.name)
				continue
			}
			return 0, nil, fmt.Errorf("create table %s: %w", t.name, err)
		}
		ids[t.name] = resp.TableID
		logger.Info("catalog: table created", "name", t.name, "id", resp.TableID)
	}
	return dbID, ids, nil
}

func discoverDatabaseID(ctx context.Context, client *sdk.RawClient, catalogID sdk.CatalogID, dbName string) (sdk.DatabaseID, error) {
	resp, err := client.ListDatabases(ctx, &sdk.DatabaseListRequest{CatalogID: catalogID})
	if err != nil {
		return 0, fmt.Errorf("list databases: %w", err)
	}
	for _, db := range resp.List {
		if db.DatabaseName == dbName {
			logger.Info("catalog: database discovered", "id", db.DatabaseID)
			return db.DatabaseID, nil
		}
	}
	return 0, fmt.Errorf("database %s not found in catalog %d", dbName, catalogID)
}

func isDuplicate(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate") || strings.Contains(s, "already exist") || strings.Contains(s, "exists") || strings.Contains(s, "conflict")
}
