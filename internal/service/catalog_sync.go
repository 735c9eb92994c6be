package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"sales-kpi/internal/logger"
	"sales-kpi/internal/metrics"
	"sales-kpi/internal/model"

	sdk "github.com/matrixorigin/moi-go-sdk"
)

// dailyKPIMapping is the column layout of the mirrored daily_kpi table.
var dailyKPIMapping = []sdk.FileAndTableColumnMapping{
	{TableColumn: "id", Column: "id", ColNumInFile: 1},
	{TableColumn: "user_id", Column: "user_id", ColNumInFile: 2},
	{TableColumn: "date", Column: "date", ColNumInFile: 3},
	{TableColumn: "emails_sent_manual", Column: "emails_sent_manual", ColNumInFile: 4},
	{TableColumn: "emails_sent_outsource", Column: "emails_sent_outsource", ColNumInFile: 5},
	{TableColumn: "valid_emails_manual", Column: "valid_emails_manual", ColNumInFile: 6},
	{TableColumn: "valid_emails_outsource", Column: "valid_emails_outsource", ColNumInFile: 7},
	{TableColumn: "replies_received", Column: "replies_received", ColNumInFile: 8},
	{TableColumn: "meetings_scheduled", Column: "meetings_scheduled", ColNumInFile: 9},
	{TableColumn: "deals_closed", Column: "deals_closed", ColNumInFile: 10},
	{TableColumn: "projects_created", Column: "projects_created", ColNumInFile: 11},
	{TableColumn: "ongoing_projects", Column: "ongoing_projects", ColNumInFile: 12},
	{TableColumn: "slide_views", Column: "slide_views", ColNumInFile: 13},
	{TableColumn: "video_views", Column: "video_views", ColNumInFile: 14},
	{TableColumn: "notes", Column: "notes", ColNumInFile: 15},
	{TableColumn: "created_at", Column: "created_at", ColNumInFile: 16},
}

// CatalogSync mirrors accepted daily KPI rows into a MatrixOne catalog table
// so they can be queried with NL2SQL. A nil *CatalogSync is a no-op.
type CatalogSync struct {
	raw        *sdk.RawClient
	sdk        *sdk.SDKClient
	databaseID sdk.DatabaseID
	tableID    sdk.TableID
}

func NewCatalogSync(raw *sdk.RawClient, databaseID, tableID int64) *CatalogSync {
	if raw == nil || databaseID == 0 || tableID == 0 {
		return nil
	}
	return &CatalogSync{
		raw:        raw,
		sdk:        sdk.NewSDKClient(raw),
		databaseID: sdk.DatabaseID(databaseID),
		tableID:    sdk.TableID(tableID),
	}
}

// MirrorDailyKPI uploads rec in the background.
func (s *CatalogSync) MirrorDailyKPI(rec model.DailyRecord) {
	if s == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		start := time.Now()
		err := s.SyncDailyKPI(ctx, rec)
		metrics.ObserveExternal("catalog", "sync_daily_kpi", start, err)
		if err != nil {
			logger.Warn("catalog sync: daily kpi failed", "uid", rec.UserID, "date", rec.Date.String(), "err", err)
		}
	}()
}

func (s *CatalogSync) SyncDailyKPI(ctx context.Context, rec model.DailyRecord) error {
	name := fmt.Sprintf("daily_kpi_%d_%s.csv", rec.UserID, rec.Date)
	return s.importCSV(ctx, DailyKPICSV(rec), name, dailyKPIMapping)
}

// DailyKPICSV renders one record as a CSV line in dailyKPIMapping order.
func DailyKPICSV(rec model.DailyRecord) string {
	c := rec.Counters
	ints := []int{
		c.EmailsSentManual, c.EmailsSentOutsource,
		c.ValidEmailsManual, c.ValidEmailsOutsource,
		c.RepliesReceived, c.MeetingsScheduled, c.DealsClosed, c.ProjectsCreated,
		c.OngoingProjects, c.SlideViews, c.VideoViews,
	}
	fields := make([]string, 0, len(dailyKPIMapping))
	fields = append(fields, strconv.Itoa(rec.ID), strconv.Itoa(rec.UserID), rec.Date.String())
	for _, v := range ints {
		fields = append(fields, strconv.Itoa(v))
	}
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	fields = append(fields, esc(rec.Notes), created.Format(time.DateTime))
	return strings.Join(fields, ",") + "\n"
}

func (s *CatalogSync) importCSV(ctx context.Context, csv, fileName string, mapping []sdk.FileAndTableColumnMapping) error {
	resp, err := s.raw.UploadLocalFile(ctx, bytes.NewReader([]byte(csv)), fileName, []sdk.FileMeta{{Filename: fileName, Path: "/"}})
	if err != nil {
		return fmt.Errorf("upload %s: %w", fileName, err)
	}
	if len(resp.ConnFileIds) == 0 {
		return fmt.Errorf("upload %s: no conn_file_ids", fileName)
	}

	_, err = s.sdk.ImportLocalFileToTable(ctx, &sdk.TableConfig{
		ConnFileIDs:      resp.ConnFileIds,
		NewTable:         false,
		DatabaseID:       s.databaseID,
		TableID:          s.tableID,
		IsColumnName:     false,
		RowStart:         1,
		Conflict:         1,
		ExistedTable:     mapping,
		ExistedTableOpts: sdk.ExistedTableOptions{Method: sdk.ExistedTableOptionAppend},
	})
	if err != nil {
		return fmt.Errorf("import %s: %w", fileName, err)
	}
	logger.Info("catalog sync: ok", "table", s.tableID, "file", fileName)
	return nil
}

func esc(s string) string {
	if strings.ContainsAny(s, ",\"\n\r") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
