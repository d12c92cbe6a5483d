package report

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	invapp "github.com/feedoffice/backend/internal/application/inventory"
	"github.com/feedoffice/backend/internal/application/txn"
	"github.com/feedoffice/backend/internal/domain/report"
	"github.com/feedoffice/backend/internal/domain/trade"
	"github.com/feedoffice/backend/internal/infrastructure/export"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LowStockLister lists feed categories at or below the low-stock threshold
type LowStockLister interface {
	LowStock(ctx context.Context) ([]invapp.FeedStockResponse, error)
}

// ReportService serves the daily report, its workbook export and the dashboard
type ReportService struct {
	scope    txn.TransactionScope
	loc      *time.Location
	lowStock LowStockLister
	now      func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(scope txn.TransactionScope, loc *time.Location, lowStock LowStockLister) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{scope: scope, loc: loc, lowStock: lowStock, now: time.Now}
}

// ===================== Daily Report =====================

// SnapshotLine is one material or feed category in the daily report
type SnapshotLine struct {
	EntityID uuid.UUID       `json:"entity_id"`
	Name     string          `json:"name"`
	Unit     string          `json:"unit,omitempty"`
	Opening  decimal.Decimal `json:"opening_stock"`
	In       decimal.Decimal `json:"in_quantity"`
	Out      decimal.Decimal `json:"out_quantity"`
	Closing  decimal.Decimal `json:"closing_stock"`
}

// DailyReportResponse is the stock and cash picture of one calendar day.
// Live is set when today's figures come from current balances because the
// snapshot job has not run yet.
type DailyReportResponse struct {
	Date          string          `json:"date"`
	Live          bool            `json:"live"`
	RawMaterials  []SnapshotLine  `json:"raw_materials"`
	FinishedFeed  []SnapshotLine  `json:"finished_feed"`
	CashCollected decimal.Decimal `json:"cash_collected"`
}

// DailyReport returns the snapshots recorded for date. Today without
// snapshots falls back to live balances; any other day without snapshots is
// SNAPSHOT_NOT_FOUND.
func (s *ReportService) DailyReport(ctx context.Context, date time.Time) (*DailyReportResponse, error) {
	from, to := s.dayBounds(date)
	repos := s.scope.Reader()

	materials, err := repos.RawMaterials().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := repos.FeedCategories().FindAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	units := make(map[uuid.UUID]string, len(materials))
	names := make(map[uuid.UUID]string, len(materials)+len(categories))
	for _, m := range materials {
		names[m.ID] = m.Name
		units[m.ID] = string(m.Unit)
	}
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	resp := &DailyReportResponse{Date: from.Format(time.DateOnly)}

	rawSnaps, err := repos.Snapshots().FindByDate(ctx, report.SnapshotKindRawMaterial, from)
	if err != nil {
		return nil, err
	}
	feedSnaps, err := repos.Snapshots().FindByDate(ctx, report.SnapshotKindFeed, from)
	if err != nil {
		return nil, err
	}

	if len(rawSnaps) == 0 && len(feedSnaps) == 0 {
		today, _ := s.dayBounds(s.now())
		if !from.Equal(today) {
			return nil, report.ErrSnapshotNotFound.WithMessage(
				fmt.Sprintf("No snapshot recorded for %s", resp.Date))
		}
		resp.Live = true
		if err := s.fillLive(ctx, repos, resp, names, units); err != nil {
			return nil, err
		}
	} else {
		resp.RawMaterials = toLines(rawSnaps, names, units)
		resp.FinishedFeed = toLines(feedSnaps, names, nil)
	}

	resp.CashCollected, err = repos.Payments().SumBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *ReportService) fillLive(ctx context.Context, repos txn.Repositories, resp *DailyReportResponse, names, units map[uuid.UUID]string) error {
	balances, err := repos.RawMaterialLedger().Balances(ctx)
	if err != nil {
		return err
	}
	stock, err := repos.FeedStock().FindAll(ctx)
	if err != nil {
		return err
	}
	bags := make(map[uuid.UUID]decimal.Decimal, len(stock))
	for _, row := range stock {
		bags[row.FeedCategoryID] = decimal.NewFromInt(row.QuantityAvailable)
	}

	resp.RawMaterials = make([]SnapshotLine, 0, len(units))
	resp.FinishedFeed = make([]SnapshotLine, 0, len(names)-len(units))
	for id, name := range names {
		_, isMaterial := units[id]
		current := bags[id]
		if isMaterial {
			current = balances[id]
		}
		line := SnapshotLine{EntityID: id, Name: name, Unit: units[id], Opening: current, Closing: current}
		if isMaterial {
			resp.RawMaterials = append(resp.RawMaterials, line)
		} else {
			resp.FinishedFeed = append(resp.FinishedFeed, line)
		}
	}
	sortLines(resp.RawMaterials)
	sortLines(resp.FinishedFeed)
	return nil
}

func toLines(snaps []report.DailySnapshot, names, units map[uuid.UUID]string) []SnapshotLine {
	lines := make([]SnapshotLine, len(snaps))
	for i, snap := range snaps {
		lines[i] = SnapshotLine{
			EntityID: snap.EntityID,
			Name:     names[snap.EntityID],
			Unit:     units[snap.EntityID],
			Opening:  snap.Opening,
			In:       snap.In,
			Out:      snap.Out,
			Closing:  snap.Closing,
		}
	}
	sortLines(lines)
	return lines
}

func sortLines(lines []SnapshotLine) {
	sort.Slice(lines, func(i, j int) bool { return lines[i].Name < lines[j].Name })
}

// dayBounds returns [midnight, next midnight) of date's calendar day in the
// report timezone
func (s *ReportService) dayBounds(date time.Time) (time.Time, time.Time) {
	local := date.In(s.loc)
	from := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	return from, from.AddDate(0, 0, 1)
}

// ===================== Export =====================

// Sheet names of the daily report workbook
const (
	SheetRawMaterials = "Raw Materials"
	SheetFinishedFeed = "Finished Feed"
)

// ExportDailyReport writes the daily report for date as an XLSX workbook
func (s *ReportService) ExportDailyReport(ctx context.Context, date time.Time, w io.Writer) error {
	daily, err := s.DailyReport(ctx, date)
	if err != nil {
		return err
	}

	raw := export.Sheet{
		Name:   SheetRawMaterials,
		Header: []string{"Material", "Unit", "Opening", "In", "Out", "Closing"},
	}
	for _, l := range daily.RawMaterials {
		raw.Rows = append(raw.Rows, []any{l.Name, l.Unit,
			l.Opening.InexactFloat64(), l.In.InexactFloat64(), l.Out.InexactFloat64(), l.Closing.InexactFloat64()})
	}
	feed := export.Sheet{
		Name:   SheetFinishedFeed,
		Header: []string{"Feed Category", "Opening (bags)", "In (bags)", "Out (bags)", "Closing (bags)"},
	}
	for _, l := range daily.FinishedFeed {
		feed.Rows = append(feed.Rows, []any{l.Name,
			l.Opening.IntPart(), l.In.IntPart(), l.Out.IntPart(), l.Closing.IntPart()})
	}
	return export.WriteXLSX(w, []export.Sheet{raw, feed})
}

// ===================== Dashboard =====================

// DashboardResponse is the office overview
type DashboardResponse struct {
	OrdersByStatus   map[string]int64           `json:"orders_by_status"`
	TotalOrders      int64                      `json:"total_orders"`
	TotalSales       decimal.Decimal            `json:"total_sales"`
	TotalCollected   decimal.Decimal            `json:"total_collected"`
	TotalOutstanding decimal.Decimal            `json:"total_outstanding"`
	CollectedToday   decimal.Decimal            `json:"collected_today"`
	PendingRefunds   int64                      `json:"pending_refunds"`
	LowStock         []invapp.FeedStockResponse `json:"low_stock"`
}

var dashboardStatuses = []trade.OrderStatus{
	trade.OrderStatusPending,
	trade.OrderStatusConfirmed,
	trade.OrderStatusDispatched,
	trade.OrderStatusDelivered,
	trade.OrderStatusCanceled,
}

// Dashboard aggregates order, cash, refund and stock figures
func (s *ReportService) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	repos := s.scope.Reader()

	summary, err := repos.Orders().Summary(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := repos.Refunds().CountPending(ctx)
	if err != nil {
		return nil, err
	}
	from, to := s.dayBounds(s.now())
	today, err := repos.Payments().SumBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	resp := &DashboardResponse{
		OrdersByStatus:   make(map[string]int64, len(dashboardStatuses)),
		TotalSales:       summary.TotalSales,
		TotalCollected:   summary.TotalCollected,
		TotalOutstanding: summary.TotalOutstanding,
		CollectedToday:   today,
		PendingRefunds:   pending,
		LowStock:         []invapp.FeedStockResponse{},
	}
	for _, st := range dashboardStatuses {
		n := summary.CountByStatus[st]
		resp.OrdersByStatus[st.String()] = n
		resp.TotalOrders += n
	}

	if s.lowStock != nil {
		low, err := s.lowStock.LowStock(ctx)
		if err != nil {
			return nil, err
		}
		resp.LowStock = low
	}
	return resp, nil
}
