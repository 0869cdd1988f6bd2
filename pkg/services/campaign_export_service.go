package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/madisonpark/carzo-sub002/pkg/models"
)

// ExportPlatform selects which ad platform's bulk-import format to emit.
type ExportPlatform string

const (
	PlatformGoogleAds ExportPlatform = "google"
	PlatformMicrosoft ExportPlatform = "microsoft"
)

// CampaignExportService renders campaign plans into ad-platform import files.
// The CSV dialect is the wire contract for the platforms' bulk importers:
// every field quoted, money at 2 decimals, ROI as integer percent.
type CampaignExportService struct{}

// NewCampaignExportService creates a new CampaignExportService.
func NewCampaignExportService() *CampaignExportService {
	return &CampaignExportService{}
}

// SanitizeField renders any value as a safe, quoted CSV field. Values that a
// spreadsheet would interpret as a formula (leading =, +, -, @, TAB or CR) get
// a leading single quote; embedded quotes are doubled; CR/LF collapse to a
// space. Never fails: every input has a defined string form.
func (s *CampaignExportService) SanitizeField(value any) string {
	if value == nil {
		return `""`
	}
	str := stringify(value)
	if str == "" {
		return `""`
	}
	if strings.HasPrefix(str, "=") || strings.HasPrefix(str, "+") ||
		strings.HasPrefix(str, "-") || strings.HasPrefix(str, "@") ||
		strings.HasPrefix(str, "\t") || strings.HasPrefix(str, "\r") {
		str = "'" + str
	}
	str = strings.ReplaceAll(str, `"`, `""`)
	str = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(str)
	return `"` + str + `"`
}

// Row joins sanitized fields with commas.
func (s *CampaignExportService) Row(values []any) string {
	fields := make([]string, len(values))
	for i, v := range values {
		fields[i] = s.SanitizeField(v)
	}
	return strings.Join(fields, ",")
}

// Table renders a header row plus data rows joined by newlines.
func (s *CampaignExportService) Table(header []any, rows [][]any) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, s.Row(header))
	for _, r := range rows {
		lines = append(lines, s.Row(r))
	}
	return strings.Join(lines, "\n")
}

// ExportTargetingCSV renders location-targeting rows for the given platform.
// The platforms differ only in header labels and the radius unit literal
// ("mi" for Google Ads, "mile" for Microsoft Advertising); sanitization is
// identical.
func (s *CampaignExportService) ExportTargetingCSV(platform ExportPlatform, locations []models.TargetingLocation, destinationURL string) (string, error) {
	var header []any
	var unit string
	switch platform {
	case PlatformGoogleAds:
		header = []any{"Action", "Location", "Latitude", "Longitude", "Radius", "Unit", "Final URL"}
		unit = "mi"
	case PlatformMicrosoft:
		header = []any{"Type", "Location Name", "Latitude", "Longitude", "Radius", "Radius Unit", "Destination URL"}
		unit = "mile"
	default:
		return "", fmt.Errorf("export: unknown platform %q", platform)
	}

	rows := make([][]any, 0, len(locations))
	for _, loc := range locations {
		rows = append(rows, []any{
			"Add",
			loc.Name,
			fmt.Sprintf("%.6f", loc.Latitude),
			fmt.Sprintf("%.6f", loc.Longitude),
			fmt.Sprintf("%.1f", loc.RadiusMi),
			unit,
			destinationURL,
		})
	}
	return s.Table(header, rows), nil
}

// ExportRecommendationsCSV renders a planning run for offline review.
func (s *CampaignExportService) ExportRecommendationsCSV(recs []models.CampaignRecommendation) string {
	header := []any{"Region ID", "Region", "Tier", "Category", "Listings", "Dealers", "Diversity", "Daily Budget", "Trend", "Reason"}
	rows := make([][]any, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []any{
			r.RegionID, r.RegionName, string(r.Tier), r.Category,
			r.ListingCount, r.SellerCount,
			fmt.Sprintf("%.2f", r.DiversityScore),
			fmt.Sprintf("%.2f", r.DailyBudget),
			r.Trend, r.Reason,
		})
	}
	return s.Table(header, rows)
}

// ExportBudgetPlanXLSX builds a two-sheet workbook (allocations + summary)
// for the planning dashboard download. Returns the serialized file and the
// generated plan ID.
func (s *CampaignExportService) ExportBudgetPlanXLSX(allocs []models.BudgetAllocation, summary models.AllocationSummary) ([]byte, string, error) {
	planID := uuid.New().String()

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Allocations"
	f.SetSheetName(f.GetSheetName(0), sheet)

	header := []string{
		"Region", "Tier", "Daily Budget", "Monthly Budget",
		"Daily Clicks", "Dealer Clicks", "Daily Revenue",
		"Monthly Revenue", "Monthly Profit", "ROI %",
	}
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for row, a := range allocs {
		values := []any{
			a.RegionName, string(a.Tier), a.DailyBudget, a.MonthlyBudget,
			a.ExpectedDailyClicks, a.ExpectedDealerClicks, a.ExpectedDailyRevenue,
			a.ExpectedMonthlyRev, a.ExpectedMonthlyProfit, a.ROIPct,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	const summarySheet = "Summary"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, "", fmt.Errorf("export: create summary sheet: %w", err)
	}
	summaryRows := [][]any{
		{"Plan ID", planID},
		{"Campaigns", summary.Campaigns},
		{"Monthly Spend", summary.MonthlySpend},
		{"Monthly Revenue", summary.MonthlyRevenue},
		{"Monthly Profit", summary.MonthlyProfit},
		{"Overall ROI %", summary.OverallROIPct},
	}
	for row, pair := range summaryRows {
		for col, v := range pair {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+1)
			f.SetCellValue(summarySheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("export: write workbook: %w", err)
	}
	return buf.Bytes(), planID, nil
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
