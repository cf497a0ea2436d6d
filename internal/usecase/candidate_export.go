package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"ats-backend/internal/domain"
	"ats-backend/pkg/apperror"

	"github.com/xuri/excelize/v2"
)

var exportColumns = []string{
	"id", "full_name", "email", "phone", "location",
	"experience", "salary", "skills", "status", "created_at",
}

var exportHeaders = map[string]string{
	"id":         "ID",
	"full_name":  "FULL NAME",
	"email":      "EMAIL",
	"phone":      "PHONE",
	"location":   "LOCATION",
	"experience": "EXPERIENCE (YEARS)",
	"salary":     "SALARY",
	"skills":     "SKILLS",
	"status":     "STATUS",
	"created_at": "CREATED AT",
}

// ExportCandidates renders every candidate matching the query filters
// (paging is ignored, capped at MaxExportRows) as xlsx or csv.
func (u *candidateUsecase) ExportCandidates(ctx context.Context, req domain.CandidateExportRequest) ([]byte, string, error) {
	const op = "export"
	format := strings.ToLower(req.Format)
	if format != "csv" && format != "xlsx" && format != "" {
		return nil, "", u.fail(op, apperror.BadRequest(fmt.Sprintf("unsupported export format: %s", req.Format)))
	}

	query, err := u.normalizeQuery(req.Query)
	if err != nil {
		return nil, "", u.fail(op, err)
	}

	filter := query.Filter()
	filter.Limit = domain.MaxExportRows
	filter.Offset = 0

	candidates, _, err := u.repo.Search(ctx, filter)
	if err != nil {
		return nil, "", u.fail(op, err)
	}

	var data []byte
	var filename string
	if format == "csv" {
		data, filename, err = exportCSV(candidates)
	} else {
		data, filename, err = exportExcel(candidates)
	}
	if err != nil {
		return nil, "", u.fail(op, err)
	}

	u.metrics.IncrementOperation(op, "ok")
	return data, filename, nil
}

func exportExcel(candidates []*domain.Candidate) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Candidates"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, "", fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, exportHeaders[col])
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx, c := range candidates {
		for colIdx, col := range exportColumns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, exportValue(c, col))
		}
	}

	for i := range exportColumns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), exportFilename("xlsx"), nil
}

func exportCSV(candidates []*domain.Candidate) ([]byte, string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportColumns); err != nil {
		return nil, "", fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, c := range candidates {
		row := make([]string, len(exportColumns))
		for i, col := range exportColumns {
			row[i] = fmt.Sprintf("%v", exportValue(c, col))
		}
		if err := w.Write(row); err != nil {
			return nil, "", fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), exportFilename("csv"), nil
}

func exportValue(c *domain.Candidate, col string) interface{} {
	switch col {
	case "id":
		return c.ID()
	case "full_name":
		return c.FullName()
	case "email":
		return c.Email()
	case "phone":
		return derefString(c.Phone())
	case "location":
		return derefString(c.Location())
	case "experience":
		return c.Experience()
	case "salary":
		if s := c.Salary(); s != nil {
			return *s
		}
		return ""
	case "skills":
		return strings.Join(c.Skills(), ", ")
	case "status":
		return string(c.Status())
	case "created_at":
		return c.CreatedAt().UTC().Format("2006-01-02")
	default:
		return ""
	}
}

func exportFilename(ext string) string {
	return fmt.Sprintf("candidates_%s.%s", time.Now().Format("20060102_150405"), ext)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
