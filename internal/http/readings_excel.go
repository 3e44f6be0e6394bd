package httpapi

import (
	"bytes"
	"fmt"

	"github.com/Niharika210149/Smart-Health-Monitor/internal/service"

	"github.com/xuri/excelize/v2"
)

// ReadingsExportHeader 导出表头
var ReadingsExportHeader = []string{
	"ID",
	"User ID",
	"Pulse (bpm)",
	"SpO2 (%)",
	"HR Raw",
	"SpO2 Raw",
	"Activity",
	"Context",
	"Is Exercise",
	"Session",
	"Recorded At (UTC)",
}

// GenerateReadingsExport 生成读数导出 Excel 文件
// rows 为空时只生成表头
func GenerateReadingsExport(rows []service.ReadingDTO) ([]byte, error) {
	f := excelize.NewFile()
	// Note: Don't defer Close() here, because WriteTo needs the file to be open

	sheetName := "Readings"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	// 删除默认的 Sheet1
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, h := range ReadingsExportHeader {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to compute header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell: %w", err)
		}
	}
	lastCol, _ := excelize.CoordinatesToCellName(len(ReadingsExportHeader), 1)
	if err := f.SetCellStyle(sheetName, "A1", lastCol, headerStyle); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for rowIdx, row := range rows {
		values := []any{
			row.ID,
			row.UserID,
			optIntCell(row.Pulse),
			optIntCell(row.SpO2),
			optFloatCell(row.HRRaw),
			optFloatCell(row.SpO2Raw),
			optStrCell(row.Activity),
			optStrCell(row.Context),
			optStrCell(row.IsExercise),
			optStrCell(row.SessionVal),
			optStrCell(row.RecordedAt),
		}
		for colIdx, v := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to compute cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to serialize excel: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func optIntCell(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}

func optFloatCell(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

func optStrCell(v *string) any {
	if v == nil {
		return ""
	}
	return *v
}

// exportFilename 导出文件名（按主体）
func exportFilename(userID string) string {
	return "readings_" + userID + ".xlsx"
}
