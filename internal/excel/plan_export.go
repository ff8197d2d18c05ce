package excel

import (
	"fmt"

	"github.com/saadjs/fitweek/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	SheetWeek    = "Week"
	SheetLibrary = "Library"
)

const unknownWorkout = "Unknown workout"

// ExportWeekPlan builds a workbook with the week laid out one column per day
// and the catalog listed on a second sheet.
func ExportWeekPlan(plan model.WeekPlan, catalog model.Catalog) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetWeek); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename week sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetLibrary); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create library sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"2E75B6"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}
	missing, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Italic: true, Color: "9C0006"},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create missing style: %w", err)
	}

	if err := writeWeekSheet(f, plan, catalog, header, missing); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := writeLibrarySheet(f, catalog, header); err != nil {
		_ = f.Close()
		return nil, err
	}
	f.SetActiveSheet(0)
	return f, nil
}

func writeWeekSheet(f *excelize.File, plan model.WeekPlan, catalog model.Catalog, header, missing int) error {
	for col, d := range model.Days {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetWeek, cell, string(d)); err != nil {
			return fmt.Errorf("write day header %s: %w", d, err)
		}
		if err := f.SetCellStyle(SheetWeek, cell, cell, header); err != nil {
			return fmt.Errorf("style day header %s: %w", d, err)
		}
		for row, e := range plan[d] {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			label := unknownWorkout
			w, ok := catalog.Find(e.WorkoutID)
			if ok {
				label = w.Name
				if w.Duration != nil {
					label = fmt.Sprintf("%s (%d min)", w.Name, *w.Duration)
				}
			}
			if err := f.SetCellValue(SheetWeek, cell, label); err != nil {
				return fmt.Errorf("write %s entry %d: %w", d, row, err)
			}
			if !ok {
				if err := f.SetCellStyle(SheetWeek, cell, cell, missing); err != nil {
					return fmt.Errorf("style %s entry %d: %w", d, row, err)
				}
			}
		}
	}
	if err := f.SetColWidth(SheetWeek, "A", "G", 28); err != nil {
		return fmt.Errorf("set week column width: %w", err)
	}
	return nil
}

func writeLibrarySheet(f *excelize.File, catalog model.Catalog, header int) error {
	titles := []string{"ID", "Name", "Category", "Duration (min)", "Notes", "Custom"}
	for i, t := range titles {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetLibrary, cell, t); err != nil {
			return fmt.Errorf("write library header: %w", err)
		}
	}
	if err := f.SetCellStyle(SheetLibrary, "A1", "F1", header); err != nil {
		return fmt.Errorf("style library header: %w", err)
	}
	for i, w := range catalog {
		row := i + 2
		var duration any
		if w.Duration != nil {
			duration = *w.Duration
		}
		values := []any{w.ID, w.Name, w.Category, duration, w.Notes, w.Custom}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(SheetLibrary, cell, v); err != nil {
				return fmt.Errorf("write library row %d: %w", row, err)
			}
		}
	}
	if err := f.SetColWidth(SheetLibrary, "A", "A", 38); err != nil {
		return fmt.Errorf("set library id width: %w", err)
	}
	if err := f.SetColWidth(SheetLibrary, "B", "E", 24); err != nil {
		return fmt.Errorf("set library width: %w", err)
	}
	return nil
}
