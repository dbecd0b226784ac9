// Package export writes a day document to a spreadsheet or a Markdown file.
package export

import (
	"fmt"
	"io"
	"os"

	"dayplan/internal/model"
	"dayplan/internal/render"

	"github.com/xuri/excelize/v2"
)

const (
	SheetDay  = "Day"
	SheetFood = "Food"
)

// WriteXLSX writes two sheets: "Day" with every rendered row (section, item,
// done) and "Food" with one row per logged food including nutrients.
func WriteXLSX(w io.Writer, date string, doc *model.Document) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// NewFile starts with Sheet1; rename it rather than leave an empty sheet behind.
	if err := f.SetSheetName("Sheet1", SheetDay); err != nil {
		return err
	}
	if err := writeDaySheet(f, date, doc); err != nil {
		return fmt.Errorf("export: %s sheet: %w", SheetDay, err)
	}
	if _, err := f.NewSheet(SheetFood); err != nil {
		return err
	}
	if err := writeFoodSheet(f, doc); err != nil {
		return fmt.Errorf("export: %s sheet: %w", SheetFood, err)
	}
	_, err := f.WriteTo(w)
	return err
}

// SaveXLSX writes the export to path.
func SaveXLSX(path, date string, doc *model.Document) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteXLSX(out, date, doc); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func writeDaySheet(f *excelize.File, date string, doc *model.Document) error {
	// StreamWriter keeps memory flat; rows must be written in order.
	sw, err := f.NewStreamWriter(SheetDay)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", []interface{}{"date", "section", "item", "done"}); err != nil {
		return err
	}
	row := 2
	for _, b := range render.Render(doc) {
		for _, r := range b.Rows {
			done := ""
			if r.Check != nil {
				done = "no"
				if r.Check.Done {
					done = "yes"
				}
			}
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := sw.SetRow(cell, []interface{}{date, b.Title, r.Text, done}); err != nil {
				return err
			}
			row++
		}
	}
	return sw.Flush()
}

func writeFoodSheet(f *excelize.File, doc *model.Document) error {
	sw, err := f.NewStreamWriter(SheetFood)
	if err != nil {
		return err
	}
	header := []interface{}{"meal", "name", "weight_g", "protein_g", "fat_g", "carbon_g"}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	row := 2
	if doc != nil && doc.Food != nil {
		for _, key := range doc.Food.Keys() {
			foods, _ := doc.Food.Get(key)
			for _, fd := range foods {
				cell, _ := excelize.CoordinatesToCellName(1, row)
				if err := sw.SetRow(cell, []interface{}{key, fd.Name, fd.Weight, fd.Protein, fd.Fat, fd.Carbon}); err != nil {
					return err
				}
				row++
			}
		}
	}
	return sw.Flush()
}
