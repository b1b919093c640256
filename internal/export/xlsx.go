// Package export writes a user's armor progress as a spreadsheet.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/erazemk/armory/internal/armor"
)

const (
	ArmorSheet     = "Armor"
	MaterialsSheet = "Materials"
)

// ContentType is the MIME type of the workbook written by WriteXLSX.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteXLSX writes view as a workbook with one sheet of armor levels and one
// of remaining materials.
func WriteXLSX(w io.Writer, view *armor.View) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ArmorSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if _, err := f.NewSheet(MaterialsSheet); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	armorRows := [][]any{{"Armor", "Set", "Body Part", "Level", "Max Level"}}
	for _, p := range view.Pieces {
		var level any = p.Display
		if p.Purchased() {
			level = p.Level
		}
		armorRows = append(armorRows, []any{p.Name, p.SetLabel, p.BodyPart.Label(), level, p.MaxLevel})
	}
	if err := writeRows(f, ArmorSheet, armorRows, headerStyle); err != nil {
		return err
	}

	materialRows := [][]any{{"Material", "Remaining"}}
	for _, m := range view.Materials {
		materialRows = append(materialRows, []any{m.Label, m.Quantity})
	}
	materialRows = append(materialRows, []any{"Total", view.Total})
	if err := writeRows(f, MaterialsSheet, materialRows, headerStyle); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}

	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("styling %s header: %w", sheet, err)
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
