package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/powderline/resort-cli/internal/model"
	"github.com/powderline/resort-cli/internal/rules"
)

// WriteXLSX writes the metrics to a single-sheet workbook with the same
// columns as the CSV export.
func WriteXLSX(path string, metrics []model.ResortMetrics, profile *rules.Profile) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("resorts")
	if err != nil {
		return eris.Wrap(err, "export: add xlsx sheet")
	}

	header := sheet.AddRow()
	for _, col := range Columns(profile) {
		header.AddCell().Value = col
	}

	for i := range metrics {
		row := sheet.AddRow()
		for _, val := range Row(&metrics[i], profile) {
			row.AddCell().Value = val
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save xlsx %s", path)
	}
	return nil
}
