// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sink persists normalized feature maps as stored artifacts.
package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"featex/pkg/types"
)

const sheet = "Features"

// Excel writes one XLSX workbook per document into OutputDir: a single
// sheet with Feature/Value columns, rows in schema order.
type Excel struct {
	OutputDir string
	Log       *zap.SugaredLogger
}

// Persist writes <stem>.xlsx for the named source document and returns the
// artifact path. Nil feature values produce empty cells.
func (e *Excel) Persist(source string, spec types.FeatureSpec, features types.FeatureSet) (string, error) {
	if err := os.MkdirAll(e.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return "", fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", fmt.Errorf("removing default sheet: %w", err)
	}

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	write(1, 1, "Feature")
	write(2, 1, "Value")
	for i, name := range spec {
		write(1, i+2, name)
		if v := features[name]; v != nil {
			write(2, i+2, v)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 32)
	_ = f.SetColWidth(sheet, "B", "B", 48)

	stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	path := filepath.Join(e.OutputDir, stem+".xlsx")
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("writing workbook: %w", err)
	}

	e.Log.Debugw("persisted features", "file", source, "artifact", path)
	return path, nil
}
