// Package importing turns spreadsheet rows into material records with
// row-level validation. Rows are validated independently; a bad row never
// aborts the batch.
package importing

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/silabala/atelie/internal/catalog"
)

// Required spreadsheet headers, matched case-insensitively after trimming.
var requiredHeaders = []string{"name", "unit_cost", "unit", "stock_qty"}

const optionalImageHeader = "image_path"

// MaxReportedErrors caps how many row errors callers surface at once.
const MaxReportedErrors = 5

// Result carries the validated batch and every row error collected.
type Result struct {
	Materials []catalog.Material
	Errors    []string
}

// ReportedErrors returns at most MaxReportedErrors entries for display.
func (r Result) ReportedErrors() []string {
	if len(r.Errors) > MaxReportedErrors {
		return r.Errors[:MaxReportedErrors]
	}
	return r.Errors
}

// ReadWorkbook parses an xlsx stream into the raw 2D grid of its first
// sheet.
func ReadWorkbook(r io.Reader) ([][]string, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

// ValidateGrid checks the header row and validates every data row
// independently. Valid rows accumulate into the batch; invalid rows are
// collected as errors and skipped. Ids are assigned later by the store.
func ValidateGrid(grid [][]string) Result {
	if len(grid) < 2 {
		return Result{Errors: []string{"A planilha está vazia ou contém apenas o cabeçalho."}}
	}

	headers := make([]string, len(grid[0]))
	for i, h := range grid[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	missing := make([]string, 0)
	for _, required := range requiredHeaders {
		if indexOf(headers, required) < 0 {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return Result{Errors: []string{fmt.Sprintf("Colunas obrigatórias faltando: %s", strings.Join(missing, ", "))}}
	}

	nameIdx := indexOf(headers, "name")
	costIdx := indexOf(headers, "unit_cost")
	unitIdx := indexOf(headers, "unit")
	stockIdx := indexOf(headers, "stock_qty")
	imageIdx := indexOf(headers, optionalImageHeader)

	result := Result{}
	for i := 1; i < len(grid); i++ {
		row := grid[i]
		if isBlankRow(row) {
			continue
		}

		line := i + 1
		name := strings.TrimSpace(cell(row, nameIdx))
		if name == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Linha %d: Nome do material está vazio.", line))
			continue
		}

		unitCost, err := strconv.ParseFloat(strings.TrimSpace(cell(row, costIdx)), 64)
		if err != nil || unitCost < 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Linha %d: Custo unitário inválido para %q.", line, name))
			continue
		}

		stock, err := strconv.Atoi(strings.TrimSpace(cell(row, stockIdx)))
		if err != nil || stock < 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Linha %d: Quantidade em estoque inválida para %q.", line, name))
			continue
		}

		unit := strings.ToLower(strings.TrimSpace(cell(row, unitIdx)))
		if !catalog.IsValidUnit(unit) {
			result.Errors = append(result.Errors, fmt.Sprintf("Linha %d: Unidade inválida para %q. Use: %s.", line, name, strings.Join(catalog.ValidUnits, ", ")))
			continue
		}

		result.Materials = append(result.Materials, catalog.Material{
			Name:     name,
			UnitCost: unitCost,
			Unit:     unit,
			Stock:    stock,
			ImageURL: strings.TrimSpace(cell(row, imageIdx)),
		})
	}

	return result
}

func indexOf(values []string, target string) int {
	for i, v := range values {
		if v == target {
			return i
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
