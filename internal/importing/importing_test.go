package importing

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestValidateGrid_MissingRequiredHeader(t *testing.T) {
	grid := [][]string{
		{"name", "unit_cost", "unit"},
		{"Fita", "2.5", "m"},
	}

	result := ValidateGrid(grid)

	require.Empty(t, result.Materials)
	require.Len(t, result.Errors, 1)
	require.Contains(t, result.Errors[0], "stock_qty")
}

func TestValidateGrid_PartialSuccess(t *testing.T) {
	grid := [][]string{
		{"name", "unit_cost", "unit", "stock_qty"},
		{"Fita de Gorgurão", "2.5", "m", "50"},
		{"Cola Quente", "-0.8", "un", "100"},
		{"Tiara Plástica", "1.2", "un", "30"},
		{"Pérola Sintética", "0.1", "un", "200"},
	}

	result := ValidateGrid(grid)

	require.Len(t, result.Materials, 3, "valid rows must survive an invalid sibling")
	require.Len(t, result.Errors, 1)
	require.Contains(t, result.Errors[0], "Linha 3")
	require.Contains(t, result.Errors[0], "Cola Quente")
}

func TestValidateGrid_HeadersAreCaseInsensitiveAndTrimmed(t *testing.T) {
	grid := [][]string{
		{" Name ", "UNIT_COST", " Unit", "Stock_Qty ", "image_path"},
		{"Fita", "2.5", "M", "50", "https://example.com/fita.png"},
	}

	result := ValidateGrid(grid)

	require.Empty(t, result.Errors)
	require.Len(t, result.Materials, 1)
	m := result.Materials[0]
	require.Equal(t, "Fita", m.Name)
	require.Equal(t, "m", m.Unit, "unit tags normalize to lower case")
	require.Equal(t, 50, m.Stock)
	require.Equal(t, "https://example.com/fita.png", m.ImageURL)
}

func TestValidateGrid_RowLevelValidation(t *testing.T) {
	grid := [][]string{
		{"name", "unit_cost", "unit", "stock_qty"},
		{"", "2.5", "m", "50"},
		{"Sem custo", "abc", "m", "50"},
		{"Estoque quebrado", "2.5", "m", "-3"},
		{"Estoque decimal", "2.5", "m", "1.5"},
		{"Unidade estranha", "2.5", "kg", "50"},
	}

	result := ValidateGrid(grid)

	require.Empty(t, result.Materials)
	require.Len(t, result.Errors, 5)
	require.Contains(t, result.Errors[0], "Nome do material está vazio")
	require.Contains(t, result.Errors[1], "Custo unitário inválido")
	require.Contains(t, result.Errors[2], "Quantidade em estoque inválida")
	require.Contains(t, result.Errors[3], "Quantidade em estoque inválida")
	require.Contains(t, result.Errors[4], "Unidade inválida")
}

func TestValidateGrid_SkipsBlankRowsSilently(t *testing.T) {
	grid := [][]string{
		{"name", "unit_cost", "unit", "stock_qty"},
		{"", "", "", ""},
		{"Fita", "2.5", "m", "50"},
		{"   ", " ", "", ""},
	}

	result := ValidateGrid(grid)

	require.Empty(t, result.Errors)
	require.Len(t, result.Materials, 1)
}

func TestValidateGrid_EmptyGrid(t *testing.T) {
	result := ValidateGrid([][]string{{"name", "unit_cost", "unit", "stock_qty"}})

	require.Empty(t, result.Materials)
	require.Len(t, result.Errors, 1)
	require.Contains(t, result.Errors[0], "vazia")
}

func TestValidateGrid_ShortRowsAreHandled(t *testing.T) {
	grid := [][]string{
		{"name", "unit_cost", "unit", "stock_qty"},
		{"Fita"},
	}

	result := ValidateGrid(grid)

	require.Empty(t, result.Materials)
	require.Len(t, result.Errors, 1)
}

func TestReportedErrors_TruncatesToFive(t *testing.T) {
	result := Result{Errors: []string{"1", "2", "3", "4", "5", "6", "7"}}
	require.Len(t, result.ReportedErrors(), MaxReportedErrors)
	require.Equal(t, []string{"1", "2", "3", "4", "5"}, result.ReportedErrors())
}

func TestReadWorkbook_RoundTrip(t *testing.T) {
	wb := excelize.NewFile()
	defer wb.Close()
	sheet := wb.GetSheetName(0)
	require.NoError(t, wb.SetSheetRow(sheet, "A1", &[]string{"name", "unit_cost", "unit", "stock_qty"}))
	require.NoError(t, wb.SetSheetRow(sheet, "A2", &[]string{"Fita", "2.5", "m", "50"}))

	var buf bytes.Buffer
	require.NoError(t, wb.Write(&buf))

	grid, err := ReadWorkbook(&buf)
	require.NoError(t, err)
	require.Len(t, grid, 2)

	result := ValidateGrid(grid)
	require.Empty(t, result.Errors)
	require.Len(t, result.Materials, 1)
}

func TestReadWorkbook_RejectsGarbage(t *testing.T) {
	_, err := ReadWorkbook(strings.NewReader("definitely not a spreadsheet"))
	require.Error(t, err)
}
