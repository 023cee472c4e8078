package main

import (
	"net/http"

	"github.com/silabala/atelie/internal/importing"
)

// maxImportSize caps uploaded spreadsheets at 10 MiB.
const maxImportSize = 10 << 20

type importResponse struct {
	Imported    int      `json:"imported"`
	Errors      []string `json:"errors"`
	TotalErrors int      `json:"totalErrors"`
}

// handleMaterialsImport runs a partial-success import: valid rows land in
// the catalog even when other rows fail, and the response reports both.
func (s *server) handleMaterialsImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		writeError(w, http.StatusBadRequest, "Envie o arquivo no campo 'file'.")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Envie o arquivo no campo 'file'.")
		return
	}
	defer file.Close()

	grid, err := importing.ReadWorkbook(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Não foi possível ler a planilha. Envie um arquivo .xlsx válido.")
		return
	}

	result := importing.ValidateGrid(grid)

	if len(result.Materials) > 0 {
		if _, err := s.store.AddMaterialsBatch(result.Materials); err != nil {
			writeError(w, http.StatusInternalServerError, "Erro ao salvar os materiais importados.")
			return
		}
	}

	writeJSON(w, http.StatusOK, importResponse{
		Imported:    len(result.Materials),
		Errors:      result.ReportedErrors(),
		TotalErrors: len(result.Errors),
	})
}
