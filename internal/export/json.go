package export

import (
	"encoding/json"
	"fmt"
	"io"

	"coolpc/internal/model"
)

// WriteJSON writes the nested category records, indented by two spaces and
// with non-ASCII text left unescaped.
func WriteJSON(w io.Writer, categories []model.Category) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(categories); err != nil {
		return fmt.Errorf("encode categories: %w", err)
	}
	return nil
}
