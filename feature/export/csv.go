package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"crowdexport/core/utils"
)

// CellString renders a projected value as a CSV cell. Absent values become
// empty cells; nested objects are rendered as JSON so intermediate-node
// headers still carry their subtree.
func CellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case map[string]any:
		b, err := json.Marshal(val)
		if err != nil {
			return utils.ToString(val)
		}
		return string(b)
	default:
		return utils.ToString(val)
	}
}

// BuildCSV writes the header row and one projected row per record through a
// scratch file and returns the finished content. The scratch file is owned
// by this invocation alone and removed before returning.
func BuildCSV(headers []string, records []Record) ([]byte, error) {
	tmp, err := os.CreateTemp("", "crowdexport-*.csv")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch file: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	cells := make([]string, len(headers))
	for _, record := range records {
		row := Row(record.Normalized(), headers)
		for i, v := range row {
			cells[i] = CellString(v)
		}
		if err := w.Write(cells); err != nil {
			return nil, fmt.Errorf("failed to write data row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind scratch file: %w", err)
	}
	data, err := io.ReadAll(tmp)
	if err != nil {
		return nil, fmt.Errorf("failed to read scratch file: %w", err)
	}
	return data, nil
}
