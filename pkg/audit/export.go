package audit

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// ExportFormat represents the format for exporting audit logs
type ExportFormat string

const (
	FormatText  ExportFormat = "text"
	FormatJSONL ExportFormat = "jsonl" // JSON Lines (one JSON object per line)
	FormatCSV   ExportFormat = "csv"
)

// ParseExportFormat converts a format name to an ExportFormat.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSONL, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", s)
	}
}

// Export writes events to writer in the given format.
func Export(writer io.Writer, events []*Event, format ExportFormat) error {
	switch format {
	case FormatText:
		return exportText(writer, events)
	case FormatJSONL:
		return exportJSONL(writer, events)
	case FormatCSV:
		return exportCSV(writer, events)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

func exportText(writer io.Writer, events []*Event) error {
	for _, event := range events {
		if _, err := fmt.Fprintln(writer, event.String()); err != nil {
			return err
		}
	}
	return nil
}

// exportJSONL exports events as JSON Lines (one JSON object per line)
func exportJSONL(writer io.Writer, events []*Event) error {
	for _, event := range events {
		data, err := json.Marshal(event)
		if err != nil {
			return err
		}
		if _, err := writer.Write(append(data, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// exportCSV exports events as CSV
func exportCSV(writer io.Writer, events []*Event) (retErr error) {
	csvWriter := csv.NewWriter(writer)
	defer func() {
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil && retErr == nil {
			retErr = fmt.Errorf("CSV writer flush error: %w", err)
		}
	}()

	header := []string{"ID", "Timestamp", "Session", "Action", "Preset", "Status", "Detail", "ErrorMessage"}
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, event := range events {
		record := []string{
			event.ID,
			event.Timestamp.Format(time.RFC3339),
			event.Session,
			string(event.Action),
			event.Preset,
			string(event.Status),
			event.Detail,
			event.ErrorMessage,
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	return nil
}
