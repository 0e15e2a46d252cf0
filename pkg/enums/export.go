package enums

import "fmt"

// ExportKind selects what the exporter renders.
type ExportKind string

const (
	ExportCurrentSetlist ExportKind = "current-setlist"
	ExportAllSongs       ExportKind = "all-songs"
	ExportMemberList     ExportKind = "member-list"
	ExportCalendar       ExportKind = "calendar"
	ExportCustom         ExportKind = "custom"
)

var validExportKinds = []ExportKind{
	ExportCurrentSetlist,
	ExportAllSongs,
	ExportMemberList,
	ExportCalendar,
	ExportCustom,
}

func (k ExportKind) String() string {
	return string(k)
}

func ParseExportKind(value string) (ExportKind, error) {
	for _, candidate := range validExportKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid export kind %q", value)
}

// ExportFormat is the rendered document type.
type ExportFormat string

const (
	ExportFormatText ExportFormat = "txt"
	ExportFormatHTML ExportFormat = "html"
)

// ParseExportFormat defaults to plain text when value is empty.
func ParseExportFormat(value string) (ExportFormat, error) {
	switch ExportFormat(value) {
	case "", ExportFormatText:
		return ExportFormatText, nil
	case ExportFormatHTML:
		return ExportFormatHTML, nil
	}
	return "", fmt.Errorf("invalid export format %q", value)
}

// ContentType returns the MIME type served for the format.
func (f ExportFormat) ContentType() string {
	if f == ExportFormatHTML {
		return "text/html; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}
