// Package export renders ranked search results into spreadsheet-friendly
// files.
package export

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/avdeev/channel-scout-go/internal/domain"
)

// The target audience opens these files in Russian-locale Excel, which
// expects a UTF-8 BOM, semicolon separators and CRLF line endings. Every
// field is quoted; encoding/csv cannot be made to quote unconditionally,
// hence the hand-written writer.
const (
	utf8BOM   = "\uFEFF"
	separator = ";"
	lineEnd   = "\r\n"
)

var csvHeader = []string{"Название канала", "Ссылка", "Количество подписчиков"}

// ChannelsCSV renders candidate records into a CSV document. Row order
// follows the input order, so callers pass the already ranked list.
func ChannelsCSV(records []*domain.CandidateRecord) []byte {
	var buf bytes.Buffer
	buf.WriteString(utf8BOM)
	writeRow(&buf, csvHeader)

	for _, record := range records {
		if record == nil || record.Profile == nil {
			continue
		}
		writeRow(&buf, []string{
			record.Profile.DisplayTitle(),
			record.Profile.Link(),
			strconv.Itoa(record.ParticipantsCount),
		})
	}
	return buf.Bytes()
}

func writeRow(buf *bytes.Buffer, fields []string) {
	for i, field := range fields {
		if i > 0 {
			buf.WriteString(separator)
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(field, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteString(lineEnd)
}
