package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/football-history/internal/domain/match"
)

// Encode writes the header and one row per standardized record.
func Encode(w io.Writer, dataset match.Dataset) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(match.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(match.Columns))
	for _, r := range match.StandardizeRecords(dataset) {
		row[0] = match.FormatTimestamp(r.Date)
		row[1] = r.HomeTeam
		row[2] = r.AwayTeam
		row[3] = strconv.Itoa(r.HomeGoals)
		row[4] = strconv.Itoa(r.AwayGoals)
		row[5] = r.CompetitionName
		row[6] = r.CompetitionCode
		row[7] = strconv.Itoa(r.Season)
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// EncodeToPool encodes into a pooled buffer. Callers must return it with
// bytebufferpool.Put.
func EncodeToPool(dataset match.Dataset) (*bytebufferpool.ByteBuffer, error) {
	buf := bytebufferpool.Get()
	if err := Encode(buf, dataset); err != nil {
		bytebufferpool.Put(buf)
		return nil, err
	}
	return buf, nil
}

// Decode reads rows by header name. Unknown columns are ignored, missing
// ones are left blank, and rows that do not standardize are dropped. An
// empty input decodes to an empty dataset.
func Decode(r io.Reader) (match.Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return match.Dataset{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	rows := make([]match.RawRecord, 0, 1024)
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		raw := make(match.RawRecord, len(match.Columns))
		for _, column := range match.Columns {
			i, ok := index[column]
			if !ok || i >= len(fields) {
				continue
			}
			raw[column] = fields[i]
		}
		rows = append(rows, raw)
	}

	return match.Standardize(rows), nil
}
