// Package export writes the grade interchange records as Parquet, CSV or
// JSON through an Arrow table.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/spektr-org/dashboards/grades"
)

// Format is an export file format.
type Format int

const (
	FormatParquet Format = iota
	FormatCSV
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatParquet:
		return "parquet"
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FormatForPath picks the format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return FormatParquet, nil
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	}
	return 0, fmt.Errorf("unsupported export extension %q (want .parquet, .csv or .json)", filepath.Ext(path))
}

// StudentSchema is the Arrow layout of grades.StudentRecord.
var StudentSchema = arrow.NewSchema([]arrow.Field{
	{Name: "id", Type: arrow.BinaryTypes.String},
	{Name: "name", Type: arrow.BinaryTypes.String},
	{Name: "grade", Type: arrow.PrimitiveTypes.Int64},
	{Name: "total_score", Type: arrow.PrimitiveTypes.Int64},
	{Name: "average", Type: arrow.PrimitiveTypes.Float64},
}, nil)

// StudentTable builds a single-chunk table from records. The caller owns the
// result and must Release it.
func StudentTable(records []grades.StudentRecord, mem memory.Allocator) arrow.Table {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	b := array.NewRecordBuilder(mem, StudentSchema)
	defer b.Release()

	ids := b.Field(0).(*array.StringBuilder)
	names := b.Field(1).(*array.StringBuilder)
	gradeCol := b.Field(2).(*array.Int64Builder)
	totals := b.Field(3).(*array.Int64Builder)
	avgs := b.Field(4).(*array.Float64Builder)
	for _, r := range records {
		ids.Append(r.ID)
		names.Append(r.Name)
		gradeCol.Append(int64(r.Grade))
		totals.Append(int64(r.TotalScore))
		avgs.Append(r.Average)
	}

	rec := b.NewRecord()
	defer rec.Release()
	return array.NewTableFromRecords(StudentSchema, []arrow.Record{rec})
}

// ToFile writes table to path in the format its extension names.
func ToFile(table arrow.Table, path string) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s file: %w", format, err)
	}
	defer file.Close()

	switch format {
	case FormatParquet:
		// the parquet writer closes file itself
		return WriteParquet(file, table)
	case FormatCSV:
		return WriteCSV(file, table)
	default:
		return WriteJSON(file, table)
	}
}

// WriteParquet writes table as Snappy-compressed Parquet with the Arrow
// schema stored in the file metadata.
func WriteParquet(w io.Writer, table arrow.Table) error {
	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	writer, err := pqarrow.NewFileWriter(table.Schema(), w, props, arrowProps)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	if err := writer.WriteTable(table, max(table.NumRows(), 1)); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write table to parquet: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// WriteCSV writes a header of field names then one line per row.
func WriteCSV(w io.Writer, table arrow.Table) error {
	writer := csv.NewWriter(w)

	schema := table.Schema()
	headers := make([]string, schema.NumFields())
	for i, field := range schema.Fields() {
		headers[i] = field.Name
	}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	err := eachRow(table, func(rec arrow.Record, row int) error {
		cells := make([]string, rec.NumCols())
		for c, col := range rec.Columns() {
			cells[c] = formatValue(col, row)
		}
		return writer.Write(cells)
	})
	if err != nil {
		return fmt.Errorf("failed to write CSV row: %w", err)
	}

	writer.Flush()
	return writer.Error()
}

// WriteJSON writes an indented array of objects keyed by field name.
func WriteJSON(w io.Writer, table arrow.Table) error {
	schema := table.Schema()
	records := make([]map[string]any, 0, table.NumRows())

	err := eachRow(table, func(rec arrow.Record, row int) error {
		obj := make(map[string]any, rec.NumCols())
		for c, col := range rec.Columns() {
			obj[schema.Field(c).Name] = typedValue(col, row)
		}
		records = append(records, obj)
		return nil
	})
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func eachRow(table arrow.Table, fn func(rec arrow.Record, row int) error) error {
	tr := array.NewTableReader(table, max(table.NumRows(), 1))
	defer tr.Release()

	for tr.Next() {
		rec := tr.Record()
		for row := 0; row < int(rec.NumRows()); row++ {
			if err := fn(rec, row); err != nil {
				return err
			}
		}
	}
	if tr.Err() != nil {
		return fmt.Errorf("error reading table: %w", tr.Err())
	}
	return nil
}

func formatValue(col arrow.Array, pos int) string {
	if col.IsNull(pos) {
		return ""
	}
	switch c := col.(type) {
	case *array.String:
		return c.Value(pos)
	case *array.Int64:
		return strconv.FormatInt(c.Value(pos), 10)
	case *array.Float64:
		return strconv.FormatFloat(c.Value(pos), 'f', -1, 64)
	}
	return col.ValueStr(pos)
}

func typedValue(col arrow.Array, pos int) any {
	if col.IsNull(pos) {
		return nil
	}
	switch c := col.(type) {
	case *array.String:
		return c.Value(pos)
	case *array.Int64:
		return c.Value(pos)
	case *array.Float64:
		return c.Value(pos)
	}
	return col.ValueStr(pos)
}
