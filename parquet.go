package framesql

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	pqfile "github.com/apache/arrow/go/v18/parquet/file"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
)

// FromParquet loads Parquet data into a frame. Column kinds come from the
// Parquet schema, so integer, float, boolean, and timestamp columns arrive
// typed; null cells become Missing. The whole input is read into memory
// because Parquet requires random access.
func FromParquet(r io.Reader) (*Frame, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("framesql: read parquet: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty parquet input", ErrEmptyData)
	}

	pqReader, err := pqfile.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("framesql: parquet reader: %w", err)
	}
	defer pqReader.Close()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, nil)
	if err != nil {
		return nil, fmt.Errorf("framesql: arrow reader: %w", err)
	}

	table, err := arrowReader.ReadTable(context.Background())
	if err != nil {
		return nil, fmt.Errorf("framesql: read parquet table: %w", err)
	}
	defer table.Release()

	schema := table.Schema()
	columns := make([]Column, schema.NumFields())
	for i, field := range schema.Fields() {
		columns[i] = Column{Name: field.Name, Kind: kindOfArrowType(field.Type)}
	}

	tableReader := array.NewTableReader(table, 0)
	defer tableReader.Release()

	for tableReader.Next() {
		batch := tableReader.Record()
		numRows := int(batch.NumRows())
		for j, col := range batch.Columns() {
			for i := range numRows {
				columns[j].Values = append(columns[j].Values, arrowCell(col, i))
			}
		}
	}
	if err := tableReader.Err(); err != nil {
		return nil, fmt.Errorf("framesql: read parquet records: %w", err)
	}

	return NewFrame(columns...)
}

// kindOfArrowType maps an Arrow field type to a column kind.
func kindOfArrowType(dt arrow.DataType) Kind {
	switch dt.ID() {
	case arrow.INT8:
		return KindInt8
	case arrow.INT16:
		return KindInt16
	case arrow.INT32:
		return KindInt32
	case arrow.INT64:
		return KindInt64
	case arrow.UINT8:
		return KindUint8
	case arrow.UINT16:
		return KindUint16
	case arrow.UINT32:
		return KindUint32
	case arrow.UINT64:
		return KindUint64
	case arrow.FLOAT32:
		return KindFloat32
	case arrow.FLOAT64:
		return KindFloat64
	case arrow.BOOL:
		return KindBool
	case arrow.TIMESTAMP, arrow.DATE32, arrow.DATE64:
		return KindDatetime
	default:
		return KindObject
	}
}

// arrowCell extracts row i of an Arrow array as a SQL-bindable cell.
func arrowCell(col arrow.Array, i int) any {
	if col.IsNull(i) {
		return Missing
	}
	switch arr := col.(type) {
	case *array.Boolean:
		return arr.Value(i)
	case *array.Int8:
		return int64(arr.Value(i))
	case *array.Int16:
		return int64(arr.Value(i))
	case *array.Int32:
		return int64(arr.Value(i))
	case *array.Int64:
		return arr.Value(i)
	case *array.Uint8:
		return int64(arr.Value(i))
	case *array.Uint16:
		return int64(arr.Value(i))
	case *array.Uint32:
		return int64(arr.Value(i))
	case *array.Uint64:
		// Values past MaxInt64 do not fit the INTEGER storage class; keep
		// them as decimal text rather than flipping the sign.
		v := arr.Value(i)
		if v > math.MaxInt64 {
			return strconv.FormatUint(v, 10)
		}
		return int64(v)
	case *array.Float32:
		return float64(arr.Value(i))
	case *array.Float64:
		return arr.Value(i)
	case *array.String:
		return arr.Value(i)
	case *array.LargeString:
		return arr.Value(i)
	case *array.Timestamp:
		unit := arr.DataType().(*arrow.TimestampType).Unit
		return arr.Value(i).ToTime(unit)
	case *array.Date32:
		return arr.Value(i).ToTime()
	case *array.Date64:
		return arr.Value(i).ToTime()
	default:
		return col.ValueStr(i)
	}
}
