package meta

import (
	"fmt"

	tstypes "github.com/aws/aws-sdk-go-v2/service/timestreamquery/types"
	"github.com/kent-id/tsodbc/types"
	"github.com/kent-id/tsodbc/util"
)

// ColumnMeta describes one column of a result set or of a catalog table.
type ColumnMeta struct {
	CatalogName     string
	SchemaName      string
	TableName       string
	ColumnName      string
	DataType        types.SqlType
	ScalarType      tstypes.ScalarType
	Complex         bool
	Nullability     types.Nullability
	Remarks         string
	OrdinalPosition int32
}

// NewResultColumnMeta describes a result set column from the service's
// column info.
func NewResultColumnMeta(info tstypes.ColumnInfo, ordinal int32) ColumnMeta {
	m := ColumnMeta{
		ColumnName:      util.SafeString(info.Name),
		Nullability:     types.NullableUnknown,
		OrdinalPosition: ordinal,
	}
	m.setType(info.Type)
	return m
}

// NewColumnMeta describes a column with a known SQL type, as used by the
// static catalog result sets.
func NewColumnMeta(schema, table, column string, dataType types.SqlType, nullability types.Nullability) ColumnMeta {
	return ColumnMeta{
		SchemaName:  schema,
		TableName:   table,
		ColumnName:  column,
		DataType:    dataType,
		ScalarType:  sqlToScalarType(dataType),
		Nullability: nullability,
	}
}

func (m *ColumnMeta) setType(t *tstypes.Type) {
	switch {
	case t == nil:
		m.ScalarType = tstypes.ScalarTypeUnknown
	case t.ArrayColumnInfo != nil || t.RowColumnInfo != nil || t.TimeSeriesMeasureValueColumnInfo != nil:
		m.ScalarType = tstypes.ScalarTypeVarchar
		m.Complex = true
	default:
		m.ScalarType = t.ScalarType
	}
	m.DataType = ScalarToSqlType(m.ScalarType)
}

func sqlToScalarType(t types.SqlType) tstypes.ScalarType {
	switch t {
	case types.SqlTypeBit:
		return tstypes.ScalarTypeBoolean
	case types.SqlTypeBigint:
		return tstypes.ScalarTypeBigint
	case types.SqlTypeInteger, types.SqlTypeSmallint, types.SqlTypeTinyint:
		return tstypes.ScalarTypeInteger
	case types.SqlTypeDouble, types.SqlTypeFloat, types.SqlTypeReal:
		return tstypes.ScalarTypeDouble
	case types.SqlTypeTimestamp:
		return tstypes.ScalarTypeTimestamp
	case types.SqlTypeDate:
		return tstypes.ScalarTypeDate
	case types.SqlTypeTime:
		return tstypes.ScalarTypeTime
	case types.SqlTypeIntervalDaySecond:
		return tstypes.ScalarTypeIntervalDayToSecond
	case types.SqlTypeIntervalYearMonth:
		return tstypes.ScalarTypeIntervalYearToMonth
	}
	return tstypes.ScalarTypeVarchar
}

// Read fills the column from one row of `DESCRIBE "db"."table"` output:
// column name, type name and the Timestream attribute kind, which becomes
// the remarks.
func (m *ColumnMeta) Read(schema, table string, row tstypes.Row, ordinal int32) error {
	if len(row.Data) < 2 {
		return fmt.Errorf("describe row has %d fields, want at least 2", len(row.Data))
	}
	name := util.SafeString(row.Data[0].ScalarValue)
	if name == "" {
		return fmt.Errorf("describe row %d has no column name", ordinal)
	}
	typeName := util.SafeString(row.Data[1].ScalarValue)
	if typeName == "" {
		return fmt.Errorf("describe row %d, column %s has no type", ordinal, name)
	}

	m.SchemaName = schema
	m.TableName = table
	m.ColumnName = name
	m.ScalarType, m.Complex = ParseTypeName(typeName)
	m.DataType = ScalarToSqlType(m.ScalarType)
	m.Nullability = types.Nullable
	m.OrdinalPosition = ordinal
	if len(row.Data) > 2 {
		m.Remarks = util.SafeString(row.Data[2].ScalarValue)
	}
	return nil
}

// TypeName is the service type name of the column.
func (m *ColumnMeta) TypeName() string {
	if m.Complex {
		return TypeNameVarchar
	}
	return SqlTypeName(m.DataType)
}

// GetStringAttribute returns a character SQLColAttribute field.
func (m *ColumnMeta) GetStringAttribute(field types.ColAttr) (string, bool) {
	switch field {
	case types.ColAttrLabel, types.ColAttrName, types.ColAttrBaseColumnName:
		return m.ColumnName, true
	case types.ColAttrTableName, types.ColAttrBaseTableName:
		return m.TableName, true
	case types.ColAttrSchemaName:
		return m.SchemaName, true
	case types.ColAttrCatalogName:
		return m.CatalogName, true
	case types.ColAttrTypeName, types.ColAttrLocalTypeName:
		return m.TypeName(), true
	case types.ColAttrLiteralPrefix:
		return LiteralPrefix(m.DataType), true
	case types.ColAttrLiteralSuffix:
		return LiteralSuffix(m.DataType), true
	}
	return "", false
}

// GetNumericAttribute returns a numeric SQLColAttribute field.
func (m *ColumnMeta) GetNumericAttribute(field types.ColAttr) (int64, bool) {
	switch field {
	case types.ColAttrType, types.ColAttrConciseType:
		return int64(m.DataType), true
	case types.ColAttrLength, types.ColAttrPrecision:
		return int64(ColumnSize(m.DataType)), true
	case types.ColAttrScale:
		return int64(DecimalDigits(m.DataType)), true
	case types.ColAttrDisplaySize:
		return int64(DisplaySize(m.DataType)), true
	case types.ColAttrOctetLength:
		return int64(OctetLength(m.DataType)), true
	case types.ColAttrNullable:
		return int64(m.Nullability), true
	case types.ColAttrUnnamed:
		if m.ColumnName == "" {
			return types.Unnamed, true
		}
		return types.Named, true
	case types.ColAttrUpdatable:
		return types.AttrReadOnly, true
	case types.ColAttrAutoUniqueValue, types.ColAttrFixedPrecScale:
		return int64(types.SqlFalse), true
	case types.ColAttrCaseSensitive:
		return boolAttr(IsCaseSensitive(m.DataType)), true
	case types.ColAttrUnsigned:
		return boolAttr(IsUnsigned(m.DataType)), true
	case types.ColAttrNumPrecRadix:
		return int64(NumPrecRadix(m.DataType)), true
	case types.ColAttrSearchable:
		return Searchable, true
	}
	return 0, false
}

// Searchable is SQL_SEARCHABLE, reported for every column.
const Searchable int64 = 3

func boolAttr(v bool) int64 {
	if v {
		return int64(types.SqlTrue)
	}
	return int64(types.SqlFalse)
}
