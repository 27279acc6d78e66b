package athena

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/athena/types"
	tstypes "github.com/aws/aws-sdk-go-v2/service/timestreamquery/types"
	"github.com/kent-id/tsodbc/util"
)

// scalarType maps an Athena column type onto the scalar type its values
// are parsed as. Decimals stay text so no digits are lost; complex values
// arrive already rendered.
func scalarType(athenaType string) tstypes.ScalarType {
	t := strings.ToLower(strings.TrimSpace(athenaType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = t[:i]
	}
	switch t {
	case "boolean":
		return tstypes.ScalarTypeBoolean
	case "tinyint", "smallint", "integer", "int":
		return tstypes.ScalarTypeInteger
	case "bigint":
		return tstypes.ScalarTypeBigint
	case "double", "float", "real":
		return tstypes.ScalarTypeDouble
	case "timestamp":
		return tstypes.ScalarTypeTimestamp
	case "date":
		return tstypes.ScalarTypeDate
	case "time":
		return tstypes.ScalarTypeTime
	case "interval day to second":
		return tstypes.ScalarTypeIntervalDayToSecond
	case "interval year to month":
		return tstypes.ScalarTypeIntervalYearToMonth
	}
	return tstypes.ScalarTypeVarchar
}

func columnInfos(metadata *types.ResultSetMetadata) []tstypes.ColumnInfo {
	if metadata == nil {
		return nil
	}
	out := make([]tstypes.ColumnInfo, 0, len(metadata.ColumnInfo))
	for _, column := range metadata.ColumnInfo {
		out = append(out, tstypes.ColumnInfo{
			Name: util.RefString(util.SafeString(column.Name)),
			Type: &tstypes.Type{ScalarType: scalarType(util.SafeString(column.Type))},
		})
	}
	return out
}

func convertRows(rows []types.Row) []tstypes.Row {
	out := make([]tstypes.Row, 0, len(rows))
	for _, row := range rows {
		data := make([]tstypes.Datum, 0, len(row.Data))
		for _, datum := range row.Data {
			if datum.VarCharValue == nil {
				data = append(data, tstypes.Datum{NullValue: util.RefBool(true)})
				continue
			}
			data = append(data, tstypes.Datum{ScalarValue: datum.VarCharValue})
		}
		out = append(out, tstypes.Row{Data: data})
	}
	return out
}
