package meta

import (
	"fmt"

	tstypes "github.com/aws/aws-sdk-go-v2/service/timestreamquery/types"
	"github.com/kent-id/tsodbc/util"
)

// ColumnMetaVector is the ordered column list of a result set.
type ColumnMetaVector []ColumnMeta

// NewResultMeta reads the result set shape from the service's column infos.
func NewResultMeta(columns []tstypes.ColumnInfo) (ColumnMetaVector, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("at least one column must be returned by the data set")
	}
	out := make(ColumnMetaVector, 0, len(columns))
	for index, info := range columns {
		if info.Type == nil {
			return nil, fmt.Errorf("column type from result set is empty, index: %d, name: %s", index, util.SafeString(info.Name))
		}
		out = append(out, NewResultColumnMeta(info, int32(index+1)))
	}
	return out, nil
}

// Column returns the descriptor of the 1-based column idx.
func (v ColumnMetaVector) Column(idx int) (*ColumnMeta, bool) {
	if idx < 1 || idx > len(v) {
		return nil, false
	}
	return &v[idx-1], true
}

// Index returns the 1-based position of the named column.
func (v ColumnMetaVector) Index(name string) (int, bool) {
	for i := range v {
		if v[i].ColumnName == name {
			return i + 1, true
		}
	}
	return 0, false
}
