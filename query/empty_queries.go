package query

import (
	"github.com/kent-id/tsodbc"
	"github.com/kent-id/tsodbc/diagnostic"
)

// The service has no keys, indexes, procedures or privileges, so these
// catalog functions return empty result sets with their standard columns.

type PrimaryKeysQuery struct{ *rowSetQuery }

func NewPrimaryKeysQuery(logger *tsodbc.Logger, diag *diagnostic.Diagnosable) *PrimaryKeysQuery {
	return &PrimaryKeysQuery{newRowSetQuery(logger, diag, columnsOf(
		varcharCol("TABLE_CAT"),
		varcharCol("TABLE_SCHEM"),
		varcharColNoNulls("TABLE_NAME"),
		varcharColNoNulls("COLUMN_NAME"),
		smallintColNoNulls("KEY_SEQ"),
		varcharCol("PK_NAME"),
	), nil)}
}

type ForeignKeysQuery struct{ *rowSetQuery }

func NewForeignKeysQuery(logger *tsodbc.Logger, diag *diagnostic.Diagnosable) *ForeignKeysQuery {
	return &ForeignKeysQuery{newRowSetQuery(logger, diag, columnsOf(
		varcharCol("PKTABLE_CAT"),
		varcharCol("PKTABLE_SCHEM"),
		varcharColNoNulls("PKTABLE_NAME"),
		varcharColNoNulls("PKCOLUMN_NAME"),
		varcharCol("FKTABLE_CAT"),
		varcharCol("FKTABLE_SCHEM"),
		varcharColNoNulls("FKTABLE_NAME"),
		varcharColNoNulls("FKCOLUMN_NAME"),
		smallintColNoNulls("KEY_SEQ"),
		smallintCol("UPDATE_RULE"),
		smallintCol("DELETE_RULE"),
		varcharCol("FK_NAME"),
		varcharCol("PK_NAME"),
		smallintCol("DEFERRABILITY"),
	), nil)}
}

type StatisticsQuery struct{ *rowSetQuery }

func NewStatisticsQuery(logger *tsodbc.Logger, diag *diagnostic.Diagnosable) *StatisticsQuery {
	return &StatisticsQuery{newRowSetQuery(logger, diag, columnsOf(
		varcharCol("TABLE_CAT"),
		varcharCol("TABLE_SCHEM"),
		varcharColNoNulls("TABLE_NAME"),
		smallintCol("NON_UNIQUE"),
		varcharCol("INDEX_QUALIFIER"),
		varcharCol("INDEX_NAME"),
		smallintColNoNulls("TYPE"),
		smallintCol("ORDINAL_POSITION"),
		varcharCol("COLUMN_NAME"),
		varcharCol("ASC_OR_DESC"),
		integerCol("CARDINALITY"),
		integerCol("PAGES"),
		varcharCol("FILTER_CONDITION"),
	), nil)}
}

type ProceduresQuery struct{ *rowSetQuery }

func NewProceduresQuery(logger *tsodbc.Logger, diag *diagnostic.Diagnosable) *ProceduresQuery {
	return &ProceduresQuery{newRowSetQuery(logger, diag, columnsOf(
		varcharCol("PROCEDURE_CAT"),
		varcharCol("PROCEDURE_SCHEM"),
		varcharColNoNulls("PROCEDURE_NAME"),
		integerCol("NUM_INPUT_PARAMS"),
		integerCol("NUM_OUTPUT_PARAMS"),
		integerCol("NUM_RESULT_SETS"),
		varcharCol("REMARKS"),
		smallintCol("PROCEDURE_TYPE"),
	), nil)}
}

type ProcedureColumnsQuery struct{ *rowSetQuery }

func NewProcedureColumnsQuery(logger *tsodbc.Logger, diag *diagnostic.Diagnosable) *ProcedureColumnsQuery {
	return &ProcedureColumnsQuery{newRowSetQuery(logger, diag, columnsOf(
		varcharCol("PROCEDURE_CAT"),
		varcharCol("PROCEDURE_SCHEM"),
		varcharColNoNulls("PROCEDURE_NAME"),
		varcharColNoNulls("COLUMN_NAME"),
		smallintColNoNulls("COLUMN_TYPE"),
		smallintColNoNulls("DATA_TYPE"),
		varcharColNoNulls("TYPE_NAME"),
		integerCol("COLUMN_SIZE"),
		integerCol("BUFFER_LENGTH"),
		smallintCol("DECIMAL_DIGITS"),
		smallintCol("NUM_PREC_RADIX"),
		smallintColNoNulls("NULLABLE"),
		varcharCol("REMARKS"),
		varcharCol("COLUMN_DEF"),
		smallintColNoNulls("SQL_DATA_TYPE"),
		smallintCol("SQL_DATETIME_SUB"),
		integerCol("CHAR_OCTET_LENGTH"),
		integerColNoNulls("ORDINAL_POSITION"),
		varcharCol("IS_NULLABLE"),
	), nil)}
}

type ColumnPrivilegesQuery struct{ *rowSetQuery }

func NewColumnPrivilegesQuery(logger *tsodbc.Logger, diag *diagnostic.Diagnosable) *ColumnPrivilegesQuery {
	return &ColumnPrivilegesQuery{newRowSetQuery(logger, diag, columnsOf(
		varcharCol("TABLE_CAT"),
		varcharCol("TABLE_SCHEM"),
		varcharColNoNulls("TABLE_NAME"),
		varcharColNoNulls("COLUMN_NAME"),
		varcharCol("GRANTOR"),
		varcharColNoNulls("GRANTEE"),
		varcharColNoNulls("PRIVILEGE"),
		varcharCol("IS_GRANTABLE"),
	), nil)}
}

type TablePrivilegesQuery struct{ *rowSetQuery }

func NewTablePrivilegesQuery(logger *tsodbc.Logger, diag *diagnostic.Diagnosable) *TablePrivilegesQuery {
	return &TablePrivilegesQuery{newRowSetQuery(logger, diag, columnsOf(
		varcharCol("TABLE_CAT"),
		varcharCol("TABLE_SCHEM"),
		varcharColNoNulls("TABLE_NAME"),
		varcharCol("GRANTOR"),
		varcharColNoNulls("GRANTEE"),
		varcharColNoNulls("PRIVILEGE"),
		varcharCol("IS_GRANTABLE"),
	), nil)}
}

type SpecialColumnsQuery struct{ *rowSetQuery }

func NewSpecialColumnsQuery(logger *tsodbc.Logger, diag *diagnostic.Diagnosable) *SpecialColumnsQuery {
	return &SpecialColumnsQuery{newRowSetQuery(logger, diag, columnsOf(
		smallintCol("SCOPE"),
		varcharColNoNulls("COLUMN_NAME"),
		smallintColNoNulls("DATA_TYPE"),
		varcharColNoNulls("TYPE_NAME"),
		integerCol("COLUMN_SIZE"),
		integerCol("BUFFER_LENGTH"),
		smallintCol("DECIMAL_DIGITS"),
		smallintCol("PSEUDO_COLUMN"),
	), nil)}
}
