package types

// StmtAttr is a SQLSetStmtAttr / SQLGetStmtAttr attribute identifier.
type StmtAttr int32

const (
	StmtAttrQueryTimeout     StmtAttr = 0
	StmtAttrMaxRows          StmtAttr = 1
	StmtAttrRowBindType      StmtAttr = 5
	StmtAttrCursorType       StmtAttr = 6
	StmtAttrConcurrency      StmtAttr = 7
	StmtAttrRowBindOffsetPtr StmtAttr = 23
	StmtAttrRowStatusPtr     StmtAttr = 25
	StmtAttrRowsFetchedPtr   StmtAttr = 26
	StmtAttrRowArraySize     StmtAttr = 27
	StmtAttrRowNumber        StmtAttr = 14
	StmtAttrParamsetSize     StmtAttr = 22
)

// BindByColumn is SQL_BIND_BY_COLUMN for StmtAttrRowBindType.
const BindByColumn int64 = 0

// CursorForwardOnly is SQL_CURSOR_FORWARD_ONLY, the only cursor type offered.
const CursorForwardOnly int64 = 0

// ColAttr is a SQLColAttribute field identifier.
type ColAttr uint16

const (
	ColAttrCount           ColAttr = 1001
	ColAttrType            ColAttr = 1002
	ColAttrLength          ColAttr = 1003
	ColAttrPrecision       ColAttr = 1005
	ColAttrScale           ColAttr = 1006
	ColAttrNullable        ColAttr = 1008
	ColAttrName            ColAttr = 1011
	ColAttrUnnamed         ColAttr = 1012
	ColAttrOctetLength     ColAttr = 1013
	ColAttrAutoUniqueValue ColAttr = 11
	ColAttrBaseColumnName  ColAttr = 22
	ColAttrBaseTableName   ColAttr = 23
	ColAttrCaseSensitive   ColAttr = 12
	ColAttrCatalogName     ColAttr = 17
	ColAttrConciseType     ColAttr = 2
	ColAttrDisplaySize     ColAttr = 6
	ColAttrFixedPrecScale  ColAttr = 9
	ColAttrLabel           ColAttr = 18
	ColAttrLiteralPrefix   ColAttr = 27
	ColAttrLiteralSuffix   ColAttr = 28
	ColAttrLocalTypeName   ColAttr = 29
	ColAttrNumPrecRadix    ColAttr = 32
	ColAttrSchemaName      ColAttr = 16
	ColAttrSearchable      ColAttr = 13
	ColAttrTableName       ColAttr = 15
	ColAttrTypeName        ColAttr = 14
	ColAttrUnsigned        ColAttr = 8
	ColAttrUpdatable       ColAttr = 10
)

// Values reported for ColAttrUnnamed and ColAttrUpdatable.
const (
	Named         int64 = 0
	Unnamed       int64 = 1
	AttrReadOnly  int64 = 0
	AttrWrite     int64 = 1
	AttrReadWrite int64 = 2
)

// ConcurReadOnly is SQL_CONCUR_READ_ONLY for StmtAttrConcurrency.
const ConcurReadOnly int64 = 1

// ConnAttr is a SQLSetConnectAttr / SQLGetConnectAttr attribute identifier.
type ConnAttr int32

const (
	ConnAttrAccessMode        ConnAttr = 101
	ConnAttrAutoCommit        ConnAttr = 102
	ConnAttrLoginTimeout      ConnAttr = 103
	ConnAttrConnectionTimeout ConnAttr = 113
	ConnAttrConnectionDead    ConnAttr = 1209
)

// Values of ConnAttrAccessMode, ConnAttrAutoCommit and ConnAttrConnectionDead.
const (
	ModeReadWrite  int64 = 0
	ModeReadOnly   int64 = 1
	AutoCommitOff  int64 = 0
	AutoCommitOn   int64 = 1
	ConnectionLive int64 = 0
	ConnectionDead int64 = 1
)
