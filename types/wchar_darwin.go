package types

// WCharSize is the size in bytes of SQLWCHAR; the iODBC driver manager uses
// 4-byte wchar_t.
const WCharSize = 4
