//go:build !darwin

package types

// WCharSize is the size in bytes of SQLWCHAR; Windows and unixODBC use UTF-16.
const WCharSize = 2
