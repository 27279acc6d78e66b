package app

// ColumnBindingMap maps 1-based column numbers to the buffers bound to them.
type ColumnBindingMap map[int]*ApplicationDataBuffer
