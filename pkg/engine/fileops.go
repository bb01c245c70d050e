package engine

// FileOps is the set of callbacks an engine uses to move file data. On the
// controller the engine reads from the file; on the peripheral it writes.
//
// On the controller Open ignores size and returns the file size; on the
// peripheral size is the announced file size. Read returns at most size bytes
// starting at offset; an empty read before the end aborts the transfer.
// Write returns the number of bytes stored.
type FileOps interface {
	Open(fileID int, size int) (int, error)
	Read(size int, offset int) ([]byte, error)
	Write(data []byte, offset int) (int, error)
	Close(fileID int) error
}
