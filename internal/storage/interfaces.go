package storage

// FileStore provides byte-level access to stored documents. Paths are
// slash-separated and relative to the store's root.
type FileStore interface {
	Exists(path string) (bool, error)
	Read(path string) ([]byte, error)
	Write(path string, data []byte) error
}

// IdGenerator produces document ids. Ids must be unique per generator
// and safe for use as a path segment.
type IdGenerator interface {
	Next() string
}
