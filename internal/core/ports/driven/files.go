package driven

// LocalFiles gives the core access to the user's files.
type LocalFiles interface {
	// ReadFile returns the full content of the file at path.
	ReadFile(path string) ([]byte, error)

	// SaveDownload writes data under name in the downloads directory and
	// returns the path written. Data is written byte for byte.
	SaveDownload(name string, data []byte) (string, error)
}
