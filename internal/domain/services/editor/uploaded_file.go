package editor

// UploadedFile represents a file uploaded by the user for ingestion
type UploadedFile struct {
	Name         string // Original file name, used for extension routing
	DeclaredType string // Media type declared by the client (may carry parameters)
	Content      []byte
}
