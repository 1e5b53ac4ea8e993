package models

import "io"

// FileUpload carries one uploaded binary through validation and storage.
type FileUpload struct {
	OriginalName string
	SizeBytes    int64
	DeclaredMime string
	Reader       io.ReadSeeker
}
