package model

import "time"

// FileInfo is a directory walk record for batch transcription.
type FileInfo struct {
	FullPath string
	Name     string
	Size     int64
	ModTime  time.Time
}
