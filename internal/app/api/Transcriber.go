package api

// Transcriber turns one audio file into text. Both the provider framework and
// the batch pipeline speak this interface.
type Transcriber interface {
	Transcript(inputFilePath string) (string, error)
}
