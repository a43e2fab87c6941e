package domain

// RawFile is a document file before text extraction. Normalisers
// turn it into the plain text the ingestion pipeline chunks.
type RawFile struct {
	// Path is the original file location. The extension selects the
	// normaliser.
	Path string

	// Content is the raw bytes.
	Content []byte
}
