package domain

import "time"

// Role is the access level attached to users and documents.
type Role string

// Available roles.
const (
	// RoleAdmin may read every document and manage ingestion.
	RoleAdmin Role = "ADMIN"

	// RoleEmployee may read documents whose AllowedRoles include EMPLOYEE.
	RoleEmployee Role = "EMPLOYEE"
)

// ParseRole maps an arbitrary role claim onto a known Role.
// Unknown values degrade to RoleEmployee so that a malformed claim
// never widens access.
func ParseRole(s string) Role {
	if s == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleEmployee
}

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// Document represents an ingested document with access metadata.
// The raw text lives in Content until chunking; retrieval operates on
// the document's chunks, never on Content directly.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// SourceName is the human-readable origin, typically a filename.
	SourceName string

	// Content is the full normalised text supplied at ingestion.
	Content string

	// AllowedRoles lists the roles permitted to retrieve this
	// document's chunks. Admins are always permitted.
	AllowedRoles []Role

	// ChunkCount is the number of chunks produced at ingestion.
	ChunkCount int

	// CreatedAt is when the document was first ingested.
	CreatedAt time.Time

	// UpdatedAt is when the document was last re-ingested.
	UpdatedAt time.Time
}

// Permits reports whether a query made with the given role may
// retrieve this document's chunks. RoleAdmin is implicitly permitted
// regardless of AllowedRoles.
func (d *Document) Permits(role Role) bool {
	if role == RoleAdmin {
		return true
	}
	for _, allowed := range d.AllowedRoles {
		if allowed == role {
			return true
		}
	}
	return false
}

// Chunk is the unit of retrieval: a bounded slice of a document's text.
// Chunks from one document carry contiguous Index values starting at 0;
// immutable once created, deleted only with their owning document.
type Chunk struct {
	// ID is the unique identifier, stable for the document's lifetime.
	// Generated as "{documentID}_{index}".
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// SourceName is carried from the owning document for display.
	SourceName string

	// Text is the chunk content.
	Text string

	// Index is the 0-based position within the document. Used for
	// ordering and as a search tie-break.
	Index int

	// Embedding is the vector representation. All embeddings held by
	// one index share a single dimensionality.
	Embedding []float32
}
