package content

import "time"

// StoragePrefix is where case-study source bodies live in the object
// store, keyed by generated file name.
const StoragePrefix = "internal-content/"

// Content is a case-study page stored as standalone source text. The
// text itself lives in object storage; this record is the metadata row.
// Source is immutable once created; replacement means uploading a new
// record and repointing the project reference.
type Content struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	FileName    string    `bson:"file_name" json:"file_name"`
	DisplayName string    `bson:"display_name" json:"display_name"`
	Description string    `bson:"description" json:"description"`
	FilePath    string    `bson:"file_path" json:"file_path"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

type UploadRequest struct {
	FileName    string `json:"file_name" validate:"required"`
	DisplayName string `json:"display_name" validate:"required"`
	Description string `json:"description"`
	Source      string `json:"source" validate:"required"`
}

type Resolution struct {
	FileName string `json:"file_name"`
	// Fuzzy is set when the key was found by substring matching or the
	// first-key fallback rather than an explicit reference.
	Fuzzy bool `json:"fuzzy"`
}
