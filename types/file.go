package types

import "time"

// File represents an uploaded file tied to a user and a course class.
// The bytes live in object storage under Path; this record holds only
// the metadata.
type File struct {
	// ID is the unique identifier of the file record.
	ID int `json:"id" db:"id"`

	// Filename is the original name of the uploaded file.
	Filename string `json:"filename" db:"filename"`

	// Path is the storage key the file was saved under. Randomized to
	// avoid collisions between uploads with the same original name.
	Path string `json:"path" db:"path"`

	// Mimetype is the declared MIME type of the upload.
	Mimetype string `json:"mimetype" db:"mimetype"`

	// Size is the size of the upload in bytes.
	Size int64 `json:"size" db:"size"`

	// UserID is the identifier of the user who uploaded the file.
	UserID int `json:"userId" db:"user_id"`

	// CourseClassID associates the file with a course class.
	CourseClassID int `json:"courseClassID" db:"course_class_id"`

	// CreatedAt is the timestamp when the file was uploaded.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// User is the sanitized owner record, populated on list endpoints.
	User *User `json:"user,omitempty" db:"-"`
}
