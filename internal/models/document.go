// Package models defines the domain types shared by storage and services.
package models

import "time"

// SourceExt is the file extension of document event-stream sources.
const SourceExt = ".qdoc"

// DocumentMetadata is a lightweight representation returned by list operations.
type DocumentMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
