// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldOutput     = "output"
	FieldBackup     = "backup"
	FieldWorkingDir = "working_dir"

	// Configuration fields.
	FieldConfig      = "config"
	FieldIndentation = "indentation"
	FieldInput       = "input"
	FieldFlavor      = "flavor"
	FieldWrite       = "write"
	FieldCheck       = "check"
	FieldJobs        = "jobs"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesChanged    = "files_changed"
	FieldFilesFailed     = "files_failed"
	FieldFilesWritten    = "files_written"
	FieldDuration        = "duration"

	// Indentation log fields.
	FieldRule    = "rule"
	FieldPattern = "pattern"
	FieldMatch   = "match"

	// Watch fields.
	FieldEvent = "event"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"

	// Element fields.
	FieldElement = "element"
	FieldType    = "type"
)
