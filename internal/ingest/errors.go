package ingest

import "errors"

// Error kinds for the pipeline. The delivery handler's retry policy is
// attempt-count based, but callers can still branch on kind with errors.Is,
// and dispatch failures are logged distinctly because the batch's work is
// already durable when they happen.
var (
	// ErrValidation marks a malformed inbound message. Never retried.
	ErrValidation = errors.New("invalid ingestion message")

	// ErrConfiguration marks missing workspace credentials for embedding or
	// vector access.
	ErrConfiguration = errors.New("workspace not configured")

	// ErrProcessing marks a failure during file processing, embedding, or
	// vector upsert.
	ErrProcessing = errors.New("batch processing failed")

	// ErrPersistence marks an asset record read or write failure.
	ErrPersistence = errors.New("asset record persistence failed")

	// ErrDispatch marks a continuation that could not be scheduled. The
	// most severe kind: vectors for the batch are stored, but the file will
	// not finish ingesting without intervention.
	ErrDispatch = errors.New("continuation dispatch failed")
)
