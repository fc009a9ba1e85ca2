package config

const (
	// TopicIngestBatch is the NSQ topic carrying one ingestion batch per
	// message. Continuations for subsequent pages are re-enqueued here.
	TopicIngestBatch = "ingest.batch"

	// ChannelIngest is the consumer channel for the batch worker.
	ChannelIngest = "worker"
)
