// Package ingestion provides the asynchronous document ingestion pipeline.
//
// The Coordinator is the synchronous entry point: it registers attached
// documents, persists their records in the Uploading status and enqueues
// exactly one extraction job per new record. It never waits on extraction,
// so the conversational turn that triggered it is bounded by a metadata
// lookup and one store write.
//
// The Worker consumes jobs in the background: it fetches content, extracts
// and segments text, writes the segment cache and advances the document
// record to READY, or to FAILED after exhausting a bounded retry budget.
// Job delivery is at-least-once, so every worker step is safe to re-run.
//
// Errors during background processing are logged and recorded on the
// document; they never fail the ingestion call that enqueued the job.
package ingestion
