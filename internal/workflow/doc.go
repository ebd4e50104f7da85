// Package workflow advances queue jobs through the transcription pipeline.
//
// The Manager polls the queue, reclaims stale work via heartbeats, and feeds
// jobs into registered stage handlers (identifier, transcriber, exporter)
// while capturing progress and failure metadata. It also aggregates queue
// stats, calls stage health checks, and emits notifications when jobs and the
// queue as a whole start or finish.
//
// The pipeline is strictly sequential for a given job: a job must be
// identified before it can be transcribed, and transcribed before its outputs
// can be exported. Add new lifecycle stages by extending StageSet, updating
// the queue status enums, and teaching the manager how to transition jobs;
// this package is the authoritative home for that coordination logic.
package workflow
