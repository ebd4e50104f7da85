// Package services holds cross-cutting helpers shared by stage handlers:
// error sentinels with stage-aware wrapping and context annotation for job,
// stage, and correlation identifiers.
package services
