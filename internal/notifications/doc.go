// Package notifications delivers workflow events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. Per-event toggles in the notifications config section let users
// silence categories without removing the topic.
//
// Extend this package if you need alternative transports; all workflow code
// depends only on the simple Service interface.
package notifications
