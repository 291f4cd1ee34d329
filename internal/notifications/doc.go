// Package notifications announces render outcomes over ntfy.
//
// The ntfy topic comes from the [notifications] section of config.toml (or
// VIDPIPE_NTFY_TOPIC). Without a topic NewService returns a no-op, so callers
// never need to check whether notifications are enabled.
package notifications
