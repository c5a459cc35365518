// Package notifications delivers push notifications through ntfy. When no
// topic is configured a noop service is returned, so callers never branch on
// whether notifications are enabled.
package notifications
