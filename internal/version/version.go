// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - WebSocket frame stream, Prometheus metrics, viper config file
// 0.2.0 - Side view with orbital tilt, trails, phase change events
// 0.1.0 - Initial release: top view, phase disc, headless modes
