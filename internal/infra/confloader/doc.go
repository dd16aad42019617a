// Package confloader loads the server configuration from layered
// sources using koanf.
//
// Sources are merged in priority order (highest to lowest):
//
//  1. Environment variables (TCPGATE_ prefix)
//  2. Configuration file (YAML)
//  3. Default values provided as a map
//
// A Watcher notifies on configuration file changes so the caller can
// decide how to react.
package confloader
