// Package config loads the optional hued configuration file.
//
// The daemon runs with built-in defaults (listen on 0.0.0.0, join
// 239.255.255.250, refresh every 300 seconds) and only consults a YAML file
// to override them. The file lives at the platform configuration directory:
//
//   - Linux: $XDG_CONFIG_HOME/hued/config.yaml or ~/.config/hued/config.yaml
//   - macOS: ~/.config/hued/config.yaml
//   - Windows: %LOCALAPPDATA%\hued\config.yaml
//
// Example file:
//
//	listen_address: 0.0.0.0
//	multicast_group: 239.255.255.250
//	refresh_interval: 300
//	log_level: info
//
// Precedence is flags > file > defaults; the bridge target itself is always
// the positional command-line argument and never read from the file.
package config
