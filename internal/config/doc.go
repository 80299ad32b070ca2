// Package config loads the medsense YAML configuration. One file carries a
// `server:` section and a `simulator:` section; each binary reads its own and
// ignores the other. Missing fields are filled with defaults before
// validation. Watch provides fsnotify-based hot reload for the simulator.
package config
