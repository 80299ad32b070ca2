// Package logging builds the zap logger shared by the medsense binaries.
package logging
