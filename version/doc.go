// Package version reports the build version of fluency binaries from ldflags
// and the module build info.
package version
