package turing

import _ "embed"

// Version is the release of the simulator, read from the VERSION file.
//
//go:embed VERSION
var Version string
