package turing

import "embed"

// Examples holds the machines shipped in the examples directory (*.tm).
//
//go:embed examples/*.tm
var Examples embed.FS
