// Package mcp exposes the simulator to AI agents as a Model Context Protocol
// server with two tools, simulate and validate_definition, and the bundled
// example machines as turing://examples/<name> resources.
package mcp
