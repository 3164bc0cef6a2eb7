// Package driving provides interfaces consumed by external actors
// (primary/inbound ports): the CLI, the chat TUI, the directory watcher and
// the MCP server.
package driving
