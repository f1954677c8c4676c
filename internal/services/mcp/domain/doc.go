// Package domain defines the MCP tools that expose worksheet generation to
// agents: previewing one page as text and writing page ranges to disk.
package domain
