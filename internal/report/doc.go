// Package report renders extraction results.
//
// This package contains writers for different output formats:
//   - SimpleWriter: human-readable text for terminal display
//   - JSONWriter: structured JSON for tool integration
//   - MarkdownWriter: Markdown with tables and a confidence chart
//
// Writers implement the Writer interface and can be combined with
// MultiWriter. ReadFieldSet parses field sets written by JSONWriter (or
// by other tools) after checking them against an embedded JSON schema.
package report
