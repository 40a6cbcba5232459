// Package postfetch extracts post and article previews from web pages whose
// structure is not known in advance. It infers repeating structural patterns
// in a single HTML document and returns a list of content blocks (title,
// body snippet, URL, date) without any page-specific configuration.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, gofeed/, sqlite/).
package postfetch
