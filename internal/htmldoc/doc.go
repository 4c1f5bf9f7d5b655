// Package htmldoc is a lightweight, offset-preserving view of an HTML page.
//
// A Document is a flat index of the elements found by the golang.org/x/net/html
// tokenizer, each carrying the byte offsets of its start and end tags. Lookups
// work on that index (head, body, first element matching a predicate), and
// edits splice text into the original string at those offsets. The page is
// never re-serialised, so bytes outside an edit are preserved exactly; this is
// what lets repeated runs over the same file converge instead of drifting.
//
// The index is not a DOM. Optional end tags are not inferred and misnested
// markup is matched on a best-effort basis; callers treat a missing element as
// "anchor not found" and move on.
package htmldoc
