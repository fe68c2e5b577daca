// Package script implements the line-oriented macro script codec: a
// tolerant parser that turns script text into commands, and a writer that
// renders a recorded script with its informational header.
//
// Parsing is best-effort. Lines that do not match the grammar are reported
// and skipped; they never abort parsing, and the resulting script still
// executes everything that did parse.
package script
