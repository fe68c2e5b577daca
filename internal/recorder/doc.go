// Package recorder turns a live input event stream into a macro script.
// The encoder is a two-state machine (idle and active) toggled by the
// middle-mouse trigger. While active it batches printable keystrokes into
// text commands, classifies mouse press/release pairs into clicks, holds,
// and drags, and compresses idle gaps into short bounded waits.
//
// The handler runs synchronously on the event stream and never blocks;
// persisting the finished recording happens after the stream is released.
package recorder
