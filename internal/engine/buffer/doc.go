// Package buffer provides in-memory text buffers and the store that owns them.
//
// A Buffer is one file's content as an ordered sequence of lines plus a
// cursor and a dirty flag. Line numbers are 1-based at the package boundary,
// matching what editor commands operate on; the slice underneath is 0-based.
//
// The Store keys open buffers by cleaned file path and handles the file
// lifecycle: open-or-create, write, close with dirty checking, force close.
// An optional fsnotify-backed Watcher flags buffers whose backing file was
// modified outside the session.
package buffer
