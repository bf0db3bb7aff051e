// Package watch triggers rebuilds when tutorial sources change.
//
// The watcher observes the directories containing the given files and
// reacts only to events on those files, so editors that save by renaming a
// temporary file are handled. Bursts of events are debounced into one call.
package watch
