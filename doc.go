// Package purc implements the public front-end entry points of an HVML
// document pipeline (component C11): LoadFromStream, LoadFromString,
// LoadFromFile and LoadFromURL, each running a character reader through
// the HVML tokenizer and VDOM generator and returning the finished
// document tree.
//
// LoadFromString, LoadFromFile and LoadFromURL additionally consult a
// process-wide, MD5-keyed document cache with bounded size and per-source
// TTLs; see cache.go. Parser-internal knobs (eJSON nesting depth, the
// file-header and raw-attribute tokenizer flags, logging, lenient mode,
// and the network Fetcher collaborator LoadFromURL requires) are set with
// the functional Options in options.go.
package purc
