package storage

// storage contains the KeyValue interface for tracking the most recent
// bundle sent for each display ID, as well as an implementation backed by an
// in-memory BadgerDB. Note that the storage package isn't designed to
// represent _what_ is stored, and deals only in opaque binary data. Nothing
// here ever touches disk: the display store exists so update operations can
// be checked against IDs the session has actually used, and it dies with the
// process.
