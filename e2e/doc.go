package e2e

// e2e contains integration tests exercising the whole display pipeline at
// once: value formatting, the broadcast loop, the host messaging function,
// and the display store. Note that some test dependencies here are also
// used by unit tests--these dependencies are not included here. (These were
// intended to be end-to-end tests but became integration tests instead,
// hence the name.)
