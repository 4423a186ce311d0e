package broadcast

// broadcast pushes media bundles to a host-provided kernel messaging
// function. It never implements a transport of its own: the host runtime
// owns the wire to the frontend, and when no messaging function is present
// the bundle is simply returned to the caller so the host can pick it up as
// a cell's result value. The package also tracks the display IDs a session
// has used, so updates to IDs the frontend has never seen can be rejected
// before they reach the wire.
