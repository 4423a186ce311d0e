package format

// format inspects an arbitrary in-memory value's shape and selects a
// rendering strategy for it, producing a media bundle. Detection is
// structural: a value is canvas-like because it has a ToDataURL method,
// chart-like because it has a ToSpec method, and so on. The package doesn't
// define any rendering of its own beyond the text/plain and JSON fallbacks;
// richer renderings live with the bundle and tabular packages.
