package bundle

// bundle defines the media bundle, a mapping from MIME type strings to
// serializable representations of a value, along with helpers for authoring
// single-MIME bundles directly. It's not concerned with how a value is
// inspected to produce a bundle (see the format package) or with how a bundle
// reaches a frontend (see the broadcast package).
