package tabular

// tabular is responsible for turning dataframe-like values into the
// representations a frontend can render: a Frictionless data resource
// payload, an HTML preview table, and a plain-text table. It's not concerned
// with detecting whether a value is dataframe-like (see the format package)
// and deals only in the Frame interface defined here.
