package preview

// preview renders a media bundle for a terminal when no notebook frontend is
// around to do it, e.g., in the bundled CLI. It
// picks the richest representation a terminal can approximate and degrades
// the rest: markdown through a terminal renderer, HTML down to its text
// content, structured values to indented JSON. It's a development aid, not a
// frontend, so fidelity takes a back seat to legibility.
