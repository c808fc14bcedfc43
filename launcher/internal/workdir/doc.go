// Package workdir picks the directory the supervised server runs in.
//
// The server expects its front-end assets (the "dist" marker folder) in
// its working directory, but where an installer puts them varies by
// platform and packaging. Candidates are probed in a fixed order:
//
//  1. the user-configured working_dir (home-expanded, made absolute)
//  2. the platform resource directory (\\?\ prefix stripped)
//  3. the launcher data directory
//  4. the launcher's current working directory
//
// SearchPaths keeps that order while dropping duplicates and empty
// entries. Resolve returns the first candidate containing the marker
// directory, or the fallback when none does.
package workdir
