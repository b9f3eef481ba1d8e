/*
Package gitignore parses .gitignore files and evaluates paths against them.

Patterns follow the gitignore(5) grammar: comments, negation with "!",
directory-only patterns with a trailing "/", anchoring with a leading or inner
"/", and the "**" wildcard. The last matching pattern wins, and a path inside an
ignored directory is ignored regardless of negated patterns.

A Stack combines the .gitignore files found in a directory tree, giving
precedence to the deepest ones.
*/
package gitignore
