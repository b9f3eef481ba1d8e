/*
Package fs provides an alternative interface to handle filesystem paths.

Pure path manipulations (suffixes, prefixes, chmod strings) are exposed as
package-level functions. Operations which need to look at the filesystem are
methods of Paths, which wraps an afero.Fs so that they may run against the host
filesystem as well as in-memory filesystems.
*/
package fs
