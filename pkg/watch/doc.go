// Package watch runs a command whenever files change under some directories.
//
// A Watcher turns filesystem notifications into "change" events posted to a
// jobs.EventQueue. A Debouncer collects the changed paths until things settle,
// then hands them over to a Runner, which executes the command on a
// jobs.Scheduler, one run at a time.
package watch
