/*
Package nr is a toolbox for everyday project chores.

The command line tool lives in cmd/nr. The packages under pkg may be used on their own:

  - fs: path resolution, suffix helpers, chmod strings, timestamps and globbing
  - gitignore: evaluation of .gitignore files
  - jobs: job scheduling and event queues
  - version: semantic versions and version selectors
  - strex: scanning and lexing of strings
  - stream: lazy helpers over iterators
  - archive, license, jiratime, pyblob, versionupgrade, watch: the engines of the nr commands
*/
package nr
