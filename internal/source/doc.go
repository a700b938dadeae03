/*
Source interns the origins of order book data.

# Module
  - source: immutable identity (id, name, publish flags, builtin)
  - registry: concurrent id and name interning with a best-effort transient cache
  - view: live, insertion ordered lists of publishable sources

# Source
  - compiled-in builtin table
  - builtin records loaded by the catalog
  - ids and names decoded from indexed events

# Produce
  - *Source values shared by every event that references them

# Sharded
  - none

Builtin sources are registered once and never evicted. Sources first seen
through a lookup are transient; they are evicted when the cache grows past
its soft capacity. Eviction is approximate under concurrency and duplicate
transient instances of the same id are tolerated; compare sources with Equal.
*/
package source
