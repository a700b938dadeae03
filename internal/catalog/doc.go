/*
Catalog persists the builtin order sources.

# Module
  - store: gorm table of builtin sources keyed by id, unique by name

# Source
  - builtin sources of a source registry (save)
  - rows written by an earlier save or by operators (load)

# Produce
  - builtin registrations in a source registry

# Sharded
  - none

Postgres is the production backend, sqlite serves tests and local files.
*/
package catalog
