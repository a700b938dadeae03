/*
Codec packs market event identity and metadata into fixed-width integers.

# Module
  - short string: up to 8 latin-1 characters packed into an uint64
  - index: 64-bit per-symbol event key (source, exchange, sub-index)
  - event flags: transaction and snapshot bitmask carried with indexed events
  - bits: mask/shift helpers shared by packed words

# Source
  - source ids from the source registry
  - raw indices and flags from decoded records

# Produce
  - Index and EventFlags values, bit exact with existing consumers

# Sharded
  - none

All functions are pure and safe for concurrent use.
*/
package codec
