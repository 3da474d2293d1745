/*
Package lr holds the table representation for Lemon-style LALR(1) parsers.

A grammar generator compiles a grammar into an instance of Tables: a single
compressed action array with a parallel lookahead array, per-state shift and
reduce offsets, per-state default actions, per-terminal fallback codes and an
optional wildcard terminal. The parser runtime in package lalr executes these
tables; it never builds or modifies them.

Symbol codes are dense: terminals occupy [0, NumTerminals), with code 0
reserved for the end-of-input symbol, and nonterminals occupy
[NumTerminals, number of symbols). Action codes partition into contiguous
ranges — shift, shift-reduce, reduce — followed by the distinguished error,
accept and no-action codes. See the field documentation of Tables.

For hosts that assemble tables in-memory (and for the tests of this module),
TableBuilder packs abstract per-state action specifications into the
compressed representation.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2025 the citron authors

*/
package lr
