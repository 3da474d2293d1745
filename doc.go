/*
Package citron is the runtime core of a Lemon-style LALR(1) parser framework.

Citron does not construct parsers at runtime: an external generator compiles a
grammar into a set of compressed parse tables, and the packages of this module
execute those tables over a stream of tokens. Package structure is as follows:

■ lr: Package lr holds the table representation for the LALR(1) automaton —
the compressed action/lookahead arrays, per-state offsets, default actions,
fallback tokens and the wildcard terminal — together with validation and a
packer for assembling tables in-memory.

■ lr/lalr: Package lalr is the table-driven parser runtime: parse stack,
shift/reduce/shift-reduce/accept dispatch, syntax-error reporting and
grammar-level error capturing.

■ lr/scanner: Package scanner defines a tokenizer interface for feeding the
runtime, plus an adapter for lexmachine-based scanners.

■ lexer: Package lexer is a rule-based lexer which turns an input string into
tokens by applying an ordered list of literal and regex match rules.

■ calclang: Package calclang is a small arithmetic language built on the
runtime, used by the tests and the ccalc REPL.

The base package contains data types which are used throughout all the other
packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2025 the citron authors

*/
package citron
