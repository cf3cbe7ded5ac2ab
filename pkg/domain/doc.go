/*
Package domain contains the core vocabulary of the Turing machine simulator.

It defines symbols, directions, states, the immutable transition table and the
observable Configuration of a run. This package is kept pure and free of I/O.

# Key Entities

  - Symbol: a single character; Blank ('_') is what unwritten cells read as.
  - Transition: (from, read) -> (to, write, move).
  - Table: the partial, duplicate-free mapping from (state, symbol) to Transition.
  - Configuration: state, head position and tape view after a step.
  - Outcome: what a single step produced, either Advanced or Halted with a HaltReason.
*/
package domain
