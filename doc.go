/*
Package turing interprets textual Turing machine definitions and runs them step by step.

A definition is line oriented. Blank lines and lines starting with '#' are ignored,
the first remaining line names the initial state, and every other line is a
transition:

	# 3-state busy beaver
	A
	A + _ |> B + * |> R
	A + * |> C + * |> L
	B + _ |> A + * |> L
	B + * |> B + * |> R
	C + _ |> B + * |> L
	C + * |> H + * |> R

"A + _ |> B + * |> R" reads: in state A reading '_', go to state B, write '*'
and move Right. '_' is the Blank symbol and "H" is the reserved Halt state.

# Usage

	def, err := turing.Load("busy-beaver.tm")
	if err != nil {
		log.Fatal(err) // *domain.ParseError carries the offending line
	}

	eng, err := turing.New(def, "")
	if err != nil {
		log.Fatal(err) // *domain.InputError for symbols outside the alphabet
	}

	for cfg := range eng.Steps(ctx) {
		fmt.Println(cfg.Step, cfg.State, cfg.Head)
	}
	fmt.Println(eng.Result().Reason)

The engine never imposes a step limit, never sleeps and keeps no history: each
call to Step advances exactly one transition and returns control to the caller.
Pacing, limits and checkpoints live in pkg/runner.
*/
package turing
