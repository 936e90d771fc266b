// Package planner implements the planner screen's state machine: session
// bootstrap, one-shot preference hydration, single-in-flight plan generation
// and history rehydration.
//
// The Orchestrator is independent of any input surface. The TUI, the CLI
// commands and the tests all drive it through the same methods:
//
//	o := planner.New(planner.Deps{...})
//	if err := o.Bootstrap(ctx); err != nil { ... }
//	o.UpdateDraft(func(d *trip.Draft) { d.Origin = "北京" })
//	err := o.Generate(ctx, "")
//
// State transitions:
//
//	idle -> validating -> rejected (idle)
//	                   -> in flight -> result shown (idle)
//	                                -> error, result cleared or kept (idle)
package planner
