// Package engine implements the orchestrator of the learning path pipeline.
//
// The Engine owns a registry of named agents and runs the routing loop: the
// goal is wrapped in an envelope addressed to the entry agent (the Planner),
// every agent reply is dispatched to the agent named as its recipient, and
// the loop ends when an envelope is addressed back to the orchestrator. The
// content of that terminal envelope is the result of the run.
//
// # Termination
//
// A run ends in exactly one of these ways:
//   - terminal envelope with a core.LearningPath (success)
//   - terminal envelope with a core.ErrorPayload (protocol violation)
//   - a Go error (unknown recipient, step bound, handler error, session
//     mismatch, cancelled context)
//
// The step bound (Config.MaxSteps, default 20) protects against agents that
// route envelopes in a cycle.
//
// # Callbacks
//
// A CallbackManager receives lifecycle events around every dispatch, on
// termination and on failure. Metrics and audit logging hook in here:
//
//	e := engine.New(func(o *engine.Options) { o.Callbacks = cm })
//	cm.RegisterCallback(engine.NewLoggingCallback(engine.CallbackOnError, logger))
//
// # Example
//
//	e := engine.New()
//	_ = e.Register(planner, worker, evaluator)
//
//	outcome, err := e.Submit(ctx, "Learn Python")
//	if err != nil {
//	    return err
//	}
//	if path, ok := outcome.LearningPath(); ok {
//	    fmt.Println(path.MainGoal, len(path.ValidatedPath))
//	}
package engine
