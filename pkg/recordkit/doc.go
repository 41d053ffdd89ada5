/*
Package recordkit records what happens inside a program once and lets any
number of listeners turn it into spans, metrics, logs or journal entries.

# Overview

Producers describe events and drive recordings through a Recorder. They
never talk to a tracing, metrics or logging backend directly:

	rec := recorder.New(recorder.WithListeners(
	    tracing.New(),
	    metrics.NewTimerListener(),
	))

	r := rec.RecordingFor(ctx, event.NewInterval("checkout")).
	    Tag(tag.Of("region", "eu")).
	    Start()
	defer r.Stop()

Each listener receives the lifecycle of every recording it finds applicable
and keeps its own state for it. A composite listener fans one recording out
to many listeners, either to all that apply or only to the first one.

# Packages

  - event: event descriptors (interval, instant, long task)
  - tag: low and high cardinality tags
  - recording: recordings and the Listener contract
  - composite: all-matching and first-matching fan-out
  - recorder: the Recorder, current-recording scopes, Sample and Time
  - listener/...: tracing, metrics, logging, otellog and journal listeners
  - config: settings files and hot reload

# Assembling From Settings

Build wires the listeners named in config.Settings under the configured
policy:

	s, err := config.FromFile("recordkit.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	kit, err := recordkit.Build(s)
	if err != nil {
	    log.Fatal(err)
	}
	defer kit.Close()

	kit.Recorder.RecordingFor(ctx, event.NewInterval("job")).Start().Stop()

# Current Recording

A Recorder tracks the current recording of a call chain in a scope carried by
context.Context. Starting a recording inside a scope makes it current;
stopping it restores the recording that was current before:

	ctx = rec.NewScope(ctx)
	outer := rec.RecordingFor(ctx, event.NewInterval("request")).Start()
	inner := rec.RecordingFor(ctx, event.NewInterval("db.query")).Start()
	inner.Stop() // rec.CurrentRecording(ctx) == outer
	outer.Stop() // rec.CurrentRecording(ctx) == nil

# Disabling

Recorder.SetEnabled(false) turns every new recording into a no-op that
reaches no listener. Recordings already running are not affected.
*/
package recordkit
