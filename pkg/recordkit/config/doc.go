/*
Package config loads the settings a recordkit recorder is assembled from.

# Overview

Settings name the listeners to install, the composite policy that dispatches
to them, the initial state of the enabled switch and per-listener options.
Absent keys keep the values of Default.

# File Loading

FromFile picks the format from the extension:

	s, err := config.FromFile("recordkit.yaml") // .yaml, .yml, .json, .toml
	if err != nil {
	    log.Fatal(err)
	}

A YAML document looks like this:

	enabled: true
	policy: all            # or "first"
	listeners: [tracing, metrics, logging, journal]
	tracing:
	  tracer_name: checkout
	metrics:
	  meter_name: checkout
	  long_task_events: [batch.import]
	logging:
	  level: debug
	  format: json
	journal:
	  path: /var/lib/checkout/journal.db   # or ":memory:"
	watch:
	  debounce: 250ms

The same keys work in JSON and TOML. Documents decode into Values first,
whose accessors smooth over the numeric and list types each format produces.

# Hot Reload

Watch follows a file and hands every valid new version to a callback. It is
typically used to flip the recorder's enabled switch at runtime:

	go config.Watch(ctx, path, 0, func(s config.Settings) {
	    rec.SetEnabled(s.Enabled)
	}, logger)

# Errors

Validate reports ErrUnknownListener, ErrInvalidPolicy, ErrInvalidLevel,
ErrInvalidFormat and ErrJournalPathRequired, joined, so all problems of a file
show up at once. Use errors.Is to test for a specific one.
*/
package config
