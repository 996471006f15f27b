// Package logging configures structured logging for kitcrate.
//
// Two output formats are supported: a human-oriented console format used in
// interactive sessions and a JSON format for log collection. The console
// handler pulls the component attribute into the message prefix so pipeline
// steps read naturally (for example "analysis: tempo corrected ...").
package logging
