// Package inference provides an OpenRouter-style chat client used for
// AI vibe classification of audio samples.
//
// The client sends a sample descriptor (filename, duration, tempo, key,
// shape) to a configured model with a structured prompt requesting JSON
// output. The response carries a genre label, a mood, a confidence score
// (0-1), and up to three ranked candidates.
//
// # Retry behaviour
//
// Requests are retried on HTTP 408/429/5xx and network timeouts with
// exponential backoff (base 1s, max 10s, 5 attempts by default).
// Retry-After headers are honored. Context cancellation aborts retries
// immediately.
//
// Callers treat any returned error as "classifier unavailable" and fall
// back to local features; the client never blocks an analysis pipeline
// beyond its configured timeout.
package inference
