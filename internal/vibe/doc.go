// Package vibe classifies the genre and mood of analyzed samples through
// an injected AI inference backend.
//
// The classifier maps the model's free-form genre label onto the fixed
// category vocabulary the export and recommendation layers understand.
// Unmapped labels keep the raw label with no category. Remote failures
// surface as ErrClassifierUnavailable so the pipeline can proceed with
// local features only.
//
// Every invocation, successful or not, is recorded through the injected
// usage ledger (model, latency, payload sizes, outcome). Budget and
// rate-limit enforcement live with the ledger's owner, not here.
package vibe
