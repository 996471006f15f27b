// Command kitcrate analyzes audio samples, curates them into kits, and
// exports them for a 16-pad hardware sampler.
package main
