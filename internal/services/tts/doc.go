// Package tts adapts command-line speech synthesis engines (Coqui tts and
// espeak-ng) to a single text-in, WAV-out contract.
//
// The adapter probes engine capabilities once, picks a model
// deterministically from that snapshot, and demotes itself from CUDA to
// CPU when the engine reports an accelerator failure, retrying the call
// once. Capabilities travel as explicit values so callers can merge them
// across concurrent calls without shared mutable state.
package tts
