// Package recall reconstructs the agent's cognitive state from the
// fact log.
//
// Two paths produce a CognitiveState:
//
//   - Orchestrator: the bounded multi-round state machine. Each round
//     runs activate -> hold -> feel -> metacognition through the
//     cognition tool registry, streaming progress frames to the
//     consumer, and ends with a complete frame carrying the final
//     state and a diagnostic trace.
//   - Rememberer: the single-call path. Recent and retrieved facts are
//     merged into one prompt and the response is parsed into a state.
//
// Both fall back to DeriveState, a deterministic construction straight
// from the facts, when model output is unusable.
package recall
