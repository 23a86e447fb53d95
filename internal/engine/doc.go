// Package engine contains the turn loop and simulation logic for the
// station. This is the heartbeat of Outpost 31.
//
// ARCHITECTURAL RULE: systems do NOT mutate agent state outside their
// documented entry points. The Simulation publishes TurnAdvance events to
// the bus; subsystems subscribe at construction in a fixed order
// (environment, infection, psychology, AI, endgame) and react synchronously.
package engine
