// Package config holds the repository-wide tuning defaults shared by the
// CLI driver, the reference engine, and the test suites. Values are plain
// exported constants; nothing here reads the environment or mutates at
// runtime.
package config

import "time"

// DefaultCheckTimeout bounds a single Check dispatch to the solver when
// the caller has no stricter deadline of its own.
const DefaultCheckTimeout = 10 * time.Second

// MaxOptimizeRounds caps the reference engine's branch-and-bound
// improvement loop: each round tightens the objective bound by at least
// one, so the cap only ever triggers on pathologically wide objective
// ranges.
const MaxOptimizeRounds = 64
