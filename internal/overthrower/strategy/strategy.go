// Package strategy implements the failure-decision engines: RANDOM, STEP,
// PULSE and NONE, each deciding whether a given allocation sequence number
// should be failed.
package strategy

import "github.com/kutelev/overthrower/internal/overthrower/config"

// lcgMultiplier/lcgIncrement are the constants of a classic linear
// congruential generator (the same family glibc's rand() uses). The engine
// deliberately does not synchronize access to Engine.lcgState: per spec, races on
// the shared PRNG are tolerated and only coarse frequency bounds are ever
// checked.
const (
	lcgMultiplier = 1103515245
	lcgIncrement  = 12345
)

// Engine decides, for a monotonically increasing allocation sequence
// number, whether the allocation at that position should fail.
type Engine struct {
	strategy  config.Strategy
	dutyCycle uint32
	delay     uint32
	duration  uint32
	lcgState  uint32
}

// New builds an Engine from an activation Config. The PRNG (used only by
// RANDOM) is seeded here.
func New(cfg config.Config) *Engine {
	return &Engine{
		strategy:  cfg.Strategy,
		dutyCycle: cfg.DutyCycle,
		delay:     cfg.Delay,
		duration:  cfg.Duration,
		lcgState:  cfg.Seed,
	}
}

// ShouldFail reports whether the allocation with sequence number n should be
// failed, per the active strategy's predicate.
func (e *Engine) ShouldFail(n uint32) bool {
	switch e.strategy {
	case config.StrategyRandom:
		return e.next()%e.dutyCycle == 0
	case config.StrategyStep:
		return n >= e.delay
	case config.StrategyPulse:
		return n >= e.delay && n < e.delay+e.duration
	case config.StrategyNone:
		return false
	default:
		return false
	}
}

// next advances the LCG and returns its new state. Not synchronized: see the
// comment on the LCG constants above.
func (e *Engine) next() uint32 {
	e.lcgState = e.lcgState*lcgMultiplier + lcgIncrement
	return e.lcgState
}
