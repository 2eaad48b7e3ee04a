package isogeny

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/xuluze/passagemath/ec"
	"github.com/xuluze/passagemath/internal/arith"
	"github.com/xuluze/passagemath/logger"
	"github.com/xuluze/passagemath/quadform"
)

// DegreeOracle bounds the reducible primes of a curve without complex
// multiplication over a base field larger than the rationals, where no
// unconditional bound is built in.
type DegreeOracle interface {
	ReduciblePrimes(c ec.Curve) ([]int64, error)
}

// Option configures an isogeny class computation.
type Option func(*config) error

type config struct {
	reducible  []int64
	oracle     DegreeOracle
	filter     func(int64) bool
	minimal    bool
	classGroup *quadform.Cache
	log        zerolog.Logger
}

func newConfig(opts ...Option) (*config, error) {
	cfg := &config{
		minimal:    true,
		classGroup: quadform.NewCache(),
		log:        logger.Logger(),
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// WithReduciblePrimes fixes the prime degrees used to generate the class,
// skipping the degree search. If the list misses a reducible prime the class
// computed may be a proper subset of the true one.
func WithReduciblePrimes(primes []int64) Option {
	return func(cfg *config) error {
		for _, p := range primes {
			if !arith.IsPrime64(p) {
				return fmt.Errorf("isogeny: reducible degree %d is not prime", p)
			}
		}
		cfg.reducible = append([]int64(nil), primes...)
		return nil
	}
}

// WithDegreeOracle supplies the reducible prime bound for non-CM curves over
// number fields.
func WithDegreeOracle(o DegreeOracle) Option {
	return func(cfg *config) error {
		cfg.oracle = o
		return nil
	}
}

// WithPrimeFilter installs a cheap predicate applied to candidate degrees
// before any isogenies are computed, in the way a Frobenius condition at a
// few good primes rules out most candidates.
func WithPrimeFilter(f func(int64) bool) Option {
	return func(cfg *config) error {
		cfg.filter = f
		return nil
	}
}

// WithMinimalModels controls whether class representatives are reduced to
// minimal models. On by default.
func WithMinimalModels(minimal bool) Option {
	return func(cfg *config) error {
		cfg.minimal = minimal
		return nil
	}
}

// WithClassGroupCache shares a reduced forms cache across computations of
// several CM classes.
func WithClassGroupCache(cache *quadform.Cache) Option {
	return func(cfg *config) error {
		if cache == nil {
			return fmt.Errorf("isogeny: nil class group cache")
		}
		cfg.classGroup = cache
		return nil
	}
}

// WithLogger overrides the package logger for one computation.
func WithLogger(log zerolog.Logger) Option {
	return func(cfg *config) error {
		cfg.log = log
		return nil
	}
}
