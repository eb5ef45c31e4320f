package smoketest

import (
	"encoding/binary"
	"math"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/okian/lessongen/internal/domain/lesson"
	"github.com/okian/lessongen/internal/domain/model"
)

// optionalChance is the probability that an optional reading is present.
const optionalChance = 0.75

// Generator produces valid samples. The same seed yields the same samples.
type Generator struct {
	src *rand.ChaCha8
	rnd *rand.Rand
}

// NewGenerator creates a generator seeded with seed.
func NewGenerator(seed uint64) *Generator {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	src := rand.NewChaCha8(key)
	return &Generator{src: src, rnd: rand.New(src)}
}

// Generate returns n samples alternating between pitching and hitting.
func (g *Generator) Generate(n int) []Sample {
	out := make([]Sample, n)
	for i := range out {
		if i%2 == 0 {
			out[i] = g.Pitching()
		} else {
			out[i] = g.Hitting()
		}
	}
	return out
}

// Pitching returns one pitching sample.
func (g *Generator) Pitching() Sample {
	types := model.PitchTypes()
	in := model.PitchingMetrics{
		Velocity:        g.between(68, 101),
		PitchType:       types[g.rnd.IntN(len(types))],
		TotalSpin:       g.maybe(1400, 3100),
		TrueSpinRate:    g.maybe(1000, 3000),
		SpinDirection:   g.maybe(0, 360),
		GyroDegree:      g.maybe(0, 60),
		SpinEfficiency:  g.maybe(10, 100),
		ReleaseHeight:   g.maybe(4.5, 6.8),
		HorizontalBreak: g.maybe(-22, 22),
		VerticalBreak:   g.maybe(-12, 22),
	}
	return Sample{ID: g.id(), Mode: lesson.ModePitching, Pitching: &in}
}

// Hitting returns one hitting sample.
func (g *Generator) Hitting() Sample {
	in := model.HittingMetrics{
		ExitVelocity:  g.between(55, 112),
		Distance:      g.between(20, 440),
		LaunchAngle:   g.between(-25, 60),
		ExitDirection: g.maybe(-45, 45),
		TotalSpin:     g.maybe(500, 4000),
		SpinDirection: g.maybe(0, 360),
	}
	return Sample{ID: g.id(), Mode: lesson.ModeHitting, Hitting: &in}
}

// between returns a value in [lo, hi] rounded to one decimal.
func (g *Generator) between(lo, hi float64) float64 {
	v := lo + g.rnd.Float64()*(hi-lo)
	return math.Min(hi, math.Max(lo, math.Round(v*10)/10))
}

func (g *Generator) maybe(lo, hi float64) *float64 {
	if g.rnd.Float64() >= optionalChance {
		return nil
	}
	return model.Float(g.between(lo, hi))
}

func (g *Generator) id() string {
	id, err := uuid.NewRandomFromReader(g.src)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
