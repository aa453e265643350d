package economy

import (
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"

	"discord-guild-economy/internal/domain"
	"discord-guild-economy/internal/domain/model"
)

// hueRanges maps each pack to its inclusive degree spans on the 360-degree
// hue wheel. Red wraps around zero, hence the two spans.
var hueRanges = map[string][][2]int{
	"red":     {{331, 360}, {1, 30}},
	"yellow":  {{31, 90}},
	"green":   {{91, 150}},
	"cyan":    {{151, 210}},
	"blue":    {{211, 270}},
	"magenta": {{271, 330}},
}

// HSV is a rolled color in normalized coordinates: hue over 360, saturation
// and value over 100.
type HSV struct {
	H, S, V float64
}

// RollColor picks a uniform random color from the union of the owned packs'
// hue spans. Saturation and value are sampled over cap+1 discrete steps, so
// the cap itself is reachable. Fails when no pack is owned since the
// candidate pool would be empty.
//
// rng may be nil, in which case the shared math/rand source is used.
func RollColor(rng *rand.Rand, packs []string, saturationCap, valueCap int) (HSV, error) {
	var pool []int
	for _, p := range packs {
		if !model.ValidHuePack(p) {
			continue
		}
		for _, span := range hueRanges[p] {
			for deg := span[0]; deg <= span[1]; deg++ {
				pool = append(pool, deg)
			}
		}
	}
	if len(pool) == 0 {
		return HSV{}, domain.ErrNoColorPacks
	}

	intn := rand.Intn
	if rng != nil {
		intn = rng.Intn
	}
	return HSV{
		H: float64(pool[intn(len(pool))]) / 360,
		S: float64(intn(saturationCap+1)) / 100,
		V: float64(intn(valueCap+1)) / 100,
	}, nil
}

// RGB converts the normalized HSV into the packed 24-bit integer Discord
// expects for role colors.
func (c HSV) RGB() int {
	r, g, b := colorful.Hsv(c.H*360, c.S, c.V).RGB255()
	return int(r)<<16 | int(g)<<8 | int(b)
}
