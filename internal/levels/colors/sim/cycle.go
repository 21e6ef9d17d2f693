package sim

// TargetColorCycle picks target colors without repetition until every
// eligible color has been used once in the current sweep, then starts a new
// sweep. The first pick of a new sweep never repeats the previous target.
type TargetColorCycle struct {
	eligible []ColorID
	used     map[ColorID]bool
	current  ColorID
	hits     int
	quota    int
	picks    map[ColorID]int
	rng      *RNG
}

// NewTargetColorCycle creates a cycle over eligible colors and selects the
// first target. quota is the number of hits before ThresholdReached.
func NewTargetColorCycle(eligible []ColorID, quota int, rng *RNG) *TargetColorCycle {
	c := &TargetColorCycle{
		eligible: append([]ColorID(nil), eligible...),
		quota:    quota,
		rng:      rng,
	}
	c.Reset()
	return c
}

// Reset forgets the sweep and pick history and selects a fresh target.
func (c *TargetColorCycle) Reset() {
	c.used = make(map[ColorID]bool, len(c.eligible))
	c.picks = make(map[ColorID]int, len(c.eligible))
	c.current = -1
	c.hits = 0
	c.Next()
}

// Next selects and returns a color not yet used in the current sweep.
// The hit counter resets.
func (c *TargetColorCycle) Next() ColorID {
	candidates := c.available()
	if len(candidates) == 0 {
		c.used = make(map[ColorID]bool, len(c.eligible))
		candidates = c.available()
		if len(candidates) > 1 {
			for i, id := range candidates {
				if id == c.current {
					candidates = append(candidates[:i], candidates[i+1:]...)
					break
				}
			}
		}
	}

	pick := candidates[c.rng.Intn(len(candidates))]
	c.used[pick] = true
	c.picks[pick]++
	c.current = pick
	c.hits = 0
	return pick
}

func (c *TargetColorCycle) available() []ColorID {
	out := make([]ColorID, 0, len(c.eligible))
	for _, id := range c.eligible {
		if !c.used[id] {
			out = append(out, id)
		}
	}
	return out
}

// Current returns the active target color.
func (c *TargetColorCycle) Current() ColorID {
	return c.current
}

// RecordHit counts a destroyed target and returns the new count.
func (c *TargetColorCycle) RecordHit() int {
	c.hits++
	return c.hits
}

// Hits returns the hits on the current target.
func (c *TargetColorCycle) Hits() int {
	return c.hits
}

// Quota returns the hit count that completes a target.
func (c *TargetColorCycle) Quota() int {
	return c.quota
}

// ThresholdReached reports whether the current target met its quota.
func (c *TargetColorCycle) ThresholdReached() bool {
	return c.hits >= c.quota
}

// Used returns the colors used in the current sweep, in palette order.
func (c *TargetColorCycle) Used() []ColorID {
	var out []ColorID
	for _, id := range c.eligible {
		if c.used[id] {
			out = append(out, id)
		}
	}
	return out
}

// Picks returns how many times each color has been selected since Reset.
func (c *TargetColorCycle) Picks() map[ColorID]int {
	out := make(map[ColorID]int, len(c.picks))
	for k, v := range c.picks {
		out[k] = v
	}
	return out
}

// Distractors returns the eligible colors other than the current target.
func (c *TargetColorCycle) Distractors() []ColorID {
	out := make([]ColorID, 0, len(c.eligible))
	for _, id := range c.eligible {
		if id != c.current {
			out = append(out, id)
		}
	}
	return out
}

// Restore replaces the sweep state. Unknown colors are ignored; if current is
// not eligible the cycle keeps its present target.
func (c *TargetColorCycle) Restore(current ColorID, used []ColorID, hits int) {
	known := make(map[ColorID]bool, len(c.eligible))
	for _, id := range c.eligible {
		known[id] = true
	}
	c.used = make(map[ColorID]bool, len(c.eligible))
	for _, id := range used {
		if known[id] {
			c.used[id] = true
		}
	}
	if known[current] {
		c.current = current
		c.used[current] = true
	}
	if hits >= 0 && hits < c.quota {
		c.hits = hits
	} else {
		c.hits = 0
	}
}
