package tui

// typewriter drives the character-by-character answer reveal. Each Start
// bumps the generation counter; tick messages are stamped with the
// generation they were scheduled under, and ticks from a superseded
// generation are dropped. That keeps exactly one reveal live no matter how
// timer deliveries interleave, and the terminal content is always the full
// string of the most recent Start.
type typewriter struct {
	gen   int
	runes []rune
	pos   int
	step  int
}

func newTypewriter(step int) *typewriter {
	if step <= 0 {
		step = 2
	}
	return &typewriter{step: step}
}

// Start begins revealing s from the beginning and returns the generation
// token ticks must carry. Any previous reveal is superseded.
func (t *typewriter) Start(s string) int {
	t.gen++
	t.runes = []rune(s)
	t.pos = 0
	return t.gen
}

// Stop invalidates any pending ticks.
func (t *typewriter) Stop() {
	t.gen++
	t.runes = nil
	t.pos = 0
}

// Tick advances the reveal for the given generation. ok is false for
// stale generations, whose ticks must be ignored outright. done turns true
// once the full string is visible.
func (t *typewriter) Tick(gen int) (prefix string, done, ok bool) {
	if gen != t.gen || t.runes == nil {
		return "", false, false
	}
	t.pos += t.step
	if t.pos >= len(t.runes) {
		t.pos = len(t.runes)
	}
	return string(t.runes[:t.pos]), t.pos == len(t.runes), true
}

// Current returns the visible prefix.
func (t *typewriter) Current() string {
	if t.runes == nil {
		return ""
	}
	return string(t.runes[:t.pos])
}

// Active reports whether a reveal is in progress.
func (t *typewriter) Active() bool {
	return t.runes != nil && t.pos < len(t.runes)
}
