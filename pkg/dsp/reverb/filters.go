package reverb

// combFilter is a feedback comb with a one-pole lowpass in the loop.
type combFilter struct {
	buffer []float32
	index  int
	last   float32
}

func (c *combFilter) setSize(size int) {
	if size < 1 {
		size = 1
	}
	c.buffer = make([]float32, size)
	c.index = 0
	c.last = 0
}

func (c *combFilter) process(input, damp, feedback float32) float32 {
	output := c.buffer[c.index]
	c.last = output*(1-damp) + c.last*damp
	c.buffer[c.index] = input + c.last*feedback

	c.index++
	if c.index >= len(c.buffer) {
		c.index = 0
	}
	return output
}

func (c *combFilter) clear() {
	for i := range c.buffer {
		c.buffer[i] = 0
	}
	c.last = 0
}

// allPassFilter diffuses the comb output with a fixed 0.5 feedback.
type allPassFilter struct {
	buffer []float32
	index  int
}

func (a *allPassFilter) setSize(size int) {
	if size < 1 {
		size = 1
	}
	a.buffer = make([]float32, size)
	a.index = 0
}

func (a *allPassFilter) process(input float32) float32 {
	buffered := a.buffer[a.index]
	a.buffer[a.index] = input + buffered*0.5

	a.index++
	if a.index >= len(a.buffer) {
		a.index = 0
	}
	return buffered - input
}

func (a *allPassFilter) clear() {
	for i := range a.buffer {
		a.buffer[i] = 0
	}
}
