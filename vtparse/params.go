package vtparse

// maxParams bounds how many top-level CSI/DCS parameters are collected
// before the parser switches to an Ignore state (spec §4.1 "fixed-capacity
// array (>= 16 primary parameters)... overflow... Ignore state").
const maxParams = 32

// maxSubparams bounds sub-parameters per parameter (used by SGR 38/48's
// colon-separated extended color syntax).
const maxSubparams = 8

// Params holds the parsed parameter list of one CSI or DCS sequence. It is
// reused across sequences; Handler implementations must copy out any value
// they need to keep.
type Params struct {
	values  [maxParams][maxSubparams]uint16
	lengths [maxParams]uint8
	count   int
	hasSub  [maxParams]bool
}

func (p *Params) reset() {
	p.count = 0
	for i := range p.lengths {
		p.lengths[i] = 0
		p.hasSub[i] = false
	}
}

// Len returns the number of top-level parameters collected.
func (p *Params) Len() int { return p.count }

// Get returns the i-th parameter's first value, or def if i is out of range
// or the parameter was left empty (e.g. "CSI ;5H").
func (p *Params) Get(i int, def uint16) uint16 {
	if i < 0 || i >= p.count || p.lengths[i] == 0 {
		return def
	}
	return p.values[i][0]
}

// Sub returns the full sub-parameter list for parameter i.
func (p *Params) Sub(i int) []uint16 {
	if i < 0 || i >= p.count {
		return nil
	}
	return p.values[i][:p.lengths[i]]
}

// HasSubparams reports whether parameter i used ':'-separated sub-parameters.
func (p *Params) HasSubparams(i int) bool { return i >= 0 && i < p.count && p.hasSub[i] }

// startParam begins a new top-level parameter; returns false if the fixed
// capacity has been exceeded (caller should enter an Ignore state).
func (p *Params) startParam() bool {
	if p.count >= maxParams {
		return false
	}
	p.count++
	return true
}

// currentDigit appends a decimal digit to the last sub-value of the current
// parameter, saturating rather than overflowing uint16.
func (p *Params) currentDigit(d uint16) {
	if p.count == 0 {
		p.startParam()
	}
	i := p.count - 1
	if p.lengths[i] == 0 {
		p.lengths[i] = 1
		p.values[i][0] = 0 // values are reused across sequences
	}
	j := p.lengths[i] - 1
	v := p.values[i][j]
	nv := v*10 + d
	if nv < v { // overflow
		nv = 0xFFFF
	}
	p.values[i][j] = nv
}

// nextSubparam starts a new ':'-separated sub-value within the current
// parameter.
func (p *Params) nextSubparam() {
	if p.count == 0 {
		p.startParam()
	}
	i := p.count - 1
	p.hasSub[i] = true
	if int(p.lengths[i]) >= maxSubparams {
		return
	}
	p.lengths[i]++
	p.values[i][p.lengths[i]-1] = 0
}
