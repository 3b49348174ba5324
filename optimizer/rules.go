package optimizer

import (
	"math/big"
	"strconv"

	"github.com/sarchlab/formia/instr"
)

const lessThan = "<"

// defaultRules returns the rewrite rules in priority order.
func (o *Optimizer) defaultRules() []rule {
	return []rule{
		{RuleFoldStores, o.foldStores},
		{RuleUnrollLoop, o.unrollLoop},
		{RuleReorderPrint, o.reorderPrint},
		{RuleFuseCall, o.fuseCall},
		{RuleProfile, o.profileBlock},
	}
}

// foldStores merges a store followed by a Move to the same destination.
// The two literals are added, not overwritten.
func (o *Optimizer) foldStores(p *pass) (int, bool) {
	dest, first, ok := instr.Store(p.cur())
	if !ok {
		return 0, false
	}

	next, ok := p.peek()
	if !ok {
		return 0, false
	}

	mv, ok := next.(instr.Move)
	if !ok || mv.Dest != dest {
		return 0, false
	}

	a, ok := parseInt(first)
	if !ok {
		return 0, false
	}

	b, ok := parseInt(mv.Value)
	if !ok {
		return 0, false
	}

	p.emit(instr.Move{Dest: dest, Value: new(big.Int).Add(a, b).String()})

	return 2, true
}

// unrollLoop replaces "Loop v < n ... LoopEnd" with n literal copies of the
// body. The body ends at the first LoopEnd after the Loop.
func (o *Optimizer) unrollLoop(p *pass) (int, bool) {
	loop, ok := p.cur().(instr.Loop)
	if !ok {
		return 0, false
	}

	_, op, bound, ok := instr.SplitCondition(loop.Cond)
	if !ok || op != lessThan {
		return 0, false
	}

	end := -1
	for i := p.pos + 1; i < len(p.in); i++ {
		if _, isEnd := p.in[i].(instr.LoopEnd); isEnd {
			end = i
			break
		}
	}

	if end < 0 {
		return 0, false
	}

	n, err := strconv.Atoi(bound)
	if err != nil || n < 0 {
		return 0, false
	}

	if o.maxUnroll > 0 && n > o.maxUnroll {
		return 0, false
	}

	body := p.in[p.pos+1 : end]
	for i := 0; i < n; i++ {
		p.emit(body...)
	}

	return end - p.pos + 1, true
}

// reorderPrint moves a Move ahead of the Print emitted right before it.
// Only the Move is consumed from the input.
func (o *Optimizer) reorderPrint(p *pass) (int, bool) {
	mv, ok := p.cur().(instr.Move)
	if !ok {
		return 0, false
	}

	last, ok := p.lastOut()
	if !ok {
		return 0, false
	}

	if _, isPrint := last.(instr.Print); !isPrint {
		return 0, false
	}

	p.out = p.out[:len(p.out)-1]
	p.emit(mv, last)

	return 1, true
}

// fuseCall folds a Move into the Call that follows it.
func (o *Optimizer) fuseCall(p *pass) (int, bool) {
	mv, ok := p.cur().(instr.Move)
	if !ok {
		return 0, false
	}

	next, ok := p.peek()
	if !ok {
		return 0, false
	}

	call, ok := next.(instr.Call)
	if !ok {
		return 0, false
	}

	p.emit(instr.CallWithValue{Func: call.Target, Value: mv.Value})

	return 2, true
}

// profileBlock drops a Profile marker and emits the instruction after it,
// stamped with the time the substitution itself took. This measures the
// optimizer, not the compiled program. A marker at the end of the input
// profiles an empty Nop block.
func (o *Optimizer) profileBlock(p *pass) (int, bool) {
	marker, ok := p.cur().(instr.Profile)
	if !ok {
		return 0, false
	}

	start := o.now()

	consumed := 1
	var block instr.Instruction = instr.Nop{}
	if next, ok := p.peek(); ok {
		block = next
		consumed = 2
	}

	d := o.now().Sub(start)

	p.emit(instr.WithProfileTime(block, d.String()))
	o.profile.Append(marker.Block, d)

	return consumed, true
}

// parseInt parses a base 10 integer literal of any size.
func parseInt(s string) (*big.Int, bool) {
	return new(big.Int).SetString(s, 10)
}
