package instr_test

import (
	"reflect"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/formia/instr"
)

// foreign embeds the annotation and has a tag but is not part of the
// instruction set.
type foreign struct {
	instr.Annot
}

func (foreign) Op() instr.Op { return instr.OpNop }

func sample() []instr.Instruction {
	profiled := instr.Move{Dest: "x", Value: "7"}
	profiled.ProfileTime = "1.5µs"

	return []instr.Instruction{
		instr.Load{Dest: "x", Value: "5"},
		instr.Input{Dest: "n"},
		instr.Print{Src: "n"},
		instr.Branch{Cond: "n == 0", Label: "else0"},
		instr.EndIf{},
		instr.Loop{Cond: "i < 3", Label: "loop1"},
		instr.LoopEnd{},
		instr.Call{Target: "f"},
		instr.Func{Name: "f"},
		instr.Ret{},
		instr.Profile{Block: "hot"},
		profiled,
		instr.CallWithValue{Func: "f", Value: "5"},
		instr.Nop{},
	}
}

var _ = Describe("Instruction", func() {
	It("should report its tag", func() {
		ops := make([]instr.Op, 0)
		for _, inst := range sample() {
			ops = append(ops, inst.Op())
		}

		Expect(ops).To(Equal(instr.Ops))
	})

	It("should not be satisfied by types outside the package", func() {
		iface := reflect.TypeOf((*instr.Instruction)(nil)).Elem()

		Expect(reflect.TypeOf(foreign{}).Implements(iface)).To(BeFalse())
		for _, inst := range sample() {
			Expect(reflect.TypeOf(inst).Implements(iface)).To(BeTrue())
		}
	})

	It("should format with operands and stamp", func() {
		Expect(instr.Format(instr.Ret{})).To(Equal("ret"))
		Expect(instr.Format(instr.Branch{Cond: "a < b", Label: "else2"})).
			To(Equal(`branch cond="a < b" label="else2"`))
		Expect(instr.Format(instr.WithProfileTime(instr.Print{Src: "x"}, "3ms"))).
			To(Equal(`print src="x" [3ms]`))
	})

	It("should stamp a copy", func() {
		orig := instr.Input{Dest: "a"}

		stamped := instr.WithProfileTime(orig, "2ms")

		Expect(orig.ProfileTime).To(BeEmpty())
		Expect(stamped.Annotation().ProfileTime).To(Equal("2ms"))
		Expect(stamped.Op()).To(Equal(instr.OpInput))
	})

	It("should recognize stores", func() {
		dest, value, ok := instr.Store(instr.Load{Dest: "a", Value: "1"})
		Expect(ok).To(BeTrue())
		Expect(dest).To(Equal("a"))
		Expect(value).To(Equal("1"))

		_, _, ok = instr.Store(instr.Input{Dest: "a"})
		Expect(ok).To(BeFalse())
	})

	It("should split conditions into three parts", func() {
		lhs, op, rhs, ok := instr.SplitCondition(instr.Condition("i", "<", "10"))
		Expect(ok).To(BeTrue())
		Expect([]string{lhs, op, rhs}).To(Equal([]string{"i", "<", "10"}))

		_, _, _, ok = instr.SplitCondition("i <")
		Expect(ok).To(BeFalse())

		_, _, _, ok = instr.SplitCondition("i < 10 extra")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Records", func() {
	It("should only carry the fields of the tag", func() {
		Expect(instr.ToRecord(instr.Print{Src: "x"})).
			To(Equal(instr.Record{"op": "print", "src": "x"}))
		Expect(instr.ToRecord(instr.LoopEnd{})).
			To(Equal(instr.Record{"op": "loopend"}))
	})

	It("should round trip through JSON", func() {
		data, err := instr.EncodeJSON(sample())
		Expect(err).NotTo(HaveOccurred())

		insts, err := instr.DecodeJSON(data)
		Expect(err).NotTo(HaveOccurred())
		Expect(insts).To(Equal(sample()))
	})

	It("should round trip through YAML", func() {
		data, err := instr.EncodeYAML(sample())
		Expect(err).NotTo(HaveOccurred())

		insts, err := instr.DecodeYAML(data)
		Expect(err).NotTo(HaveOccurred())
		Expect(insts).To(Equal(sample()))
	})

	It("should reject an unknown op", func() {
		_, err := instr.FromRecord(instr.Record{"op": "jump"})
		Expect(err).To(MatchError(ContainSubstring("unknown op")))
	})

	It("should reject a record with a missing field", func() {
		_, err := instr.FromRecord(instr.Record{"op": "move", "dest": "x"})
		Expect(err).To(MatchError(ContainSubstring(`missing "value"`)))

		_, err = instr.FromRecord(instr.Record{"dest": "x"})
		Expect(err).To(HaveOccurred())
	})

	It("should reject keys that do not belong to the tag", func() {
		_, err := instr.FromRecord(instr.Record{"op": "ret", "dest": "x"})
		Expect(err).To(MatchError(ContainSubstring("unknown keys")))

		_, err = instr.FromRecord(instr.Record{"op": "print", "src": "x", "label": "l", "cond": "c"})
		Expect(err).To(MatchError(ContainSubstring(`["cond" "label"]`)))

		_, err = instr.DecodeYAML([]byte("format: 1.0.0\ninstructions:\n  - op: endif\n    target: f\n"))
		Expect(err).To(MatchError(ContainSubstring("record 0")))
	})

	It("should accept the profiling stamp on any tag", func() {
		inst, err := instr.FromRecord(instr.Record{"op": "ret", "profile_time": "1ms"})
		Expect(err).NotTo(HaveOccurred())
		Expect(inst.Annotation().ProfileTime).To(Equal("1ms"))
	})

	It("should accept an empty value that is present", func() {
		inst, err := instr.FromRecord(instr.Record{"op": "print", "src": ""})
		Expect(err).NotTo(HaveOccurred())
		Expect(inst).To(Equal(instr.Print{}))
	})

	It("should check the document version", func() {
		Expect(instr.CheckFormatVersion(instr.FormatVersion)).To(Succeed())
		Expect(instr.CheckFormatVersion("1.4.2")).To(Succeed())
		Expect(instr.CheckFormatVersion("2.0.0")).
			To(MatchError(instr.ErrUnsupportedFormat))
		Expect(instr.CheckFormatVersion("latest")).
			To(MatchError(instr.ErrUnsupportedFormat))

		_, err := instr.DecodeJSON([]byte(`{"format":"0.9.0","instructions":[]}`))
		Expect(err).To(MatchError(instr.ErrUnsupportedFormat))
	})

	It("should point at the failing record", func() {
		_, err := instr.DecodeJSON([]byte(
			`{"format":"1.0.0","instructions":[{"op":"ret"},{"op":"print"}]}`))
		Expect(err).To(MatchError(ContainSubstring("record 1")))
	})
})
