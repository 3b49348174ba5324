package instr

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	semver "github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// FormatVersion is the version stamped on every record document.
const FormatVersion = "1.0.0"

// supportedFormats is the range of document versions this package decodes.
const supportedFormats = "^1"

// FieldOp is the record key holding the instruction tag.
const FieldOp = "op"

// FieldProfileTime is the record key holding the profiling stamp. It is only
// present on profiled instructions.
const FieldProfileTime = "profile_time"

// ErrUnsupportedFormat is returned when a document version is outside the
// supported range.
var ErrUnsupportedFormat = errors.New("unsupported record format")

// Record is the serialized form of one instruction. A key that is absent is
// not applicable to the tag; it never means an empty value.
type Record map[string]string

// Document is a serialized instruction sequence.
type Document struct {
	Format       string   `json:"format" yaml:"format"`
	Instructions []Record `json:"instructions" yaml:"instructions"`
}

// ToRecord serializes one instruction.
func ToRecord(inst Instruction) Record {
	r := Record{FieldOp: string(inst.Op())}

	for _, o := range Operands(inst) {
		r[o.Name] = o.Value
	}

	if t := inst.Annotation().ProfileTime; t != "" {
		r[FieldProfileTime] = t
	}

	return r
}

// FromRecord decodes one instruction. Every field implied by the tag must
// be present.
func FromRecord(r Record) (Instruction, error) {
	op, ok := r[FieldOp]
	if !ok {
		return nil, fmt.Errorf("record has no %q key", FieldOp)
	}

	get := func(names ...string) ([]string, error) {
		values := make([]string, len(names))
		for i, n := range names {
			v, ok := r[n]
			if !ok {
				return nil, fmt.Errorf("%s record is missing %q", op, n)
			}
			values[i] = v
		}
		return values, nil
	}

	var (
		inst Instruction
		v    []string
		err  error
	)

	switch Op(op) {
	case OpLoad:
		if v, err = get(FieldDest, FieldValue); err == nil {
			inst = Load{Dest: v[0], Value: v[1]}
		}
	case OpInput:
		if v, err = get(FieldDest); err == nil {
			inst = Input{Dest: v[0]}
		}
	case OpPrint:
		if v, err = get(FieldSrc); err == nil {
			inst = Print{Src: v[0]}
		}
	case OpBranch:
		if v, err = get(FieldCond, FieldLabel); err == nil {
			inst = Branch{Cond: v[0], Label: v[1]}
		}
	case OpEndIf:
		inst = EndIf{}
	case OpLoop:
		if v, err = get(FieldCond, FieldLabel); err == nil {
			inst = Loop{Cond: v[0], Label: v[1]}
		}
	case OpLoopEnd:
		inst = LoopEnd{}
	case OpCall:
		if v, err = get(FieldTarget); err == nil {
			inst = Call{Target: v[0]}
		}
	case OpFunc:
		if v, err = get(FieldName); err == nil {
			inst = Func{Name: v[0]}
		}
	case OpRet:
		inst = Ret{}
	case OpProfile:
		if v, err = get(FieldBlock); err == nil {
			inst = Profile{Block: v[0]}
		}
	case OpMove:
		if v, err = get(FieldDest, FieldValue); err == nil {
			inst = Move{Dest: v[0], Value: v[1]}
		}
	case OpCallWithValue:
		if v, err = get(FieldFunc, FieldValue); err == nil {
			inst = CallWithValue{Func: v[0], Value: v[1]}
		}
	case OpNop:
		inst = Nop{}
	default:
		return nil, fmt.Errorf("unknown op %q", op)
	}

	if err != nil {
		return nil, err
	}

	if err := checkKeys(inst, r); err != nil {
		return nil, err
	}

	if t, ok := r[FieldProfileTime]; ok {
		inst = WithProfileTime(inst, t)
	}

	return inst, nil
}

// checkKeys rejects keys that are not part of the operand set of the tag.
func checkKeys(inst Instruction, r Record) error {
	known := map[string]bool{FieldOp: true, FieldProfileTime: true}
	for _, o := range Operands(inst) {
		known[o.Name] = true
	}

	var extra []string
	for k := range r {
		if !known[k] {
			extra = append(extra, k)
		}
	}

	if len(extra) == 0 {
		return nil
	}

	sort.Strings(extra)

	return fmt.Errorf("%s record has unknown keys %q", inst.Op(), extra)
}

// NewDocument serializes a sequence at the current format version.
func NewDocument(insts []Instruction) Document {
	doc := Document{
		Format:       FormatVersion,
		Instructions: make([]Record, 0, len(insts)),
	}

	for _, inst := range insts {
		doc.Instructions = append(doc.Instructions, ToRecord(inst))
	}

	return doc
}

// Decode checks the document version and decodes every record.
func (d Document) Decode() ([]Instruction, error) {
	if err := CheckFormatVersion(d.Format); err != nil {
		return nil, err
	}

	insts := make([]Instruction, 0, len(d.Instructions))
	for i, r := range d.Instructions {
		inst, err := FromRecord(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		insts = append(insts, inst)
	}

	return insts, nil
}

// CheckFormatVersion reports whether a document version can be decoded.
func CheckFormatVersion(version string) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrUnsupportedFormat, version, err)
	}

	c, err := semver.NewConstraint(supportedFormats)
	if err != nil {
		panic(err)
	}

	if !c.Check(v) {
		return fmt.Errorf("%w: %s does not satisfy %s",
			ErrUnsupportedFormat, v, supportedFormats)
	}

	return nil
}

// EncodeJSON serializes a sequence as an indented JSON document.
func EncodeJSON(insts []Instruction) ([]byte, error) {
	return json.MarshalIndent(NewDocument(insts), "", "  ")
}

// DecodeJSON parses a JSON document.
func DecodeJSON(data []byte) ([]Instruction, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding json records: %w", err)
	}

	return doc.Decode()
}

// EncodeYAML serializes a sequence as a YAML document.
func EncodeYAML(insts []Instruction) ([]byte, error) {
	return yaml.Marshal(NewDocument(insts))
}

// DecodeYAML parses a YAML document.
func DecodeYAML(data []byte) ([]Instruction, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding yaml records: %w", err)
	}

	return doc.Decode()
}
