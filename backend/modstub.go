package backend

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/sarchlab/formia/api"
	"github.com/sarchlab/formia/instr"
)

// ModMagic starts every module stub.
var ModMagic = []byte{0x00, 'f', 'm', 'm'}

// ModVersion is the layout version of the module stub.
const ModVersion byte = 1

const maxPrealloc = 1024

// ModStub writes a binary module stub: the magic, a version byte, the
// little endian instruction count, then one length prefixed record per
// instruction.
type ModStub struct{}

// Name returns "modstub".
func (ModStub) Name() string { return "modstub" }

// Extension returns "fmm".
func (ModStub) Extension() string { return "fmm" }

// Render writes the stub.
func (ModStub) Render(w io.Writer, unit api.Unit) error {
	var buf bytes.Buffer

	buf.Write(ModMagic)
	buf.WriteByte(ModVersion)

	if err := binary.Write(&buf, binary.LittleEndian, uint32(len(unit.Instructions))); err != nil {
		return err
	}

	for i, inst := range unit.Instructions {
		rec := []byte(instr.Format(inst))
		if len(rec) > math.MaxUint16 {
			return fmt.Errorf("instruction %d: record too long (%d bytes)", i, len(rec))
		}

		if err := binary.Write(&buf, binary.LittleEndian, uint16(len(rec))); err != nil {
			return err
		}
		buf.Write(rec)
	}

	_, err := w.Write(buf.Bytes())

	return err
}

// ReadModStub decodes a module stub back into its text records.
func ReadModStub(r io.Reader) ([]string, error) {
	header := make([]byte, len(ModMagic)+1)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	if !bytes.Equal(header[:len(ModMagic)], ModMagic) {
		return nil, fmt.Errorf("bad magic %x", header[:len(ModMagic)])
	}

	if header[len(ModMagic)] != ModVersion {
		return nil, fmt.Errorf("unsupported module version %d", header[len(ModMagic)])
	}

	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, fmt.Errorf("reading count: %w", err)
	}

	// The count is untrusted until the records are actually read.
	records := make([]string, 0, min(n, maxPrealloc))
	for i := uint32(0); i < n; i++ {
		var l uint16
		if err := binary.Read(r, binary.LittleEndian, &l); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}

		rec := make([]byte, l)
		if _, err := io.ReadFull(r, rec); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, string(rec))
	}

	return records, nil
}
