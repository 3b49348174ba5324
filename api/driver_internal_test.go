package api

import (
	"bytes"
	"errors"
	"io"

	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/formia/instr"
)

type memFile struct {
	bytes.Buffer
	closed   bool
	closeErr error
}

func (f *memFile) Close() error {
	f.closed = true
	return f.closeErr
}

var _ = Describe("Driver", func() {
	var (
		mockCtrl *gomock.Controller
		asm      *MockBackend
		raw      *MockBackend
		files    map[string]*memFile
		open     OpenFunc
		unit     Unit
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())

		asm = NewMockBackend(mockCtrl)
		asm.EXPECT().Name().Return("asm").AnyTimes()
		asm.EXPECT().Extension().Return("asm").AnyTimes()

		raw = NewMockBackend(mockCtrl)
		raw.EXPECT().Name().Return("raw").AnyTimes()
		raw.EXPECT().Extension().Return("ir").AnyTimes()

		files = make(map[string]*memFile)
		open = func(name string) (io.WriteCloser, error) {
			f := &memFile{}
			files[name] = f
			return f, nil
		}

		unit = Unit{
			Name:         "demo",
			Instructions: []instr.Instruction{instr.Print{Src: "x"}},
			Variables:    []string{"x"},
		}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should register backends in order", func() {
		d := DriverBuilder{}.WithBackend(asm).WithBackend(raw).Build()

		Expect(d.Backends()).To(Equal([]Backend{asm, raw}))
	})

	It("should panic on a duplicate backend name", func() {
		d := DriverBuilder{}.WithBackend(asm).Build()

		Expect(func() { d.RegisterBackend(asm) }).To(Panic())
	})

	It("should render through every backend in order", func() {
		d := DriverBuilder{}.WithBackend(asm).WithBackend(raw).Build()

		gomock.InOrder(
			asm.EXPECT().Render(gomock.Any(), unit).
				DoAndReturn(func(w io.Writer, u Unit) error {
					_, err := io.WriteString(w, "main:")
					return err
				}),
			raw.EXPECT().Render(gomock.Any(), unit).Return(nil),
		)

		artifacts, err := d.Emit(unit, open)

		Expect(err).NotTo(HaveOccurred())
		Expect(artifacts).To(Equal([]Artifact{
			{Backend: "asm", Name: "demo.asm"},
			{Backend: "raw", Name: "demo.ir"},
		}))
		Expect(files["demo.asm"].String()).To(Equal("main:"))
		Expect(files["demo.asm"].closed).To(BeTrue())
		Expect(files["demo.ir"].closed).To(BeTrue())
	})

	It("should not let a backend change the unit", func() {
		d := DriverBuilder{}.WithBackend(asm).Build()

		asm.EXPECT().Render(gomock.Any(), gomock.Any()).
			DoAndReturn(func(w io.Writer, u Unit) error {
				u.Instructions[0] = instr.Nop{}
				return nil
			})

		_, err := d.Emit(unit, open)

		Expect(err).NotTo(HaveOccurred())
		Expect(unit.Instructions[0]).To(Equal(instr.Print{Src: "x"}))
	})

	It("should stop at the first failing backend", func() {
		d := DriverBuilder{}.WithBackend(asm).WithBackend(raw).Build()
		boom := errors.New("boom")

		asm.EXPECT().Render(gomock.Any(), gomock.Any()).Return(boom)

		artifacts, err := d.Emit(unit, open)

		Expect(err).To(MatchError(boom))
		Expect(err.Error()).To(ContainSubstring("backend asm"))
		Expect(artifacts).To(BeEmpty())
		Expect(files["demo.asm"].closed).To(BeTrue())
		Expect(files).NotTo(HaveKey("demo.ir"))
	})

	It("should report a destination that cannot be opened", func() {
		d := DriverBuilder{}.WithBackend(asm).Build()
		denied := errors.New("denied")

		_, err := d.Emit(unit, func(string) (io.WriteCloser, error) {
			return nil, denied
		})

		Expect(err).To(MatchError(denied))
		Expect(err.Error()).To(ContainSubstring("demo.asm"))
	})

	It("should report a failed close", func() {
		d := DriverBuilder{}.WithBackend(asm).Build()
		full := errors.New("disk full")

		asm.EXPECT().Render(gomock.Any(), gomock.Any()).Return(nil)

		_, err := d.Emit(unit, func(string) (io.WriteCloser, error) {
			return &memFile{closeErr: full}, nil
		})

		Expect(err).To(MatchError(full))
	})
})
