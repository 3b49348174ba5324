package config_test

import (
	"log/slog"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/formia/config"
)

var _ = Describe("Builder", func() {
	It("should hold the defaults", func() {
		opts, err := config.NewBuilder().WithSource("a.fom").Build()

		Expect(err).NotTo(HaveOccurred())
		Expect(opts).To(Equal(config.Options{
			Source:    "a.fom",
			OutputDir: ".",
			Formats:   []string{"asm"},
			Optimize:  true,
			Records:   config.RecordsNone,
			LogLevel:  slog.LevelInfo,
			Rollback:  config.NoRollback,
		}))
	})

	It("should split the format list", func() {
		opts, err := config.NewBuilder().WithFormats(" asm, raw ,,modstub").Build()

		Expect(err).NotTo(HaveOccurred())
		Expect(opts.Formats).To(Equal([]string{"asm", "raw", "modstub"}))
	})

	DescribeTable("invalid options",
		func(b config.Builder, msg string) {
			_, err := b.Build()
			Expect(err).To(MatchError(ContainSubstring(msg)))
		},
		Entry("no format", config.NewBuilder().WithFormats(""), "no output format"),
		Entry("unknown format", config.NewBuilder().WithFormats("asm,wasm"), "unknown backend"),
		Entry("unknown records", config.NewBuilder().WithRecords("xml"), "unknown record format"),
		Entry("negative unroll", config.NewBuilder().WithMaxUnroll(-1), "max unroll"),
		Entry("bad rollback", config.NewBuilder().WithRollback(-2), "rollback"),
		Entry("bad log level", config.NewBuilder().WithLogLevel("loud"), "unknown log level"),
	)

	It("should parse log levels", func() {
		for name, want := range map[string]slog.Level{
			"debug": slog.LevelDebug,
			"INFO":  slog.LevelInfo,
			"trace": config.LevelTrace,
			"warn":  slog.LevelWarn,
			"error": slog.LevelError,
		} {
			level, err := config.ParseLogLevel(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(level).To(Equal(want))
		}

		Expect(config.LevelTrace).To(BeNumerically(">", slog.LevelInfo))
		Expect(config.LevelTrace).To(BeNumerically("<", slog.LevelWarn))
	})
})

var _ = Describe("Config file", func() {
	It("should override only the keys it sets", func() {
		b, err := config.NewBuilder().WithYAML([]byte(`
formats: [raw, objstub]
optimize: false
max_unroll: 16
log_level: debug
`))
		Expect(err).NotTo(HaveOccurred())

		opts, err := b.Build()
		Expect(err).NotTo(HaveOccurred())
		Expect(opts.Formats).To(Equal([]string{"raw", "objstub"}))
		Expect(opts.Optimize).To(BeFalse())
		Expect(opts.MaxUnroll).To(Equal(16))
		Expect(opts.LogLevel).To(Equal(slog.LevelDebug))
		Expect(opts.OutputDir).To(Equal("."))
		Expect(opts.Records).To(Equal(config.RecordsNone))
	})

	It("should set watch and rollback", func() {
		b, err := config.NewBuilder().WithYAML([]byte("watch: true\nrollback: 2\n"))
		Expect(err).NotTo(HaveOccurred())

		opts, err := b.Build()
		Expect(err).NotTo(HaveOccurred())
		Expect(opts.Watch).To(BeTrue())
		Expect(opts.Rollback).To(Equal(2))
	})

	It("should validate a rollback from the file", func() {
		b, err := config.NewBuilder().WithYAML([]byte("rollback: -5\n"))
		Expect(err).NotTo(HaveOccurred())

		_, err = b.Build()
		Expect(err).To(MatchError(ContainSubstring("rollback")))
	})

	It("should accept an empty file", func() {
		b, err := config.NewBuilder().WithYAML(nil)
		Expect(err).NotTo(HaveOccurred())

		opts, err := b.Build()
		Expect(err).NotTo(HaveOccurred())
		Expect(opts.Formats).To(Equal([]string{"asm"}))
	})

	It("should reject unknown keys", func() {
		_, err := config.NewBuilder().WithYAML([]byte("optimise: true\n"))
		Expect(err).To(MatchError(ContainSubstring("parsing config")))
	})

	It("should read a file from disk", func() {
		path := filepath.Join(GinkgoT().TempDir(), config.DefaultFile)
		Expect(os.WriteFile(path, []byte("records: json\nlint: true\n"), 0o644)).
			To(Succeed())

		b, err := config.NewBuilder().WithFile(path)
		Expect(err).NotTo(HaveOccurred())

		opts, err := b.Build()
		Expect(err).NotTo(HaveOccurred())
		Expect(opts.Records).To(Equal(config.RecordsJSON))
		Expect(opts.Lint).To(BeTrue())
	})

	It("should report a missing file", func() {
		_, err := config.NewBuilder().WithFile("/nonexistent/formia.yaml")
		Expect(err).To(MatchError(ContainSubstring("reading config")))
	})
})
