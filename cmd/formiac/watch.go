package main

import (
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/formia/config"
)

// watch reruns the compiler every time the source file is written. The
// directory is watched rather than the file, so editors that save by
// renaming a temporary file are picked up too. It returns on interrupt.
func watch(opts config.Options, out io.Writer) int {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Error("cannot start watcher", "Error", err)
		return 1
	}
	atexit.Register(func() { w.Close() })

	source, err := filepath.Abs(opts.Source)
	if err != nil {
		slog.Error("cannot resolve source", "Source", opts.Source, "Error", err)
		return 1
	}

	if err := w.Add(filepath.Dir(source)); err != nil {
		slog.Error("cannot watch source directory", "Source", source, "Error", err)
		return 1
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	slog.Info("watching", "Source", source)

	code := 0
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return code
			}

			if !isSourceChange(ev, source) {
				continue
			}

			slog.Info("source changed", "Source", source, "Op", ev.Op.String())
			code = run(opts, out)
		case err, ok := <-w.Errors:
			if !ok {
				return code
			}
			slog.Error("watch error", "Error", err)
		case <-interrupt:
			return code
		}
	}
}

func isSourceChange(ev fsnotify.Event, source string) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}

	name, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}

	return name == source
}
