package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"streamscribe/internal/queue"
	"streamscribe/internal/transcript"
)

// barSink renders chunk progress as an interactive terminal bar, degrading
// to plain per-chunk lines when stdout is not a TTY (logs, CI, pipes).
type barSink struct {
	out   io.Writer
	tty   bool
	bar   *progressbar.ProgressBar
	total int
	done  int
}

func newProgressSink(out io.Writer) *barSink {
	tty := false
	if file, ok := out.(*os.File); ok {
		fd := file.Fd()
		tty = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
	return &barSink{out: out, tty: tty}
}

func (s *barSink) Begin(job *queue.Job, totalChunks, completedChunks int) {
	s.total = totalChunks
	s.done = completedChunks
	if !s.tty {
		if completedChunks > 0 {
			fmt.Fprintf(s.out, "Resuming at chunk %d/%d\n", completedChunks+1, totalChunks)
		}
		return
	}
	description := "Transcribing"
	if title := strings.TrimSpace(job.Title); title != "" {
		description = fmt.Sprintf("Transcribing %s", truncateTitle(title, 40))
	}
	s.bar = progressbar.NewOptions(totalChunks,
		progressbar.OptionSetWriter(s.out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetWidth(30),
	)
	_ = s.bar.Set(completedChunks)
}

func (s *barSink) ChunkDone(seg transcript.Segment, produced bool) {
	s.done++
	if s.bar != nil {
		_ = s.bar.Add(1)
		return
	}
	if produced {
		fmt.Fprintf(s.out, "Chunk %d/%d done\n", s.done, s.total)
		return
	}
	fmt.Fprintf(s.out, "Chunk %d/%d skipped\n", s.done, s.total)
}

func (s *barSink) End() {
	if s.bar != nil {
		_ = s.bar.Finish()
		fmt.Fprintln(s.out)
	}
}

func truncateTitle(title string, max int) string {
	runes := []rune(title)
	if len(runes) <= max {
		return title
	}
	return string(runes[:max-1]) + "…"
}
