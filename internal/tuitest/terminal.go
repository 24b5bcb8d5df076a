package tuitest

import (
	"bytes"
	"io"
)

// queryResponder answers the terminal capability probes bubbletea and lipgloss
// send on startup. Without a reply the program blocks waiting on the PTY.
type queryResponder struct {
	w   io.Writer
	buf []byte
}

func newQueryResponder(w io.Writer) *queryResponder {
	return &queryResponder{w: w, buf: make([]byte, 0, 128)}
}

func (qr *queryResponder) feed(chunk []byte) {
	qr.buf = append(qr.buf, chunk...)
	qr.scan()
	// Keep a small tail so probes that span reads are still detected.
	if len(qr.buf) > 256 {
		qr.buf = qr.buf[len(qr.buf)-64:]
	}
}

var probeReplies = []struct {
	probe []byte
	reply []byte
}{
	{[]byte("\x1b[6n"), []byte("\x1b[1;1R")},
	{[]byte("\x1b]10;?\x07"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x07")},
	{[]byte("\x1b]10;?\x1b\\"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x1b\\")},
	{[]byte("\x1b]11;?\x07"), []byte("\x1b]11;rgb:0000/0000/0000\x07")},
	{[]byte("\x1b]11;?\x1b\\"), []byte("\x1b]11;rgb:0000/0000/0000\x1b\\")},
}

func (qr *queryResponder) scan() {
	for {
		answered := false
		for _, pr := range probeReplies {
			if idx := bytes.Index(qr.buf, pr.probe); idx >= 0 {
				qr.buf = qr.buf[idx+len(pr.probe):]
				_, _ = qr.w.Write(pr.reply)
				answered = true
			}
		}
		if !answered {
			return
		}
	}
}
