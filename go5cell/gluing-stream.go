package go5cell

import (
	"fmt"
	"io"
	"strings"
)

type GluingStream struct {
	Outlet chan *Gluing
}

func NewGluingStream() *GluingStream {
	stream := &GluingStream{
		Outlet: make(chan *Gluing, 1),
	}
	return stream
}

// StreamGluings returns a stream that emits a copy of each given gluing and then closes.
func StreamGluings(src ...*Gluing) *GluingStream {
	next := NewGluingStream()

	go func() {
		for _, g := range src {
			next.Outlet <- g.Clone()
		}
		next.Close()
	}()

	return next
}

func (stream *GluingStream) Close() {
	if stream.Outlet != nil {
		close(stream.Outlet)
	}
}

func (stream *GluingStream) PushGluing(g *Gluing) {
	stream.Outlet <- g
}

func (stream *GluingStream) PullGluing() *Gluing {
	g := <-stream.Outlet
	return g
}

// PullAll drains the stream and returns how many gluings passed through.
func (stream *GluingStream) PullAll() int {
	count := int(0)
	for range stream.Outlet {
		count++
	}
	return count
}

// WriteGluing writes a single line for g (without a trailing newline).
func WriteGluing(out io.Writer, g *Gluing, opts PrintOpts) {
	sep := ""
	if opts.Pairing {
		fmt.Fprintf(out, "%s[%s]", sep, g.Pairing)
		sep = " "
	}
	if opts.Indices {
		io.WriteString(out, sep)
		for i, idx := range g.PermIndices {
			if i > 0 {
				io.WriteString(out, " ")
			}
			fmt.Fprintf(out, "%d", idx)
		}
		sep = " "
	}
	if opts.Desc {
		io.WriteString(out, sep)
		io.WriteString(out, g.Desc)
	}
}

func (stream *GluingStream) Print(
	out io.WriteCloser,
	opts PrintOpts) *GluingStream {

	next := NewGluingStream()

	go func() {
		buf := strings.Builder{}
		buf.Grow(256)

		count := 0
		for g := range stream.Outlet {
			if len(opts.Label) > 0 {
				buf.WriteString(opts.Label)
				buf.WriteByte(',')
			}

			count++
			fmt.Fprintf(&buf, "%06d,", count)
			WriteGluing(&buf, g, opts)
			buf.WriteByte('\n')
			out.Write([]byte(buf.String()))
			buf.Reset()
			next.Outlet <- g
		}
		out.Close()
		next.Close()
	}()

	return next
}

func (stream *GluingStream) AddTo(target GluingAdder) *GluingStream {
	next := NewGluingStream()

	go func() {
		for g := range stream.Outlet {
			if target.TryAddGluing(g) {
				next.Outlet <- g
			}
		}
		next.Close()
	}()

	return next
}

func SelectFromCatalog(cat Catalog, sel GluingSelector) *GluingStream {
	next := NewGluingStream()

	onHit := make(chan *Gluing, 4)

	go func() {
		cat.Select(sel, onHit)
		close(onHit)
	}()

	go func() {
		for g := range onHit {
			if sel.SelectsGluing(g) {
				next.Outlet <- g
			}
		}
		next.Close()
	}()

	return next
}

func (stream *GluingStream) Select(sel GluingSelector) *GluingStream {
	next := NewGluingStream()

	go func() {
		for g := range stream.Outlet {
			if sel.SelectsGluing(g) {
				next.Outlet <- g
			}
		}
		next.Close()
	}()

	return next
}
