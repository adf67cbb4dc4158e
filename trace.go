// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

package classdiff

import (
	"context"
	"log/slog"

	"github.com/totallygamerjet/classdiff/classfile"
	"github.com/totallygamerjet/classdiff/format"
	"github.com/totallygamerjet/classdiff/seqpatch"
)

const logPrefix = "[classdiff] "

// tracer logs each section it is shown at Debug level.
type tracer struct {
	log *slog.Logger
	op  string
}

// traced puts a tracer in front of v when l has Debug enabled.
func traced(l *slog.Logger, op string, v format.Visitor) format.Visitor {
	if l == nil || !l.Enabled(context.Background(), slog.LevelDebug) {
		return v
	}
	return format.Multi(tracer{log: l, op: op}, v)
}

func (t tracer) section(name string, args ...any) error {
	t.log.Debug(logPrefix+"section", append([]any{"op", t.op, "name", name}, args...)...)
	return nil
}

func (t tracer) VisitHeader(h format.Header) error {
	args := []any{"op", t.op, "format", h.FormatVersion}
	if h.ClassVersion != format.NoChange {
		args = append(args, "version", h.ClassVersion)
	}
	if h.Access != format.NoChange {
		args = append(args, "access", h.Access)
	}
	if h.Name.Changed {
		args = append(args, "name", h.Name.Value)
	}
	if h.Interfaces != nil {
		args = append(args, "interfaces", len(h.Interfaces.Deltas))
	}
	t.log.Debug(logPrefix+"header", args...)
	return nil
}

func (t tracer) VisitSource(file, debug format.StringEdit) error {
	return t.section(format.SectionSource, "file", file.Changed, "debug", debug.Changed)
}

func (t tracer) VisitInnerClasses(p seqpatch.Patch[classfile.InnerClass]) error {
	return t.section(format.SectionInnerClasses, "deltas", len(p.Deltas))
}

func (t tracer) VisitOuterClass(class, method, desc format.StringEdit) error {
	return t.section(format.SectionOuterClass, "class", class.Value)
}

func (t tracer) VisitNestHost(host format.StringEdit) error {
	return t.section(format.SectionNestHost, "host", host.Value)
}

func (t tracer) VisitNestMembers(p seqpatch.Patch[string]) error {
	return t.section(format.SectionNestMembers, "deltas", len(p.Deltas))
}

func (t tracer) VisitPermittedSubclasses(p seqpatch.Patch[string]) error {
	return t.section(format.SectionPermittedSubclasses, "deltas", len(p.Deltas))
}

func (t tracer) VisitAnnotations(p seqpatch.Patch[classfile.Annotation], visible bool) error {
	name := format.SectionInvisibleAnnotations
	if visible {
		name = format.SectionVisibleAnnotations
	}
	return t.section(name, "deltas", len(p.Deltas))
}

func (t tracer) VisitTypeAnnotations(p seqpatch.Patch[classfile.TypeAnnotation], visible bool) error {
	name := format.SectionInvisibleTypeAnnotations
	if visible {
		name = format.SectionVisibleTypeAnnotations
	}
	return t.section(name, "deltas", len(p.Deltas))
}

func (t tracer) VisitCustomAttribute(name string, e format.AttributeEdit) error {
	return t.section(format.CustomPrefix+name, "removed", e.Removed, "bytes", len(e.Data))
}

func (t tracer) VisitEnd() error {
	t.log.Debug(logPrefix+"end", "op", t.op)
	return nil
}
