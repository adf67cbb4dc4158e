// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

package classdiff

import (
	"log/slog"

	"github.com/dsnet/compress/bzip2"

	"github.com/totallygamerjet/classdiff/seqpatch"
)

type config struct {
	log   *slog.Logger
	alg   seqpatch.Algorithm
	level int
}

func newConfig(opts []Option) config {
	c := config{
		log:   slog.Default(),
		alg:   seqpatch.Myers,
		level: bzip2.BestCompression,
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// Option configures a Differ, a Patcher or the package level helpers.
type Option func(*config)

// WithLogger sets the logger that receives Debug traces of every section.
// A nil logger turns tracing off.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.log = l
	}
}

// WithAlgorithm selects the sequence diff algorithm. It only affects diffing.
func WithAlgorithm(a seqpatch.Algorithm) Option {
	return func(c *config) {
		c.alg = a
	}
}

// WithCompressionLevel sets the bzip2 level of custom attribute deltas,
// bzip2.BestSpeed through bzip2.BestCompression.
func WithCompressionLevel(level int) Option {
	return func(c *config) {
		c.level = level
	}
}
