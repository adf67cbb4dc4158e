// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

package seqpatch

// Algorithm selects the diff strategy used by DiffWith.
type Algorithm uint8

const (
	// Myers produces a minimal edit script.
	Myers Algorithm = iota
	// Matcher uses difflib's SequenceMatcher. It is not always minimal but
	// tends to keep long runs of common elements together. With DiffWith
	// every element is compared against one representative of each distinct
	// value seen so far; DiffComparable buckets elements with a map instead.
	Matcher
)

func (a Algorithm) String() string {
	switch a {
	case Myers:
		return "myers"
	case Matcher:
		return "matcher"
	}
	return "unknown"
}

// Diff returns a minimal patch turning a into b using ==.
func Diff[T comparable](a, b []T) Patch[T] {
	return DiffComparable(Myers, a, b)
}

// DiffComparable diffs a and b under == with the chosen algorithm.
func DiffComparable[T comparable](alg Algorithm, a, b []T) Patch[T] {
	return diff(alg, a, b, func(x, y T) bool { return x == y }, mapKeys[T])
}

// DiffFunc returns a minimal patch turning a into b under eq.
func DiffFunc[T any](a, b []T, eq func(x, y T) bool) Patch[T] {
	return DiffWith(Myers, a, b, eq)
}

// DiffWith diffs a and b under eq with the chosen algorithm.
func DiffWith[T any](alg Algorithm, a, b []T, eq func(x, y T) bool) Patch[T] {
	return diff(alg, a, b, eq, func() func(T) string { return scanKeys(eq) })
}

func diff[T any](alg Algorithm, a, b []T, eq func(x, y T) bool, keys func() func(T) string) Patch[T] {
	// common prefix and suffix never produce deltas
	pre := 0
	for pre < len(a) && pre < len(b) && eq(a[pre], b[pre]) {
		pre++
	}
	suf := 0
	for suf < len(a)-pre && suf < len(b)-pre && eq(a[len(a)-1-suf], b[len(b)-1-suf]) {
		suf++
	}
	ma, mb := a[pre:len(a)-suf], b[pre:len(b)-suf]

	var script []edit
	if alg == Matcher {
		script = matcherScript(ma, mb, keys())
	} else {
		script = myersScript(ma, mb, eq)
	}
	return fromScript(a, b, pre, script)
}

type editOp uint8

const (
	opKeep editOp = iota
	opDelete
	opInsert
)

type edit struct {
	op   editOp
	x, y int // position in a and b before the step
}

// maxCost bounds the edit distance myersScript searches. The kept frontiers
// grow with the square of the cost; past the bound the whole span is
// replaced instead.
const maxCost = 1024

// myersScript is the greedy O(ND) algorithm from "An O(ND) Difference
// Algorithm and Its Variations". One frontier per cost is kept so the path
// can be walked back; each frontier only covers diagonals -d..d.
func myersScript[T any](a, b []T, eq func(x, y T) bool) []edit {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return replaceAll(n, m)
	}
	max := n + m
	off := max + 1
	v := make([]int, 2*max+3)
	var trace [][]int

	snapshot := func(d int) {
		s := make([]int, 2*d+1)
		copy(s, v[off-d:off+d+1])
		trace = append(trace, s)
	}

search:
	for d := 0; d <= max; d++ {
		if d > maxCost {
			return replaceAll(n, m)
		}
		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[off+k-1] < v[off+k+1]) {
				x = v[off+k+1]
			} else {
				x = v[off+k-1] + 1
			}
			y := x - k
			for x < n && y < m && eq(a[x], b[y]) {
				x++
				y++
			}
			v[off+k] = x
			if x >= n && y >= m {
				snapshot(d)
				break search
			}
		}
		snapshot(d)
	}

	var rev []edit
	x, y := n, m
	for d := len(trace) - 1; d > 0; d-- {
		prev := trace[d-1]
		at := func(k int) int { return prev[k+d-1] }
		k := x - y
		var pk int
		if k == -d || (k != d && at(k-1) < at(k+1)) {
			pk = k + 1
		} else {
			pk = k - 1
		}
		px := at(pk)
		py := px - pk
		for x > px && y > py {
			x--
			y--
			rev = append(rev, edit{op: opKeep, x: x, y: y})
		}
		if pk == k+1 {
			rev = append(rev, edit{op: opInsert, x: px, y: py})
		} else {
			rev = append(rev, edit{op: opDelete, x: px, y: py})
		}
		x, y = px, py
	}
	for x > 0 && y > 0 {
		x--
		y--
		rev = append(rev, edit{op: opKeep, x: x, y: y})
	}

	script := make([]edit, len(rev))
	for i, e := range rev {
		script[len(rev)-1-i] = e
	}
	return script
}

func replaceAll(n, m int) []edit {
	script := make([]edit, 0, n+m)
	for x := 0; x < n; x++ {
		script = append(script, edit{op: opDelete, x: x})
	}
	for y := 0; y < m; y++ {
		script = append(script, edit{op: opInsert, x: n, y: y})
	}
	return script
}

// fromScript groups consecutive non-keep edits into deltas. Script positions
// are relative to a[pre:] and b[pre:].
func fromScript[T any](a, b []T, pre int, script []edit) Patch[T] {
	var p Patch[T]
	for i := 0; i < len(script); {
		if script[i].op == opKeep {
			i++
			continue
		}
		x0, y0 := script[i].x, script[i].y
		x1, y1 := x0, y0
		for ; i < len(script) && script[i].op != opKeep; i++ {
			switch script[i].op {
			case opDelete:
				x1++
			case opInsert:
				y1++
			}
		}
		p.Deltas = append(p.Deltas, newDelta(a, b, pre+x0, pre+x1, pre+y0, pre+y1))
	}
	return p
}
