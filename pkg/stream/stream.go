// Package stream provides lazy helpers over iter.Seq.
package stream

import (
	"iter"
	"slices"
)

// Of yields the given items
func Of[T any](items ...T) iter.Seq[T] {
	return slices.Values(items)
}

// Collect gathers all items into a slice
func Collect[T any](seq iter.Seq[T]) []T {
	return slices.Collect(seq)
}

// Map applies fn to every item
func Map[T, U any](seq iter.Seq[T], fn func(T) U) iter.Seq[U] {
	return func(yield func(U) bool) {
		for item := range seq {
			if !yield(fn(item)) {
				return
			}
		}
	}
}

// Filter keeps the items for which cond is true
func Filter[T any](seq iter.Seq[T], cond func(T) bool) iter.Seq[T] {
	return func(yield func(T) bool) {
		for item := range seq {
			if cond(item) && !yield(item) {
				return
			}
		}
	}
}

// OfType yields the items whose dynamic type is U
func OfType[U any, T any](seq iter.Seq[T]) iter.Seq[U] {
	return func(yield func(U) bool) {
		for item := range seq {
			if u, ok := any(item).(U); ok && !yield(u) {
				return
			}
		}
	}
}

// Unique yields items whose key was not seen before, preserving order
func Unique[T any, K comparable](seq iter.Seq[T], key func(T) K) iter.Seq[T] {
	return func(yield func(T) bool) {
		seen := make(map[K]struct{})
		for item := range seq {
			k := key(item)
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			if !yield(item) {
				return
			}
		}
	}
}

// Chunks collects items in slices of length n. The last chunk is padded with fill.
func Chunks[T any](seq iter.Seq[T], n int, fill T) iter.Seq[[]T] {
	if n < 1 {
		panic("stream: chunk size must be positive")
	}
	return func(yield func([]T) bool) {
		chunk := make([]T, 0, n)
		for item := range seq {
			chunk = append(chunk, item)
			if len(chunk) == n {
				if !yield(chunk) {
					return
				}
				chunk = make([]T, 0, n)
			}
		}
		if len(chunk) == 0 {
			return
		}
		for len(chunk) < n {
			chunk = append(chunk, fill)
		}
		yield(chunk)
	}
}

// Concat flattens a sequence of sequences
func Concat[T any](seqs iter.Seq[iter.Seq[T]]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for seq := range seqs {
			for item := range seq {
				if !yield(item) {
					return
				}
			}
		}
	}
}

// Chain yields the items of every sequence, one after the other
func Chain[T any](seqs ...iter.Seq[T]) iter.Seq[T] {
	return Concat(slices.Values(seqs))
}

// Partition splits items into those for which pred is false and those for which it is true.
//
// Both results iterate over seq independently: seq must be re-iterable.
func Partition[T any](seq iter.Seq[T], pred func(T) bool) (falses, trues iter.Seq[T]) {
	return Filter(seq, func(item T) bool { return !pred(item) }), Filter(seq, pred)
}

// DropWhile skips items as long as pred is true, then yields everything
func DropWhile[T any](seq iter.Seq[T], pred func(T) bool) iter.Seq[T] {
	return func(yield func(T) bool) {
		dropping := true
		for item := range seq {
			if dropping && pred(item) {
				continue
			}
			dropping = false
			if !yield(item) {
				return
			}
		}
	}
}

// TakeWhile yields items as long as pred is true
func TakeWhile[T any](seq iter.Seq[T], pred func(T) bool) iter.Seq[T] {
	return func(yield func(T) bool) {
		for item := range seq {
			if !pred(item) || !yield(item) {
				return
			}
		}
	}
}

// GroupBy groups consecutive items sharing the same key
func GroupBy[T any, K comparable](seq iter.Seq[T], key func(T) K) iter.Seq2[K, []T] {
	return func(yield func(K, []T) bool) {
		var (
			current K
			group   []T
		)
		for item := range seq {
			k := key(item)
			if len(group) > 0 && k != current {
				if !yield(current, group) {
					return
				}
				group = nil
			}
			current = k
			group = append(group, item)
		}
		if len(group) > 0 {
			yield(current, group)
		}
	}
}

// Slice yields the items with index in [start, stop) every step items.
// A negative stop means no upper bound.
func Slice[T any](seq iter.Seq[T], start, stop, step int) iter.Seq[T] {
	if start < 0 || step < 1 {
		panic("stream: invalid slice bounds")
	}
	return func(yield func(T) bool) {
		i := 0
		for item := range seq {
			if stop >= 0 && i >= stop {
				return
			}
			if i >= start && (i-start)%step == 0 && !yield(item) {
				return
			}
			i++
		}
	}
}

// First returns the first item, if any
func First[T any](seq iter.Seq[T]) (T, bool) {
	for item := range seq {
		return item, true
	}
	var zero T
	return zero, false
}

// Length counts the items
func Length[T any](seq iter.Seq[T]) int {
	n := 0
	for range seq {
		n++
	}
	return n
}

// Consume drops the first n items of seq and yields the remaining ones.
// A negative n consumes everything.
//
// Items are dropped when the returned sequence is iterated.
func Consume[T any](seq iter.Seq[T], n int) iter.Seq[T] {
	return func(yield func(T) bool) {
		skipped := 0
		for item := range seq {
			if n < 0 || skipped < n {
				skipped++
				continue
			}
			if !yield(item) {
				return
			}
		}
	}
}
