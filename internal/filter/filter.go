// Package filter narrows down lists of files by name, pattern, glob and size
package filter

import (
	"log/slog"
	"regexp"

	"github.com/docker/go-units"
	"github.com/gobwas/glob"
	"github.com/samber/lo"
)

// Filterable defines what an item must expose to be filtered
type Filterable interface {
	// GetName returns the base name of the file
	GetName() string
	// GetSize returns the size of the file in bytes
	GetSize() int64
}

// Options holds filtering configuration
type Options struct {
	Files    []string
	Patterns []string
	Globs    []string
	MinSize  string
	MaxSize  string
}

// Filter removes every item matched by one of the exclusion rules
func Filter[T Filterable](items []T, opts Options) []T {
	items = rejectByNames(items, opts.Files)
	items = rejectByPatterns(items, opts.Patterns)
	items = rejectByGlobs(items, opts.Globs)
	items = rejectBySize(items, opts.MinSize, opts.MaxSize)
	return items
}

func rejectByNames[T Filterable](items []T, names []string) []T {
	if len(names) == 0 {
		return items
	}
	return lo.Reject(items, func(item T, _ int) bool {
		return lo.Contains(names, item.GetName())
	})
}

func rejectByPatterns[T Filterable](items []T, patterns []string) []T {
	if len(patterns) == 0 {
		return items
	}

	var res []*regexp.Regexp
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			slog.Warn("skip invalid pattern", "pattern", pattern, "error", err)
			continue
		}
		res = append(res, re)
	}

	return lo.Reject(items, func(item T, _ int) bool {
		return lo.SomeBy(res, func(re *regexp.Regexp) bool {
			return re.MatchString(item.GetName())
		})
	})
}

func rejectByGlobs[T Filterable](items []T, globs []string) []T {
	if len(globs) == 0 {
		return items
	}

	var gs []glob.Glob
	for _, g := range globs {
		compiled, err := glob.Compile(g)
		if err != nil {
			slog.Warn("skip invalid glob", "glob", g, "error", err)
			continue
		}
		gs = append(gs, compiled)
	}

	return lo.Reject(items, func(item T, _ int) bool {
		return lo.SomeBy(gs, func(g glob.Glob) bool {
			return g.Match(item.GetName())
		})
	})
}

// rejectBySize keeps items whose size lies within [min, max); empty bounds are open
func rejectBySize[T Filterable](items []T, minSize, maxSize string) []T {
	lower, upper := int64(-1), int64(-1)
	if minSize != "" {
		if v, err := units.FromHumanSize(minSize); err == nil {
			lower = v
		}
	}
	if maxSize != "" {
		if v, err := units.FromHumanSize(maxSize); err == nil {
			upper = v
		}
	}
	if lower < 0 && upper < 0 {
		return items
	}

	return lo.Filter(items, func(item T, _ int) bool {
		size := item.GetSize()
		if lower >= 0 && size < lower {
			return false
		}
		if upper >= 0 && size >= upper {
			return false
		}
		return true
	})
}
