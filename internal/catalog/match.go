/*
PURPOSE:
  Static, ordered catalogs that classify a model from its path:
  use case, model class and precision. Catalog order is part of the contract.

REQUIREMENTS:
  User-specified:
  - Classify by filename convention first, config.json second.
  - Rightmost path segment wins, then catalog order.

  Implementation-discovered:
  - All three lookups are "first match in an ordered list", so one generic
    scan helper serves them and the catalogs stay plain data.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine (Resolve), internal/cli (listings)
  - Uses: internal/model

ERROR HANDLING:
  - Only ClassifyUseCase fails (model.ErrClassification). Everything else
    always returns a value.

IMPLEMENTATION RULES:
  - Keep catalogs as package-level slices, never maps (maps lose order).
  - Return copies from listing helpers.

USAGE:
  uc, name, err := catalog.ClassifyUseCase(path)
  class := catalog.ResolveModelType(name, uc, model.FrameworkOV)
  prec := catalog.MatchPrecision(catalog.SplitPath(path))

SELF-HEALING INSTRUCTIONS:
  - A new model family usually only needs a prefix in useCases and a marker
    in ovModelClasses / ptModelClasses.

RELATED FILES:
  - internal/catalog/usecase.go
  - internal/catalog/modeltype.go
  - internal/catalog/precision.go

MAINTENANCE:
  - Update when new model families or quantization schemes appear.
*/

package catalog

import (
	"path/filepath"
	"strings"
)

// firstMatch returns the first item satisfying pred.
func firstMatch[T any](items []T, pred func(T) bool) (T, bool) {
	for _, it := range items {
		if pred(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// lastMatch is firstMatch scanning from the end.
func lastMatch[T any](items []T, pred func(T) bool) (T, bool) {
	for i := len(items) - 1; i >= 0; i-- {
		if pred(items[i]) {
			return items[i], true
		}
	}
	var zero T
	return zero, false
}

// SplitPath cleans p and splits it into its non-empty segments.
func SplitPath(p string) []string {
	clean := filepath.ToSlash(filepath.Clean(p))
	var segs []string
	for _, s := range strings.Split(clean, "/") {
		if s != "" && s != "." {
			segs = append(segs, s)
		}
	}
	return segs
}

// ConversionFrontend returns the segment right after the first segment equal
// to name, or "" when name is absent or is the last segment.
func ConversionFrontend(name string, segments []string) string {
	for i, s := range segments {
		if s == name {
			if i+1 < len(segments) {
				return segments[i+1]
			}
			return ""
		}
	}
	return ""
}
