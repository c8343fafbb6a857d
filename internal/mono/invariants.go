package mono

import (
	"fmt"

	"bindgen/internal/ir"
	"bindgen/internal/registry"
)

// validateNoGenerics checks the post-conditions of Monomorphize: no generic
// declaration is left and no reference carries type arguments naming a
// declared type.
func validateNoGenerics(set *registry.DeclSet) error {
	for _, it := range set.Types.Items() {
		if it.IsGeneric() {
			return fmt.Errorf("mono: %w: generic %s %s survived", ErrUnresolvedMonomorph, it.Kind, it.Name)
		}
	}
	var bad string
	check := func(t *ir.Type) {
		if bad == "" && t.Kind == ir.TypePath && t.Path.IsGeneric() && set.Types.Contains(t.Path.Name) {
			bad = t.Path.String()
		}
	}
	for _, m := range set.Maps() {
		for _, it := range m.Items() {
			it.VisitTypes(check)
		}
	}
	for _, fn := range set.Functions {
		fn.ForEachType(func(t *ir.Type) { t.Visit(check) })
	}
	if bad != "" {
		return fmt.Errorf("mono: %w: %s still references a generic declaration", ErrUnresolvedMonomorph, bad)
	}
	return nil
}
