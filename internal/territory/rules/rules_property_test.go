package rules

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"zenith/internal/territory/catalog"
	"zenith/internal/territory/models"
)

func pick(regions []models.Region, idx []int) []models.SelectedRegion {
	out := make([]models.SelectedRegion, 0, len(idx))
	for _, i := range idx {
		out = append(out, regions[i].Snapshot())
	}
	return out
}

func TestRuleProperties(t *testing.T) {
	c, err := catalog.Load()
	require.NoError(t, err)
	regions := c.All()
	indexes := gen.SliceOf(gen.IntRange(0, len(regions)-1))

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("valid iff lone sovereign xor capped non-sovereign", prop.ForAll(
		func(idx []int) bool {
			candidate := Dedupe(pick(regions, idx))
			sovereign := 0
			var area float64
			for _, r := range candidate {
				if r.Category == models.CategorySovereign {
					sovereign++
				}
				area += r.Area
			}
			loneSovereign := sovereign == 1 && len(candidate) == 1
			capped := sovereign == 0 && area <= models.AreaCapKm2
			return (Validate(candidate) == nil) == (loneSovereign != capped)
		},
		indexes,
	))

	properties.Property("price is the unrounded flat rate", prop.ForAll(
		func(idx []int) bool {
			q := Price(pick(regions, idx))
			return q.TotalPrice == (q.TotalArea/1_000_000)*0.4
		},
		indexes,
	))

	properties.Property("removing any member of a valid selection keeps it valid", prop.ForAll(
		func(idx []int) bool {
			candidate := Dedupe(pick(regions, idx))
			if Validate(candidate) != nil {
				return true
			}
			s := models.NewSelection(candidate...)
			for _, name := range s.Names() {
				if ValidateSelection(s.Without(name)) != nil {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(4, gen.IntRange(0, len(regions)-1)),
	))

	properties.TestingRun(t)
}
