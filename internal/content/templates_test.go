package content

import (
	"testing"

	"github.com/lmedrano/pulso/internal/domain/game"
	"github.com/lmedrano/pulso/internal/domain/pulse"
)

// probe resolves an effect or trigger field name against a throwaway state
// so catalog typos surface here instead of as runtime warnings.
func probe(field string) bool {
	_, ok := pulse.Value(&pulse.GlobalPulse{}, &pulse.CityPulse{}, &pulse.NeighborhoodPulse{}, &pulse.FamilyImpact{}, field)
	return ok
}

func allTemplates(set TemplateSet) []game.EventTemplate {
	out := append([]game.EventTemplate{}, set.Global...)
	out = append(out, set.City...)
	return append(out, set.Neighborhood...)
}

func TestDefaultTemplatesCatalogIntegrity(t *testing.T) {
	set := DefaultTemplates()
	seen := map[string]bool{}

	for _, tpl := range allTemplates(set) {
		if tpl.ID == "" {
			t.Fatal("template with empty id")
		}
		if seen[tpl.ID] {
			t.Errorf("duplicate template id %s", tpl.ID)
		}
		seen[tpl.ID] = true

		if tpl.Mode != game.EffectInstant && tpl.Mode != game.EffectPerTurn {
			t.Errorf("%s: unknown mode %q", tpl.ID, tpl.Mode)
		}
		if tpl.Mode == game.EffectPerTurn && tpl.Duration < 1 {
			t.Errorf("%s: per-turn template needs a duration", tpl.ID)
		}

		for field := range tpl.Effects {
			if !probe(field) {
				t.Errorf("%s: unknown effect field %q", tpl.ID, field)
			}
		}
		for _, cond := range tpl.Trigger.All {
			if !probe(cond.Field) {
				t.Errorf("%s: unknown trigger field %q", tpl.ID, cond.Field)
			}
			if cond.Op != game.OpAtLeast && cond.Op != game.OpAtMost {
				t.Errorf("%s: unknown trigger op %q", tpl.ID, cond.Op)
			}
		}
	}
}

func TestDefaultTemplatesScopesMatchPools(t *testing.T) {
	set := DefaultTemplates()
	check := func(pool []game.EventTemplate, scope game.Scope) {
		for _, tpl := range pool {
			if tpl.Scope != scope {
				t.Errorf("%s: scope %q in %q pool", tpl.ID, tpl.Scope, scope)
			}
		}
	}
	check(set.Global, game.ScopeGlobal)
	check(set.City, game.ScopeCity)
	check(set.Neighborhood, game.ScopeNeighborhood)
}

func TestDefaultTemplatesDecisionsAreWellFormed(t *testing.T) {
	for _, tpl := range allTemplates(DefaultTemplates()) {
		d := tpl.Decision
		if d == nil {
			continue
		}
		if d.ID == "" || len(d.Choices) == 0 {
			t.Errorf("%s: decision missing id or choices", tpl.ID)
			continue
		}
		choiceIDs := map[string]bool{}
		for _, ch := range d.Choices {
			if ch.ID == "" {
				t.Errorf("%s/%s: choice with empty id", tpl.ID, d.ID)
			}
			if choiceIDs[ch.ID] {
				t.Errorf("%s/%s: duplicate choice id %s", tpl.ID, d.ID, ch.ID)
			}
			choiceIDs[ch.ID] = true
			for field := range ch.Effects {
				if !probe(field) {
					t.Errorf("%s/%s/%s: unknown effect field %q", tpl.ID, d.ID, ch.ID, field)
				}
			}
		}
	}
}

func TestDefaultCitiesHaveNeighborhoods(t *testing.T) {
	cities := DefaultCities()
	if len(cities) == 0 {
		t.Fatal("no built-in cities")
	}
	seen := map[string]bool{}
	for _, c := range cities {
		if c.ID == "" || seen[c.ID] {
			t.Errorf("bad or duplicate city id %q", c.ID)
		}
		seen[c.ID] = true
		if len(c.Neighborhoods) == 0 {
			t.Errorf("%s: city without neighborhoods", c.ID)
			continue
		}
		st := c.ToState()
		if st.CurrentNeighborhood() == nil {
			t.Errorf("%s: ToState produced no current neighborhood", c.ID)
		}
	}
}
