package model

import (
	"strings"
	"testing"
)

func TestSkillPatch_Validate(t *testing.T) {
	tests := []struct {
		name   string
		patch  SkillPatch
		create bool
		ok     bool
	}{
		{"create minimal", SkillPatch{SkillName: ptr("Go")}, true, true},
		{"create without name", SkillPatch{SkillCategory: ptr(SkillTechnical)}, true, false},
		{"create blank name", SkillPatch{SkillName: ptr("  ")}, true, false},
		{"update without name", SkillPatch{IsPrimary: ptr(true)}, false, true},
		{"update empty name", SkillPatch{SkillName: ptr("")}, false, false},
		{"name too long", SkillPatch{SkillName: ptr(strings.Repeat("g", MaxSkillNameLength+1))}, false, false},
		{"known category", SkillPatch{SkillCategory: ptr(SkillCertification)}, false, true},
		{"unknown category", SkillPatch{SkillCategory: ptr("hobby")}, false, false},
		{"known proficiency", SkillPatch{ProficiencyLevel: ptr(ProficiencyExpert)}, false, true},
		{"unknown proficiency", SkillPatch{ProficiencyLevel: ptr("guru")}, false, false},
		{"years at limit", SkillPatch{YearsExperience: ptr(99.9)}, false, true},
		{"years overflow", SkillPatch{YearsExperience: ptr(100.0)}, false, false},
		{"negative years", SkillPatch{YearsExperience: ptr(-0.5)}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason := tt.patch.Validate()
			if tt.create {
				reason = tt.patch.ValidateCreate()
			}
			if tt.ok && reason != "" {
				t.Errorf("unexpected rejection: %s", reason)
			}
			if !tt.ok && reason == "" {
				t.Error("expected rejection")
			}
		})
	}
}

func TestSkillPatch_Apply(t *testing.T) {
	s := &UserSkill{SkillName: "Go", IsPrimary: true, SkillCategory: ptr(SkillTechnical)}

	SkillPatch{
		ProficiencyLevel: ptr(ProficiencyAdvanced),
		YearsExperience:  ptr(4.5),
		IsPrimary:        ptr(false),
	}.Apply(s)

	if s.SkillName != "Go" || *s.SkillCategory != SkillTechnical {
		t.Errorf("absent fields changed: %+v", s)
	}
	if *s.ProficiencyLevel != ProficiencyAdvanced || *s.YearsExperience != 4.5 {
		t.Errorf("present fields not applied: %+v", s)
	}
	if s.IsPrimary {
		t.Error("explicit false must be applied")
	}
}
