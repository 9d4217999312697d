package ai

import (
	"strings"
	"testing"

	"staync_chat_server/internal/service/persona"
)

func TestBuildInstructionContainsPersonaVerbatim(t *testing.T) {
	advisor := persona.ById("ai-japan")
	instruction := BuildInstruction(advisor)

	if !strings.Contains(instruction, advisor.Persona) {
		t.Error("instruction should quote persona verbatim")
	}
	if !strings.Contains(instruction, "ENTIRE country of JP") {
		t.Error("instruction should bind territory to advisor country code")
	}
	if !strings.Contains(instruction, `Divide your response with "---"`) {
		t.Error("instruction should carry the bubble rule")
	}
	if !strings.Contains(instruction, "EXACT SAME LANGUAGE") {
		t.Error("instruction should carry the language rule")
	}
}

func TestBuildInstructionListsOtherAdvisorsOnly(t *testing.T) {
	advisor := persona.ById("ai-italy")
	instruction := BuildInstruction(advisor)

	for _, a := range persona.All() {
		if a.Id == advisor.Id {
			continue
		}
		want := a.CountryCode + " Expert: " + a.Name
		if !strings.Contains(instruction, want) {
			t.Errorf("instruction missing redirect entry for %s", a.Id)
		}
	}
	// 自己不能出现在转介列表里
	if strings.Contains(instruction, "IT Expert: "+advisor.Name) {
		t.Error("instruction should not list the advisor itself")
	}
}
