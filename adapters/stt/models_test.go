package stt

import (
	"strings"
	"testing"
)

func TestIsValidModel(t *testing.T) {
	for _, name := range []string{"tiny", "base", "small", "medium", "large", "tiny.en", "base.en", "small.en", "medium.en"} {
		if !IsValidModel(name) {
			t.Errorf("Expected %q to be a valid model", name)
		}
	}

	if IsValidModel("large.en") {
		t.Error("Expected large.en to be invalid, there is no English-only large model")
	}

	if IsValidModel("huge") {
		t.Error("Expected huge to be invalid")
	}
}

func TestGetModelInfo(t *testing.T) {
	info, err := GetModelInfo("base")
	if err != nil {
		t.Fatalf("Failed to get model info: %v", err)
	}

	if info.Params != "74M" {
		t.Errorf("Expected params 74M, got %s", info.Params)
	}

	if info.EnglishOnly {
		t.Error("Expected base to be multilingual")
	}

	_, err = GetModelInfo("huge")
	if err == nil {
		t.Error("Expected error for unknown model")
	}

	if err != nil && !strings.Contains(err.Error(), "available models") {
		t.Errorf("Expected error to list available models, got %v", err)
	}
}

func TestAvailableModels(t *testing.T) {
	all := AvailableModels(false)
	if len(all) != 9 {
		t.Errorf("Expected 9 models, got %d", len(all))
	}

	for i := 1; i < len(all); i++ {
		if all[i-1] >= all[i] {
			t.Errorf("Expected sorted model names, got %v", all)
			break
		}
	}

	english := AvailableModels(true)
	if len(english) != 4 {
		t.Errorf("Expected 4 English-only models, got %d", len(english))
	}

	for _, name := range english {
		if !strings.HasSuffix(name, ".en") {
			t.Errorf("Expected English-only model, got %q", name)
		}
	}
}

func TestLanguageName(t *testing.T) {
	name, ok := LanguageName("es")
	if !ok || name != "Spanish" {
		t.Errorf("Expected Spanish, got %q (ok=%v)", name, ok)
	}

	if _, ok := LanguageName("EN"); !ok {
		t.Error("Expected language lookup to be case-insensitive")
	}

	if _, ok := LanguageName("xx"); ok {
		t.Error("Expected xx to be unsupported")
	}
}

func TestNormalizeLanguageHint(t *testing.T) {
	tests := []struct {
		hint      string
		wantCode  string
		wantKnown bool
	}{
		{"", "", true},
		{"auto", "", true},
		{"AUTO", "", true},
		{"Auto-Detect", "", true},
		{"none", "", true},
		{"es", "es", true},
		{" ES ", "es", true},
		{"ja", "ja", true},
		{"klingon", "", false},
		{"es-ES", "", false},
	}

	for _, tt := range tests {
		code, known := NormalizeLanguageHint(tt.hint)
		if code != tt.wantCode || known != tt.wantKnown {
			t.Errorf("NormalizeLanguageHint(%q): expected (%q, %v), got (%q, %v)",
				tt.hint, tt.wantCode, tt.wantKnown, code, known)
		}
	}
}
