package stt

import (
	"fmt"
	"sort"
	"strings"
)

// ModelInfo describes a Whisper model size and its resource footprint
type ModelInfo struct {
	Params       string `json:"params"`
	EnglishOnly  bool   `json:"english_only"`
	Multilingual bool   `json:"multilingual"`
	RequiredVRAM string `json:"required_vram"`
}

// modelSizes lists the Whisper model catalog with approximate memory
// requirements. The .en variants are smaller and faster for English.
var modelSizes = map[string]ModelInfo{
	"tiny":      {Params: "39M", EnglishOnly: false, Multilingual: true, RequiredVRAM: "~1 GB"},
	"base":      {Params: "74M", EnglishOnly: false, Multilingual: true, RequiredVRAM: "~1 GB"},
	"small":     {Params: "244M", EnglishOnly: false, Multilingual: true, RequiredVRAM: "~2 GB"},
	"medium":    {Params: "769M", EnglishOnly: false, Multilingual: true, RequiredVRAM: "~5 GB"},
	"large":     {Params: "1550M", EnglishOnly: false, Multilingual: true, RequiredVRAM: "~10 GB"},
	"tiny.en":   {Params: "39M", EnglishOnly: true, Multilingual: false, RequiredVRAM: "~1 GB"},
	"base.en":   {Params: "74M", EnglishOnly: true, Multilingual: false, RequiredVRAM: "~1 GB"},
	"small.en":  {Params: "244M", EnglishOnly: true, Multilingual: false, RequiredVRAM: "~2 GB"},
	"medium.en": {Params: "769M", EnglishOnly: true, Multilingual: false, RequiredVRAM: "~5 GB"},
}

// supportedLanguages maps ISO 639-1 codes to language names
var supportedLanguages = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"nl": "Dutch",
	"ru": "Russian",
	"zh": "Chinese",
	"ja": "Japanese",
	"ar": "Arabic",
	"hi": "Hindi",
	"ko": "Korean",
	"tr": "Turkish",
	"pl": "Polish",
	"ca": "Catalan",
	"cs": "Czech",
	"da": "Danish",
	"el": "Greek",
	"fi": "Finnish",
	"he": "Hebrew",
	"hu": "Hungarian",
	"id": "Indonesian",
	"no": "Norwegian",
	"ro": "Romanian",
	"sv": "Swedish",
	"th": "Thai",
	"uk": "Ukrainian",
	"vi": "Vietnamese",
}

// IsValidModel reports whether the model name is in the catalog
func IsValidModel(name string) bool {
	_, ok := modelSizes[name]
	return ok
}

// GetModelInfo returns catalog information for a model
func GetModelInfo(name string) (ModelInfo, error) {
	info, ok := modelSizes[name]
	if !ok {
		return ModelInfo{}, fmt.Errorf("model %q not found, available models: %s", name, strings.Join(AvailableModels(false), ", "))
	}
	return info, nil
}

// AvailableModels lists catalog model names in sorted order, optionally
// restricted to English-only variants
func AvailableModels(englishOnly bool) []string {
	names := make([]string, 0, len(modelSizes))
	for name, info := range modelSizes {
		if englishOnly && !info.EnglishOnly {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LanguageName resolves an ISO 639-1 code to its language name
func LanguageName(code string) (string, bool) {
	name, ok := supportedLanguages[strings.ToLower(code)]
	return name, ok
}

// NormalizeLanguageHint lowercases a client-supplied language hint and
// resolves auto-detection aliases to the empty code. It reports false
// for hints outside the supported set, leaving detection to the model.
func NormalizeLanguageHint(hint string) (string, bool) {
	code := strings.ToLower(strings.TrimSpace(hint))
	switch code {
	case "", "auto", "auto-detect", "none":
		return "", true
	}
	if _, ok := supportedLanguages[code]; ok {
		return code, true
	}
	return "", false
}
