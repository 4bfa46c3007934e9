/*
Copyright © 2026 Antoni MQ

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/AntoniMQ/winols-damos-translator/internal/translator"
)

// stdin is shared across prompts so buffered input is not lost between
// consecutive reads.
var stdin = bufio.NewReader(os.Stdin)

// buildService constructs the translation service from its CLI name.
func buildService(ctx context.Context, name, credentials string) (translator.Service, error) {
	switch name {
	case "google":
		return translator.NewGoogleService(ctx, credentials)
	case "mock":
		return translator.NewMockService(), nil
	default:
		return nil, fmt.Errorf("unknown service: %s", name)
	}
}

// resolveLanguage accepts a language code ("es", "pt-BR") or an English
// language name ("spanish", case-insensitive) and returns the code handed
// to the translation service. Partial names resolve when unambiguous;
// ambiguous input errors with the candidate codes.
func resolveLanguage(input string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return "", fmt.Errorf("empty language")
	}

	if tag, err := language.Parse(s); err == nil {
		if base, conf := tag.Base(); conf >= language.High {
			// A region the caller spelled out distinguishes variants
			// like zh-TW from zh-CN and pt-BR from pt-PT; keep it.
			if region, rconf := tag.Region(); rconf == language.Exact {
				return strings.ToLower(base.String() + "-" + region.String()), nil
			}
			return base.String(), nil
		}
	}

	namer := display.English.Languages()
	var matches []string
	for _, base := range display.Supported.BaseLanguages() {
		name := strings.ToLower(namer.Name(base))
		if name == s {
			return base.String(), nil
		}
		if strings.Contains(name, s) {
			matches = append(matches, base.String())
		}
	}

	if len(matches) == 1 {
		return matches[0], nil
	}
	if len(matches) > 1 {
		return "", fmt.Errorf("ambiguous language name, did you mean one of: %s", strings.Join(matches, ", "))
	}
	return "", fmt.Errorf("unrecognized language %q: use a 2-letter code (e.g. 'en', 'es') or an English name (e.g. 'spanish')", input)
}

// outputPath derives the translated file path next to the input:
// <base>.translated_<dest><ext>. Inputs without an extension get .a2l.
func outputPath(inputPath, destCode string) string {
	ext := filepath.Ext(inputPath)
	if ext == "" {
		ext = ".a2l"
	}
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	return fmt.Sprintf("%s.translated_%s%s", base, destCode, ext)
}

// cachePathFor derives the cache file path next to the input:
// <base>.cache_<dest>.json.
func cachePathFor(inputPath, destCode string) string {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	return fmt.Sprintf("%s.cache_%s.json", base, destCode)
}

// cleanPath strips whitespace and surrounding quotes from a pasted path
// and expands a leading ~.
func cleanPath(raw string) string {
	p := strings.TrimSpace(raw)
	p = strings.Trim(p, `"'`)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

// promptLine reads one trimmed line from stdin.
func promptLine() (string, error) {
	line, err := stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
