package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// section groups options under one TOML table. The root table has name "".
type section struct {
	name string
	opts []ConfigOption
}

// groupBySection splits dotted keys into TOML tables, keeping first-seen order.
func groupBySection(opts []ConfigOption) []section {
	out := []section{{name: ""}}
	index := map[string]int{"": 0}
	for _, o := range opts {
		name, key := "", o.Key
		if i := strings.IndexByte(o.Key, '.'); i >= 0 {
			name, key = o.Key[:i], o.Key[i+1:]
		}
		idx, ok := index[name]
		if !ok {
			idx = len(out)
			index[name] = idx
			out = append(out, section{name: name})
		}
		out[idx].opts = append(out[idx].opts, ConfigOption{Key: key, Default: o.Default, Comment: o.Comment})
	}
	return out
}

// RenderDefaultTOML renders a TOML config with defaults from GetConfigOptions.
func RenderDefaultTOML() string {
	var lines []string
	lines = append(lines, "# mdnote configuration (TOML)")
	for _, s := range groupBySection(GetConfigOptions()) {
		if len(s.opts) == 0 {
			continue
		}
		if s.name != "" {
			lines = append(lines, "["+s.name+"]")
		}
		for _, o := range s.opts {
			lines = appendOption(lines, o)
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

// UpdateTOML merges defaults into an existing TOML string and comments out
// unknown keys. Missing keys are added to their existing table when there
// is one, so the result never repeats a table header.
func UpdateTOML(existing string) (string, bool) {
	known := make(map[string]bool)
	for _, o := range GetConfigOptions() {
		known[o.Key] = true
	}

	seen := make(map[string]bool)
	sectionEnd := map[string]int{"": 0}
	out := make([]string, 0)
	changed := false
	current := ""
	for _, line := range strings.Split(existing, "\n") {
		trim := strings.TrimSpace(line)
		if isSectionHeader(trim) {
			current = strings.TrimSpace(trim[1 : len(trim)-1])
			out = append(out, line)
			sectionEnd[current] = len(out)
			continue
		}
		if key, ok := parseTOMLKey(trim); ok {
			full := joinKey(current, key)
			seen[full] = true
			if !known[full] {
				indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
				out = append(out, indent+"# OUTDATED: option removed from config schema", indent+"# "+trim)
				changed = true
				sectionEnd[current] = len(out)
				continue
			}
		}
		out = append(out, line)
		if trim != "" {
			sectionEnd[current] = len(out)
		}
	}

	var missing []ConfigOption
	for _, o := range GetConfigOptions() {
		if !seen[o.Key] {
			missing = append(missing, o)
		}
	}
	if len(missing) == 0 {
		return strings.Join(out, "\n"), changed
	}

	type insert struct {
		at    int
		lines []string
	}
	var inserts []insert
	var tail []string
	for _, s := range groupBySection(missing) {
		if len(s.opts) == 0 {
			continue
		}
		var block []string
		for _, o := range s.opts {
			block = appendOption(block, o)
		}
		if at, ok := sectionEnd[s.name]; ok {
			inserts = append(inserts, insert{at: at, lines: block})
			continue
		}
		tail = append(tail, "", "# Added by config update", "["+s.name+"]")
		tail = append(tail, block...)
	}
	// Apply from the bottom so earlier offsets stay valid.
	sort.Slice(inserts, func(i, j int) bool { return inserts[i].at < inserts[j].at })
	for i := len(inserts) - 1; i >= 0; i-- {
		in := inserts[i]
		rest := append([]string(nil), out[in.at:]...)
		out = append(append(out[:in.at], in.lines...), rest...)
	}
	out = append(out, tail...)
	return strings.Join(out, "\n"), true
}

func joinKey(section, key string) string {
	if section == "" {
		return key
	}
	return section + "." + key
}

func parseTOMLKey(trim string) (string, bool) {
	if trim == "" || strings.HasPrefix(trim, "#") {
		return "", false
	}
	idx := strings.Index(trim, "=")
	if idx <= 0 {
		return "", false
	}
	key := strings.TrimSpace(trim[:idx])
	if strings.HasPrefix(key, "[") || strings.HasPrefix(key, "\"") || strings.HasPrefix(key, "'") {
		return "", false
	}
	return key, true
}

func isSectionHeader(trim string) bool {
	return strings.HasPrefix(trim, "[") && strings.HasSuffix(trim, "]") && !strings.HasPrefix(trim, "[[")
}

func appendOption(lines []string, o ConfigOption) []string {
	if o.Comment != "" {
		lines = append(lines, "# "+o.Comment)
	}
	return append(lines, o.Key+" = "+formatTOMLValue(o.Default), "")
}

func formatTOMLValue(value any) string {
	switch v := value.(type) {
	case string:
		return strconv.Quote(v)
	case bool, int, int64:
		return fmt.Sprintf("%v", v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []string:
		parts := make([]string, 0, len(v))
		for _, s := range v {
			parts = append(parts, strconv.Quote(s))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return strconv.Quote(fmt.Sprint(value))
}
