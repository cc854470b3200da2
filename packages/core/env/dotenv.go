package env

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
)

// LoadDotEnv parses a .env file and returns key-value pairs.
// Supports: KEY=value, export KEY=value, KEY="quoted value",
// KEY='single quoted', # comments
func LoadDotEnv(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open env file: %w", err)
	}
	defer file.Close()

	result := make(map[string]string)
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}

		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}

		result[key] = unquote(strings.TrimSpace(value))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading env file: %w", err)
	}

	return result, nil
}

func unquote(value string) string {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '"' || first == '\'') && first == last {
			return value[1 : len(value)-1]
		}
	}
	return value
}

// Environ merges vars over base, a list of KEY=value entries as returned by
// os.Environ. Keys from vars replace matching keys in base; new keys are
// appended in sorted order.
func Environ(base []string, vars map[string]string) []string {
	result := make([]string, 0, len(base)+len(vars))
	seen := make(map[string]bool, len(vars))

	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if v, ok := vars[key]; ok {
			result = append(result, key+"="+v)
			seen[key] = true
			continue
		}
		result = append(result, kv)
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		result = append(result, k+"="+vars[k])
	}

	return result
}

// FromFile returns the parent environment with the variables from a .env
// file merged in. An empty path returns os.Environ unchanged.
func FromFile(path string) ([]string, error) {
	if path == "" {
		return os.Environ(), nil
	}
	vars, err := LoadDotEnv(path)
	if err != nil {
		return nil, err
	}
	return Environ(os.Environ(), vars), nil
}
