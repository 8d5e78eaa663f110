package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
	controlCharPattern   = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)
)

// DecodeLenientJSON decodes hand-edited JSON documents such as vocabulary files.
// It tolerates:
// - a UTF-8 byte order mark
// - trailing commas before a closing brace or bracket
// - whole-line // comments
// - stray text around the top-level object
func DecodeLenientJSON(data []byte, target interface{}) error {
	input := string(data)
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("empty input")
	}

	// Try direct parsing first (most common case)
	if err := json.Unmarshal(data, target); err == nil {
		return nil
	}

	cleaned := cleanJSON(input)
	if err := json.Unmarshal([]byte(cleaned), target); err == nil {
		return nil
	}

	if start := strings.Index(cleaned, "{"); start >= 0 {
		if extracted := extractBalancedBraces(cleaned[start:], '{', '}'); extracted != "" {
			if err := json.Unmarshal([]byte(extracted), target); err == nil {
				return nil
			}
		}
	}

	// Report the decoder's own error on the cleaned text, it names the offset
	err := json.Unmarshal([]byte(cleaned), target)
	return fmt.Errorf("failed to parse JSON from input %q: %w", truncateString(input, 100), err)
}

// cleanJSON fixes the formatting slips people make when editing JSON by hand
func cleanJSON(input string) string {
	s := strings.TrimSpace(input)
	s = strings.TrimPrefix(s, "\ufeff")
	s = stripLineComments(s)
	s = trailingCommaPattern.ReplaceAllString(s, "$1")
	return controlCharPattern.ReplaceAllString(s, "")
}

// stripLineComments drops lines whose first non-blank characters are //
func stripLineComments(input string) string {
	lines := strings.Split(input, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// extractBalancedBraces extracts content with balanced braces
func extractBalancedBraces(input string, open, close rune) string {
	if len(input) == 0 {
		return ""
	}

	depth := 0
	inString := false
	escape := false
	start := 0

	for i, ch := range input {
		if escape {
			escape = false
			continue
		}

		if ch == '\\' {
			escape = true
			continue
		}

		if ch == '"' {
			inString = !inString
			continue
		}

		if inString {
			continue
		}

		if ch == open {
			if depth == 0 {
				start = i
			}
			depth++
		} else if ch == close {
			depth--
			if depth == 0 {
				return input[start : i+1]
			}
		}
	}

	return ""
}

// truncateString truncates a string to maxLen bytes
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// PrettyPrintJSON formats JSON with indentation
func PrettyPrintJSON(v interface{}) (string, error) {
	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
