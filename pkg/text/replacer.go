package text

import (
	"regexp"
)

// Mode selects how a ReplacementRule interprets FromText
type Mode int

const (
	// ModeLiteral replaces every occurrence of FromText with ToText ("old=new")
	ModeLiteral Mode = iota

	// ModeRegex replaces every match of the FromText expression ("/re/rep/").
	// ToText may reference groups as $1 or ${name}.
	ModeRegex

	// ModeDeleteLiteral removes every occurrence of FromText. It is what a
	// replace string with neither '=' nor '/re/rep/' delimiters has always
	// meant; kept for compatibility with existing scripts.
	ModeDeleteLiteral
)

// String returns a string representation of Mode
func (m Mode) String() string {
	switch m {
	case ModeLiteral:
		return "literal"
	case ModeRegex:
		return "regex"
	case ModeDeleteLiteral:
		return "delete_literal"
	default:
		return "unknown"
	}
}

// ReplacementRule defines a single text replacement operation
type ReplacementRule struct {
	// Mode selects literal, regex or delete semantics
	Mode Mode

	// FromText is the text (or expression) to replace
	FromText string

	// ToText is the replacement text, always empty for ModeDeleteLiteral
	ToText string

	re *regexp.Regexp
}
