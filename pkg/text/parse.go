package text

import (
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/hekit/pkg/status"
)

// 🔍 ParseReplace parses the user-facing replace syntax:
//
//	/pattern/replacement/   regex, replace all matches (trailing '/' optional)
//	old=new                 literal, replace all occurrences
//	anything else           delete every occurrence (ModeDeleteLiteral)
func ParseReplace(s string) (*ReplacementRule, error) {
	if s == "" {
		return nil, errors.Errorf("empty replace rule: %w", status.ErrUserInput)
	}

	if strings.HasPrefix(s, "/") {
		parts := strings.SplitN(s[1:], "/", 2)
		if len(parts) != 2 {
			return nil, errors.Errorf("replace rule %q: expected /pattern/replacement/: %w", s, status.ErrUserInput)
		}
		return NewRegexRule(parts[0], strings.TrimSuffix(parts[1], "/"))
	}

	if from, to, ok := strings.Cut(s, "="); ok {
		if from == "" {
			return nil, errors.Errorf("replace rule %q: nothing to replace: %w", s, status.ErrUserInput)
		}
		return &ReplacementRule{Mode: ModeLiteral, FromText: from, ToText: to}, nil
	}

	return &ReplacementRule{Mode: ModeDeleteLiteral, FromText: s}, nil
}

// NewRegexRule compiles pattern into a regex replacement rule
func NewRegexRule(pattern, replacement string) (*ReplacementRule, error) {
	if pattern == "" {
		return nil, errors.Errorf("empty regex: %w", status.ErrUserInput)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Errorf("compiling regex %q: %v: %w", pattern, err, status.ErrUserInput)
	}
	return &ReplacementRule{Mode: ModeRegex, FromText: pattern, ToText: replacement, re: re}, nil
}

// Validate checks the rule and compiles the expression of regex rules built
// as struct literals.
func (r *ReplacementRule) Validate() error {
	if r.FromText == "" {
		return errors.Errorf("from_text is required: %w", status.ErrUserInput)
	}
	switch r.Mode {
	case ModeLiteral:
	case ModeDeleteLiteral:
		if r.ToText != "" {
			return errors.Errorf("delete rule %q has replacement text: %w", r.FromText, status.ErrUserInput)
		}
	case ModeRegex:
		if r.re == nil {
			compiled, err := NewRegexRule(r.FromText, r.ToText)
			if err != nil {
				return err
			}
			r.re = compiled.re
		}
	default:
		return errors.Errorf("unknown replace mode %d: %w", r.Mode, status.ErrUserInput)
	}
	return nil
}

// Apply runs the rule against s and returns the result and the number of
// replacements made.
func (r *ReplacementRule) Apply(s string) (string, int) {
	if r.FromText == "" {
		return s, 0
	}
	switch r.Mode {
	case ModeRegex:
		re := r.re
		if re == nil {
			var err error
			if re, err = regexp.Compile(r.FromText); err != nil {
				return s, 0
			}
		}
		n := len(re.FindAllStringIndex(s, -1))
		if n == 0 {
			return s, 0
		}
		return re.ReplaceAllString(s, r.ToText), n
	case ModeDeleteLiteral:
		n := strings.Count(s, r.FromText)
		return strings.ReplaceAll(s, r.FromText, ""), n
	default:
		n := strings.Count(s, r.FromText)
		return strings.ReplaceAll(s, r.FromText, r.ToText), n
	}
}

// String renders the rule back in the syntax ParseReplace accepts
func (r *ReplacementRule) String() string {
	switch r.Mode {
	case ModeRegex:
		return "/" + r.FromText + "/" + r.ToText + "/"
	case ModeDeleteLiteral:
		return r.FromText
	default:
		return r.FromText + "=" + r.ToText
	}
}
