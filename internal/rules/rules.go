// Package rules holds the page replacement rules the user has configured.
package rules

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kpauljoseph/slidepress/pkg/utils"
)

var (
	ErrInvalidPage  = errors.New("please enter a valid page number")
	ErrMissingImage = errors.New("please choose an image first")
	ErrNoSuchRule   = errors.New("no rule at that position")
)

// Rule replaces the visible content of Page with Image.
type Rule struct {
	Page        int
	Image       []byte
	FileName    string
	Fingerprint string
}

// ConfirmFunc decides whether an existing rule for page may be overwritten.
type ConfirmFunc func(page int) bool

// Set keeps rules sorted by page with at most one rule per page.
// The zero value is an empty set.
type Set struct {
	rules []Rule
}

// Add inserts rule. When the page already has a rule, confirm is asked first;
// a nil confirm or a declined overwrite leaves the set untouched and reports false.
func (s *Set) Add(rule Rule, confirm ConfirmFunc) (bool, error) {
	if rule.Page < 1 {
		return false, fmt.Errorf("%w: %d", ErrInvalidPage, rule.Page)
	}
	if len(rule.Image) == 0 {
		return false, ErrMissingImage
	}
	if rule.Fingerprint == "" {
		rule.Fingerprint = utils.Fingerprint(rule.Image)
	}

	if i := s.indexOf(rule.Page); i >= 0 {
		if confirm == nil || !confirm(rule.Page) {
			return false, nil
		}
		s.rules = append(s.rules[:i], s.rules[i+1:]...)
	}

	s.rules = append(s.rules, rule)
	sort.SliceStable(s.rules, func(i, j int) bool {
		return s.rules[i].Page < s.rules[j].Page
	})
	return true, nil
}

// Remove deletes the rule at index, as listed by Rules.
func (s *Set) Remove(index int) error {
	if index < 0 || index >= len(s.rules) {
		return fmt.Errorf("%w: %d", ErrNoSuchRule, index)
	}
	s.rules = append(s.rules[:index], s.rules[index+1:]...)
	return nil
}

func (s *Set) Clear() {
	s.rules = nil
}

func (s *Set) Len() int {
	return len(s.rules)
}

// Rules returns a copy of the rules in ascending page order.
func (s *Set) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

func (s *Set) indexOf(page int) int {
	for i, r := range s.rules {
		if r.Page == page {
			return i
		}
	}
	return -1
}
