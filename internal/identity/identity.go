// Package identity decides whether two (organization, person) pairs refer
// to the same already-processed lead. The comparison is deliberately
// permissive: avoiding duplicate outreach matters more than completeness.
package identity

import "strings"

// Normalize lowercases and trims a name for comparison.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SameOrganization reports whether two organization names match after
// normalization.
func SameOrganization(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// SamePerson reports whether two person names match: exact, or one
// normalized name is a prefix of the other. The prefix rule lets a
// short-form name ("Juan Pablo") match the fuller stored form
// ("Juan Pablo Narchi"). Two different people sharing a name prefix at the
// same organization will collide; callers needing strict identity should
// compare Normalize(a) == Normalize(b) directly.
func SamePerson(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	return strings.HasPrefix(na, nb) || strings.HasPrefix(nb, na)
}

// IsDuplicate reports whether (orgB, nameB) would duplicate (orgA, nameA).
func IsDuplicate(orgA, nameA, orgB, nameB string) bool {
	return SameOrganization(orgA, orgB) && SamePerson(nameA, nameB)
}

// Identity is one recorded (organization, person) pair.
type Identity struct {
	Organization string
	FullName     string
}

// Known is the append-only set of identities already present in a store.
// It is loaded once per run and grown as new records are produced; it is
// the only cross-item state the pipeline carries.
type Known struct {
	items []Identity
}

func NewKnown(items []Identity) *Known {
	return &Known{items: items}
}

func (k *Known) Add(organization, fullName string) {
	k.items = append(k.items, Identity{Organization: organization, FullName: fullName})
}

// Contains reports whether the pair fuzzily matches any recorded identity.
func (k *Known) Contains(organization, fullName string) bool {
	for _, it := range k.items {
		if IsDuplicate(it.Organization, it.FullName, organization, fullName) {
			return true
		}
	}
	return false
}

// ContainsOrganization reports whether any recorded identity belongs to the
// organization, regardless of person. Organization-mode inputs carry no
// person name, so a processed organization is skipped wholesale.
func (k *Known) ContainsOrganization(organization string) bool {
	for _, it := range k.items {
		if SameOrganization(it.Organization, organization) {
			return true
		}
	}
	return false
}

func (k *Known) Len() int {
	return len(k.items)
}
