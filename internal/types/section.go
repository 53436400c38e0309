package types

import "fmt"

// Section names one of the four repeated lists of a CV
type Section string

// Section constants use the JSON names of the lists
const (
	SectionExperience  Section = "experience"
	SectionEducation   Section = "education"
	SectionAwards      Section = "awards"
	SectionMemberships Section = "memberships"
)

// Sections lists every section in display order
var Sections = []Section{SectionExperience, SectionEducation, SectionAwards, SectionMemberships}

// ParseSection converts a raw name into a Section.
func ParseSection(raw string) (Section, error) {
	for _, s := range Sections {
		if string(s) == raw {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown section %q", raw)
}

// IDs returns the item ids of a section in list order.
func (cv CVData) IDs(section Section) []string {
	var ids []string
	switch section {
	case SectionExperience:
		for _, e := range cv.Experience {
			ids = append(ids, e.ID)
		}
	case SectionEducation:
		for _, e := range cv.Education {
			ids = append(ids, e.ID)
		}
	case SectionAwards:
		for _, a := range cv.Awards {
			ids = append(ids, a.ID)
		}
	case SectionMemberships:
		for _, m := range cv.Memberships {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// ItemID returns the stable id of the entry
func (e Experience) ItemID() string { return e.ID }

// ItemID returns the stable id of the entry
func (e Education) ItemID() string { return e.ID }

// ItemID returns the stable id of the entry
func (a Award) ItemID() string { return a.ID }

// ItemID returns the stable id of the entry
func (m Membership) ItemID() string { return m.ID }
