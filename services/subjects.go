package services

import "iscoolgpt/models"

// SubjectCatalog serves the subjects students can pick from
type SubjectCatalog struct {
	subjects []string
}

// NewSubjectCatalog returns a catalog of the given subjects, or of the
// default list when none are given
func NewSubjectCatalog(subjects ...string) *SubjectCatalog {
	if len(subjects) == 0 {
		subjects = models.DefaultSubjects
	}
	return &SubjectCatalog{subjects: append([]string(nil), subjects...)}
}

// List returns a copy of the catalog in display order
func (c *SubjectCatalog) List() []string {
	return append([]string(nil), c.subjects...)
}
