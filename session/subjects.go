package session

import "iscoolgpt/models"

const (
	PlaceholderSubjectLabel = "Select a subject"
	LoadingSubjectsLabel    = "Loading subjects..."
)

// FallbackSubjects is used whenever the API cannot provide a catalog.
var FallbackSubjects = append([]string(nil), models.DefaultSubjects...)

// SubjectOptions builds the selector entries: the empty placeholder first,
// then one entry per subject in catalog order.
func SubjectOptions(subjects []string) []SubjectOption {
	options := make([]SubjectOption, 0, len(subjects)+1)
	options = append(options, SubjectOption{Value: "", Label: PlaceholderSubjectLabel})
	for _, subject := range subjects {
		options = append(options, SubjectOption{Value: subject, Label: subject})
	}
	return options
}

func loadingOptions() []SubjectOption {
	return []SubjectOption{{Value: "", Label: LoadingSubjectsLabel}}
}
