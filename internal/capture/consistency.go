package capture

import (
	"slices"
)

// CheckConsistency verifies every export describes the same conversation
// as the first one. Title, participant count and sorted participant names
// are compared in that order; the first difference is returned as a
// *ConversationMismatchError.
func CheckConsistency(exports []RawExport) error {
	if len(exports) <= 1 {
		return nil
	}

	first := exports[0].Record
	firstNames := sortedNames(first.ParticipantNames())

	for _, export := range exports[1:] {
		current := export.Record

		if current.Title != first.Title {
			return &ConversationMismatchError{
				Reason:   ReasonTitleMismatch,
				File:     export.Name,
				Expected: first.Title,
				Found:    current.Title,
			}
		}

		names := sortedNames(current.ParticipantNames())
		if len(names) != len(firstNames) {
			return &ConversationMismatchError{
				Reason:        ReasonParticipantCountMismatch,
				File:          export.Name,
				ExpectedCount: len(firstNames),
				FoundCount:    len(names),
			}
		}

		if !slices.Equal(names, firstNames) {
			return &ConversationMismatchError{
				Reason:        ReasonParticipantNameMismatch,
				File:          export.Name,
				ExpectedNames: firstNames,
				FoundNames:    names,
			}
		}
	}

	return nil
}

func sortedNames(names []string) []string {
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	return sorted
}
