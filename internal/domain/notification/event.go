package notification

import (
	"fmt"

	"github.com/verbatim-inc/verbatim/internal/domain/translation"
)

// EventKind names something that happened in the translation service and
// may be worth telling subscribers about.
type EventKind string

const (
	EventTranslationChanged EventKind = "translation_changed"
	EventNewString          EventKind = "new_string"
	EventNewSuggestion      EventKind = "new_suggestion"
	EventNewContributor     EventKind = "new_contributor"
	EventNewComment         EventKind = "new_comment"
	EventMergeFailure       EventKind = "merge_failure"
)

func (k EventKind) IsValid() bool {
	switch k {
	case EventTranslationChanged, EventNewString, EventNewSuggestion,
		EventNewContributor, EventNewComment, EventMergeFailure:
		return true
	}
	return false
}

// Event is published by the translation service. Which payload fields are
// set depends on Kind. TriggerUserID is the acting user, 0 for anonymous
// actions.
type Event struct {
	ID            string                   `json:"id"`
	Kind          EventKind                `json:"kind"`
	Timestamp     int64                    `json:"timestamp"`
	TriggerUserID uint                     `json:"trigger_user_id,omitempty"`
	Unit          *translation.Unit        `json:"unit,omitempty"`
	OldUnit       *translation.Unit        `json:"old_unit,omitempty"`
	Translation   *translation.Translation `json:"translation,omitempty"`
	Suggestion    *translation.Suggestion  `json:"suggestion,omitempty"`
	Comment       *translation.Comment     `json:"comment,omitempty"`
	SubProject    *translation.SubProject  `json:"subproject,omitempty"`
	Error         string                   `json:"error,omitempty"`
	Status        string                   `json:"status,omitempty"`
}

// Validate checks that the payload required by Kind is present.
func (e *Event) Validate() error {
	if !e.Kind.IsValid() {
		return fmt.Errorf("unknown event kind %q", e.Kind)
	}

	switch e.Kind {
	case EventTranslationChanged:
		if e.Unit == nil || e.Unit.Translation == nil {
			return fmt.Errorf("%s event requires a unit with its translation", e.Kind)
		}
	case EventNewString:
		if e.Translation == nil {
			return fmt.Errorf("%s event requires a translation", e.Kind)
		}
	case EventNewSuggestion:
		if e.Translation == nil || e.Suggestion == nil || e.Unit == nil {
			return fmt.Errorf("%s event requires translation, suggestion and unit", e.Kind)
		}
	case EventNewContributor:
		if e.Translation == nil || e.TriggerUserID == 0 {
			return fmt.Errorf("%s event requires a translation and the contributor", e.Kind)
		}
	case EventNewComment:
		if e.Unit == nil || e.Unit.Translation == nil || e.Comment == nil {
			return fmt.Errorf("%s event requires a unit with its translation and a comment", e.Kind)
		}
	case EventMergeFailure:
		if e.SubProject == nil || e.SubProject.Project == nil {
			return fmt.Errorf("%s event requires a subproject with its project", e.Kind)
		}
	}
	return nil
}

// ProjectID returns the project the event belongs to, 0 when unknown.
func (e *Event) ProjectID() uint {
	var p *translation.Project
	switch {
	case e.SubProject != nil:
		p = e.SubProject.ACLProject()
	case e.Translation != nil:
		p = e.Translation.Project()
	case e.Unit != nil && e.Unit.Translation != nil:
		p = e.Unit.Translation.Project()
	}
	if p == nil {
		return 0
	}
	return p.ID
}
