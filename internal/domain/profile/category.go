package profile

// Category is one of the notification kinds a profile can opt into.
type Category string

const (
	CategoryAnyTranslation Category = "any_translation"
	CategoryNewString      Category = "new_string"
	CategoryNewSuggestion  Category = "new_suggestion"
	CategoryNewContributor Category = "new_contributor"
	CategoryNewComment     Category = "new_comment"
	CategoryMergeFailure   Category = "merge_failure"
)

// AllCategories returns the categories in display order.
func AllCategories() []Category {
	return []Category{
		CategoryAnyTranslation,
		CategoryNewString,
		CategoryNewSuggestion,
		CategoryNewContributor,
		CategoryNewComment,
		CategoryMergeFailure,
	}
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryAnyTranslation, CategoryNewString, CategoryNewSuggestion,
		CategoryNewContributor, CategoryNewComment, CategoryMergeFailure:
		return true
	default:
		return false
	}
}

func (c Category) String() string {
	return string(c)
}

// Flags holds the per-category opt-ins of a profile. All default to off.
type Flags struct {
	AnyTranslation bool
	NewString      bool
	NewSuggestion  bool
	NewContributor bool
	NewComment     bool
	MergeFailure   bool
}

// Has reports whether the flag for c is set.
func (f Flags) Has(c Category) bool {
	switch c {
	case CategoryAnyTranslation:
		return f.AnyTranslation
	case CategoryNewString:
		return f.NewString
	case CategoryNewSuggestion:
		return f.NewSuggestion
	case CategoryNewContributor:
		return f.NewContributor
	case CategoryNewComment:
		return f.NewComment
	case CategoryMergeFailure:
		return f.MergeFailure
	default:
		return false
	}
}

// With returns a copy of f with the flag for c set to on.
func (f Flags) With(c Category, on bool) Flags {
	switch c {
	case CategoryAnyTranslation:
		f.AnyTranslation = on
	case CategoryNewString:
		f.NewString = on
	case CategoryNewSuggestion:
		f.NewSuggestion = on
	case CategoryNewContributor:
		f.NewContributor = on
	case CategoryNewComment:
		f.NewComment = on
	case CategoryMergeFailure:
		f.MergeFailure = on
	}
	return f
}
