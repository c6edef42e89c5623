package evaluation

// Labels are the words used when answers are rendered as text.
type Labels struct {
	NotAnswered  string
	NotAvailable string
	True         string
	False        string
	Option       string
	Options      string
}

var (
	englishLabels = Labels{
		NotAnswered:  "Not answered",
		NotAvailable: "N/A",
		True:         "True",
		False:        "False",
		Option:       "Option",
		Options:      "Options",
	}
	frenchLabels = Labels{
		NotAnswered:  "Non répondu",
		NotAvailable: "N/A",
		True:         "Vrai",
		False:        "Faux",
		Option:       "Option",
		Options:      "Options",
	}
)

// LabelsFor returns the labels of locale ("en" or "fr"). Unknown locales get English.
func LabelsFor(locale string) Labels {
	switch locale {
	case "fr", "fr_FR", "fr-FR":
		return frenchLabels
	default:
		return englishLabels
	}
}

func (l Labels) boolText(b bool) string {
	if b {
		return l.True
	}
	return l.False
}
