package noemdash

// ReplacementOption is one suggested substitute for an em-dash.
type ReplacementOption struct {
	// Name is the stable key used in fix ids and on the command line.
	Name        string
	Description string
	Replacement string
}

// Label is how the replacement appears in a suggestion title.
func (o ReplacementOption) Label() string {
	if o.Replacement == "" {
		return "(empty)"
	}
	return o.Replacement
}

var replacementOptions = [...]ReplacementOption{
	{Name: "hyphen", Description: "Replace with hyphen (-)", Replacement: "-"},
	{Name: "double-hyphen", Description: "Replace with double hyphen (--)", Replacement: "--"},
	{Name: "triple-hyphen", Description: "Replace with triple hyphen (---)", Replacement: "---"},
	{Name: "spaced-hyphen", Description: "Replace with spaced hyphen ( - )", Replacement: " - "},
	{Name: "remove", Description: "Remove em-dash entirely", Replacement: ""},
}

// Options returns the replacement options in suggestion order. The slice is
// a fresh copy on every call.
func Options() []ReplacementOption {
	opts := replacementOptions
	return opts[:]
}

// Option looks up a replacement option by name.
func Option(name string) (ReplacementOption, bool) {
	for _, o := range replacementOptions {
		if o.Name == name {
			return o, true
		}
	}
	return ReplacementOption{}, false
}
