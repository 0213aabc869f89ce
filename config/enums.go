package config

// Specification of requested output type.
// ENUM(text, ansi, json, xhtml)
type OutputFmt int

// Ext returns file name extension for the output format.
func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtText, OutputFmtAnsi:
		return ".txt"
	case OutputFmtJson:
		return ".json"
	case OutputFmtXhtml:
		return ".xhtml"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}

// Styled reports whether format carries presentation from the theme.
func (o OutputFmt) Styled() bool {
	return o == OutputFmtAnsi || o == OutputFmtXhtml
}
