package errors

// Diagnostic codes for language definition files.
//
// Code ranges:
// E0100-E0199: Definition errors
// W0100-W0199: Definition warnings

const (
	// E0100: The file does not parse
	ErrorSyntax = "E0100"

	// E0101: Two languages share a name
	ErrorDuplicateLanguage = "E0101"

	// E0102: block_comment needs a start and an end marker
	ErrorInvalidBlockComment = "E0102"

	// E0103: strings accepts only ", ' and `
	ErrorInvalidDelimiter = "E0103"

	// E0104: keywords names a category that does not exist
	ErrorUnknownCategory = "E0104"

	// E0105: A property value is empty or missing
	ErrorEmptyValue = "E0105"

	// E0106: The same keyword is listed twice
	ErrorDuplicateKeyword = "E0106"

	// E0107: The property name is not known
	ErrorUnknownProperty = "E0107"
)

const (
	// W0101: An extension is already claimed by another language
	WarningDuplicateExtension = "W0101"

	// W0102: A property is set more than once; the last one wins
	WarningRepeatedProperty = "W0102"
)

// Description returns a short explanation of a code
func Description(code string) string {
	switch code {
	case ErrorSyntax:
		return "syntax error in language definition"
	case ErrorDuplicateLanguage:
		return "language defined more than once"
	case ErrorInvalidBlockComment:
		return "block comment needs start and end markers"
	case ErrorInvalidDelimiter:
		return "invalid string delimiter"
	case ErrorUnknownCategory:
		return "unknown keyword category"
	case ErrorEmptyValue:
		return "empty property value"
	case ErrorDuplicateKeyword:
		return "keyword listed more than once"
	case ErrorUnknownProperty:
		return "unknown property"
	case WarningDuplicateExtension:
		return "file extension claimed by several languages"
	case WarningRepeatedProperty:
		return "property set more than once"
	}
	return "unknown diagnostic code"
}
