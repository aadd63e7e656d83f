package schema

// TabIndex identifies a live tab in the OCR application. It is assigned by
// the application and becomes invalid as soon as the tab is closed.
type TabIndex uint16

// DocumentPath is a forward-slash normalized path to an input document.
type DocumentPath string

// OutputPath is the derived path the OCR application writes results to.
type OutputPath string

// Default naming conventions shared with the OCR application.
const (
	DefaultTabName         = "BatchDOC"
	DefaultPageType        = "3"
	DefaultOutputSuffix    = ".layered"
	DefaultOutputExtension = ".pdf"
)

// QML functions exposed by the batch document tab.
const (
	FuncAddDocs  = "addDocs"
	FuncDocStart = "docStart"
)
