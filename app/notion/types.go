package notion

// Property value types returned by the Notion database query API. The union is
// closed: a property carries exactly one payload, selected by Type.

type PropertyType string

const (
	TypeTitle       PropertyType = "title"
	TypeRichText    PropertyType = "rich_text"
	TypeSelect      PropertyType = "select"
	TypeMultiSelect PropertyType = "multi_select"
	TypeCheckbox    PropertyType = "checkbox"
	TypeDate        PropertyType = "date"
	TypeURL         PropertyType = "url"
	TypeFiles       PropertyType = "files"
)

type RichTextSpan struct {
	PlainText string `json:"plain_text"`
	Href      string `json:"href,omitempty"`
}

type SelectOption struct {
	Name string `json:"name"`
}

type DateValue struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

type FileRef struct {
	URL string `json:"url"`
}

// File is one entry of a files property. Type is "file" for Notion-hosted
// uploads (signed, expiring URLs) or "external" for plain links.
type File struct {
	Type     string   `json:"type"`
	File     *FileRef `json:"file,omitempty"`
	External *FileRef `json:"external,omitempty"`
}

type Property struct {
	Type        PropertyType   `json:"type"`
	Title       []RichTextSpan `json:"title,omitempty"`
	RichText    []RichTextSpan `json:"rich_text,omitempty"`
	Select      *SelectOption  `json:"select,omitempty"`
	MultiSelect []SelectOption `json:"multi_select,omitempty"`
	Checkbox    bool           `json:"checkbox,omitempty"`
	Date        *DateValue     `json:"date,omitempty"`
	URL         string         `json:"url,omitempty"`
	Files       []File         `json:"files,omitempty"`
}

// Page is one database row. Properties are keyed by the user-chosen column
// name, which is why alias resolution exists downstream.
type Page struct {
	ID         string              `json:"id"`
	Properties map[string]Property `json:"properties"`
}

type QueryResponse struct {
	Results    []Page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}
