package notion

import "strings"

// Default property names of the target databases.
const (
	DefaultTitleProperty = "이름"
	DefaultDateProperty  = "Date"
)

// Schema names the database properties written by the builders.
// An empty StatusProperty or PriorityProperty disables that property.
type Schema struct {
	TitleProperty    string
	DateProperty     string
	StatusProperty   string
	PriorityProperty string
}

// DefaultSchema returns the schema of the calendar and list databases the
// server was built against. Status and priority are not part of it.
func DefaultSchema() Schema {
	return Schema{
		TitleProperty: DefaultTitleProperty,
		DateProperty:  DefaultDateProperty,
	}
}

func (s Schema) titleProperty() string {
	if s.TitleProperty == "" {
		return DefaultTitleProperty
	}
	return s.TitleProperty
}

func (s Schema) dateProperty() string {
	if s.DateProperty == "" {
		return DefaultDateProperty
	}
	return s.DateProperty
}

// BuildCalendarPageRequest builds the request for a calendar event page.
// date is copied into the date property's start field without parsing.
func (s Schema) BuildCalendarPageRequest(databaseID, title, date, description string) *PageRequest {
	props := map[string]Property{
		s.titleProperty(): titleProperty(title),
		s.dateProperty():  {Date: &DateValue{Start: date}},
	}
	return newPageRequest(databaseID, props, description)
}

// BuildListPageRequest builds the request for a list item page.
// status and priority are only attached when the schema names a property for
// them; with DefaultSchema they are ignored.
func (s Schema) BuildListPageRequest(databaseID, title, status, priority, description string) *PageRequest {
	props := map[string]Property{
		s.titleProperty(): titleProperty(title),
	}
	if s.StatusProperty != "" && status != "" {
		props[s.StatusProperty] = Property{Status: &Option{Name: status}}
	}
	if s.PriorityProperty != "" && priority != "" {
		props[s.PriorityProperty] = Property{Select: &Option{Name: priority}}
	}
	return newPageRequest(databaseID, props, description)
}

// ParagraphBlocks splits text on newlines and returns one paragraph block per
// line, empty lines included. An empty text yields nil.
func ParagraphBlocks(text string) []Block {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	blocks := make([]Block, 0, len(lines))
	for _, line := range lines {
		blocks = append(blocks, Block{
			Object: ObjectBlock,
			Type:   BlockTypeParagraph,
			Paragraph: &Paragraph{
				RichText: []RichText{plainText(line)},
			},
		})
	}
	return blocks
}

func newPageRequest(databaseID string, props map[string]Property, description string) *PageRequest {
	return &PageRequest{
		Parent:     Parent{DatabaseID: databaseID},
		Properties: props,
		Children:   ParagraphBlocks(description),
	}
}

func titleProperty(title string) Property {
	return Property{Title: []RichText{plainText(title)}}
}

func plainText(content string) RichText {
	return RichText{
		Type: RichTextTypeText,
		Text: TextContent{Content: content},
	}
}
