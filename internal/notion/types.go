package notion

import (
	"fmt"
	"strings"
	"time"
)

// Block and rich text type names used in page payloads.
const (
	ObjectBlock        = "block"
	BlockTypeParagraph = "paragraph"
	RichTextTypeText   = "text"
)

// PageRequest is the body of a "create page" request.
type PageRequest struct {
	Parent     Parent              `json:"parent"`
	Properties map[string]Property `json:"properties"`
	Children   []Block             `json:"children,omitempty"`
}

// Parent identifies the database a page is created in.
type Parent struct {
	DatabaseID string `json:"database_id"`
}

// Property is a single page property value. Only one field is set per
// property, matching the property type in the database schema.
type Property struct {
	Title  []RichText `json:"title,omitempty"`
	Date   *DateValue `json:"date,omitempty"`
	Status *Option    `json:"status,omitempty"`
	Select *Option    `json:"select,omitempty"`
}

// DateValue is the value of a date property. Start is sent verbatim.
type DateValue struct {
	Start string `json:"start"`
}

// Option is the value of a status or select property.
type Option struct {
	Name string `json:"name"`
}

// RichText is a plain text run.
type RichText struct {
	Type string      `json:"type"`
	Text TextContent `json:"text"`
}

// TextContent holds the content of a text run.
type TextContent struct {
	Content string `json:"content"`
}

// Block is a unit of page body content. Only paragraph blocks are produced.
type Block struct {
	Object    string     `json:"object"`
	Type      string     `json:"type"`
	Paragraph *Paragraph `json:"paragraph,omitempty"`
}

// Paragraph is the payload of a paragraph block.
type Paragraph struct {
	RichText []RichText `json:"rich_text"`
}

// Text returns the concatenated plain text of the paragraph.
func (b Block) Text() string {
	if b.Paragraph == nil {
		return ""
	}
	var sb strings.Builder
	for _, rt := range b.Paragraph.RichText {
		sb.WriteString(rt.Text.Content)
	}
	return sb.String()
}

// Page is the subset of the Notion page object returned by the API that
// this package cares about.
type Page struct {
	Object         string    `json:"object"`
	ID             string    `json:"id"`
	CreatedTime    time.Time `json:"created_time"`
	LastEditedTime time.Time `json:"last_edited_time"`
	Archived       bool      `json:"archived"`
	URL            string    `json:"url"`
	PublicURL      *string   `json:"public_url"`
}

// APIError is the error body returned by the Notion API.
type APIError struct {
	Object  string `json:"object"`
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("notion API error (status %d, code %s)", e.Status, e.Code)
	}
	return e.Message
}

// ErrorCode returns the machine-readable error code, e.g. "validation_error".
func (e *APIError) ErrorCode() string {
	return e.Code
}
