package common

import (
	"context"
	"time"

	"github.com/teemow/notion-mcp/internal/instrumentation"
	"github.com/teemow/notion-mcp/internal/notion"
	"github.com/teemow/notion-mcp/internal/server"
)

// CreatePage sends req through the server's Notion client inside a
// notion.pages.create span and records the API call metrics.
func CreatePage(ctx context.Context, sc *server.ServerContext, req *notion.PageRequest) (*notion.Page, error) {
	ctx, span := instrumentation.StartNotionAPISpan(ctx, instrumentation.OperationCreatePage,
		instrumentation.NewSpanAttributeBuilder().WithDatabase(req.Parent.DatabaseID).Build()...)
	defer span.End()

	start := time.Now()
	page, err := sc.NotionClient().CreatePage(ctx, req)
	duration := time.Since(start)

	metrics := sc.Metrics()
	if err != nil {
		instrumentation.SetSpanError(span, err)
		metrics.RecordNotionAPIOperation(ctx, instrumentation.OperationCreatePage, instrumentation.StatusError, duration)
		metrics.RecordNotionAPIError(ctx, instrumentation.OperationCreatePage, err)
		return nil, err
	}
	if page == nil {
		page = &notion.Page{}
	}

	span.SetAttributes(instrumentation.NewSpanAttributeBuilder().WithPage(page.ID).Build()...)
	instrumentation.SetSpanSuccess(span)
	metrics.RecordNotionAPIOperation(ctx, instrumentation.OperationCreatePage, instrumentation.StatusSuccess, duration)
	return page, nil
}
