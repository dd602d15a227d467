package listenserver

import (
	"context"
	"errors"

	"github.com/anatolykoptev/go_listen/internal/engine"
	"github.com/anatolykoptev/go_listen/internal/engine/reading"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (t *tools) registerReadingAdd(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "reading_add",
		Description: "Save a text to the local reading list (SQLite). The text is split into sentences for sentence-by-sentence practice. Returns the entry with its id, word count, estimated reading time and sentences.",
	}, t.readingAdd)
}

func (t *tools) registerReadingList(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "reading_list",
		Description: "List saved reading entries, newest first, without their text. Optional query matches title or text. Use reading_sentences to open one.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, t.readingList)
}

func (t *tools) registerReadingSentences(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "reading_sentences",
		Description: "Get one reading entry by id with its full text and ordered sentences. Get ids from reading_list.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, t.readingSentences)
}

func (t *tools) registerReadingDelete(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "reading_delete",
		Description: "Delete a reading entry and its sentences by id.",
		Annotations: &mcp.ToolAnnotations{DestructiveHint: ptr(true)},
	}, t.readingDelete)
}

func ptr[T any](v T) *T { return &v }

func (t *tools) readingAdd(ctx context.Context, _ *mcp.CallToolRequest, input engine.ReadingAddInput) (*mcp.CallToolResult, *reading.Entry, error) {
	store, err := t.Reading()
	if err != nil {
		return nil, nil, err
	}
	e, err := store.Add(ctx, input.Title, input.Content)
	if err != nil {
		return nil, nil, err
	}
	return nil, e, nil
}

func (t *tools) readingList(ctx context.Context, _ *mcp.CallToolRequest, input engine.ReadingListInput) (*mcp.CallToolResult, *ReadingListOutput, error) {
	store, err := t.Reading()
	if err != nil {
		return nil, nil, err
	}
	entries, err := store.Search(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, nil, err
	}
	return nil, &ReadingListOutput{Count: len(entries), Entries: entries}, nil
}

func (t *tools) readingSentences(ctx context.Context, _ *mcp.CallToolRequest, input engine.ReadingIDInput) (*mcp.CallToolResult, *reading.Entry, error) {
	if input.ID <= 0 {
		return nil, nil, errors.New("id is required")
	}
	store, err := t.Reading()
	if err != nil {
		return nil, nil, err
	}
	e, err := store.Get(ctx, input.ID)
	if err != nil {
		return nil, nil, err
	}
	return nil, e, nil
}

func (t *tools) readingDelete(ctx context.Context, _ *mcp.CallToolRequest, input engine.ReadingIDInput) (*mcp.CallToolResult, *engine.ReadingDeleteOutput, error) {
	if input.ID <= 0 {
		return nil, nil, errors.New("id is required")
	}
	store, err := t.Reading()
	if err != nil {
		return nil, nil, err
	}
	if err := store.Delete(ctx, input.ID); err != nil {
		return nil, nil, err
	}
	return nil, &engine.ReadingDeleteOutput{ID: input.ID, Deleted: true}, nil
}
