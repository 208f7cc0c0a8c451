package utils

import (
	"encoding/json"

	"github.com/davidscottmills/goeditorjs"
)

var editorJSMarkdownEngine *goeditorjs.MarkdownEngine

func init() {
	editorJSMarkdownEngine = goeditorjs.NewMarkdownEngine()
	editorJSMarkdownEngine.RegisterBlockHandlers(
		&goeditorjs.HeaderHandler{},
		&goeditorjs.ParagraphHandler{},
		&goeditorjs.ListHandler{},
		&goeditorjs.CodeBoxHandler{},
		&goeditorjs.ImageHandler{},
	)
}

// ConvertEditorJSBlocksToMarkdown renders journal content written with editor.js.
func ConvertEditorJSBlocksToMarkdown(blocks json.RawMessage) (string, error) {
	return editorJSMarkdownEngine.GenerateMarkdown(string(blocks))
}
