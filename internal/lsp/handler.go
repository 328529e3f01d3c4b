package lsp

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

var logger = commonlog.GetLogger("llvmopt.lsp")

// Define the set of supported semantic token types (as required by the LSP spec)
var SemanticTokenTypes = []string{
	"function",
	"variable",
	"parameter",
}

// Define the set of supported semantic token modifiers (for extra tagging like declaration)
var SemanticTokenModifiers = []string{
	"declaration",
}

// IRHandler implements the LSP server handlers for textual LLVM IR
type IRHandler struct {
	mu   sync.RWMutex
	docs map[protocol.DocumentUri]*document
}

// NewIRHandler creates and returns a new IRHandler instance
func NewIRHandler() *IRHandler {
	return &IRHandler{
		docs: make(map[protocol.DocumentUri]*document),
	}
}

// Initialize responds to the LSP client's initialize request and advertises the server's capabilities
func (h *IRHandler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Println("LSP Initialize called")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true), // notify on open/close events
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			HoverProvider: ptrBool(true),
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true), // support full-document semantic token requests
			},
		},
	}, nil
}

// Initialized is called after the client receives the server's capabilities and completes initialization
func (h *IRHandler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Println("LLVM IR LSP Initialized")
	return nil
}

// Shutdown handles the LSP shutdown request
func (h *IRHandler) Shutdown(ctx *glsp.Context) error {
	log.Println("LLVM IR LSP Shutdown")
	return nil
}

// SetTrace handles the client's $/setTrace notification
func (h *IRHandler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// TextDocumentDidOpen handles file open notifications from the editor
func (h *IRHandler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Printf("Opened file: %s\n", params.TextDocument.URI)

	return h.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
}

// TextDocumentDidClose handles file close notifications from the editor
func (h *IRHandler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Printf("Closed file: %s\n", params.TextDocument.URI)

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.docs, params.TextDocument.URI)

	return nil
}

// TextDocumentDidChange handles file change notifications from the editor.
// The server asks for full text sync, so the last change holds the whole
// document.
func (h *IRHandler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	log.Printf("Changed file: %s\n", params.TextDocument.URI)

	if len(params.ContentChanges) == 0 {
		return nil
	}

	var text string
	switch change := params.ContentChanges[len(params.ContentChanges)-1].(type) {
	case protocol.TextDocumentContentChangeEventWhole:
		text = change.Text
	case protocol.TextDocumentContentChangeEvent:
		text = change.Text
	default:
		return fmt.Errorf("unexpected content change %T", change)
	}

	return h.update(ctx, params.TextDocument.URI, text)
}

// TextDocumentHover shows the argument index of the %name under the cursor
// within its function.
func (h *IRHandler) TextDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := h.document(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}

	line := int(params.Position.Line)
	if line >= len(doc.Lines) {
		return nil, nil
	}

	start, end, ok := localNameAt(doc.Lines[line], int(params.Position.Character))
	if !ok {
		return nil, nil
	}

	f := doc.functionAt(line)
	if f == nil {
		return nil, nil
	}

	ref := doc.Lines[line][start:end]
	name := strings.Trim(ref[1:], `"`)

	var value string
	if index, ok := f.Params[name]; ok {
		value = fmt.Sprintf("`%s` is argument **%d** of `@%s`", ref, index, f.Name)
	} else {
		value = fmt.Sprintf("`%s` is not an argument of `@%s`", ref, f.Name)
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: value,
		},
		Range: &protocol.Range{
			Start: protocol.Position{Line: uint32(line), Character: uint32(start)},
			End:   protocol.Position{Line: uint32(line), Character: uint32(end)},
		},
	}, nil
}

// TextDocumentSemanticTokensFull handles semantic token requests for the entire document
func (h *IRHandler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	log.Println("TextDocumentSemanticTokensFull called for:", params.TextDocument.URI)

	tokens := collectSemanticTokens(h.document(params.TextDocument.URI))

	return &protocol.SemanticTokens{
		Data: encodeSemanticTokens(tokens),
	}, nil
}

func (h *IRHandler) document(uri protocol.DocumentUri) *document {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.docs[uri]
}

// update analyzes the new text of uri, caches it and publishes its
// diagnostics. Diagnostics are always published so that fixed errors clear.
func (h *IRHandler) update(ctx *glsp.Context, uri protocol.DocumentUri, text string) error {
	path, err := uriToPath(uri)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", uri, err)
	}

	doc, diagnostics := analyze(uri, path, text)
	logger.Debugf("%s: %d function(s), %d diagnostic(s)", path, len(doc.Functions), len(diagnostics))

	h.mu.Lock()
	h.docs[uri] = doc
	h.mu.Unlock()

	sendDiagnosticNotification(ctx, uri, diagnostics)
	return nil
}

// localNameAt finds the %name that covers column character of line.
func localNameAt(line string, character int) (start, end int, ok bool) {
	for _, loc := range valueRef.FindAllStringIndex(line, -1) {
		if line[loc[0]] == '%' && character >= loc[0] && character < loc[1] {
			return loc[0], loc[1], true
		}
	}
	return 0, 0, false
}

// Convert URI to platform-local file path
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	// On Windows, remove leading slash (e.g., /C:/...) -> C:/...
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

func sendDiagnosticNotification(ctx *glsp.Context, uri protocol.URI, diagnostics []protocol.Diagnostic) {
	diagnosticsJSON, err := json.MarshalIndent(diagnostics, "", "  ")
	if err != nil {
		log.Println("Failed to marshal diagnostics:", err)
		return
	}

	log.Println("Sending diagnostics:", string(diagnosticsJSON))

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
