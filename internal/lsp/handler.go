package lsp

import (
	"fmt"
	"net/url"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"zl/internal/compiler"
	"zl/internal/semantic"
)

var log = commonlog.GetLogger("zl.lsp")

// SemanticTokenTypes is the legend advertised to clients. Token type indexes
// refer to this slice.
var SemanticTokenTypes = []string{
	"type",
	"function",
	"variable",
	"parameter",
	"keyword",
}

// SemanticTokenModifiers is the modifier legend; modifiers are a bitmask over it.
var SemanticTokenModifiers = []string{
	"declaration",
	"readonly",
}

// ZlHandler implements the LSP server handlers for zl sources
type ZlHandler struct {
	mu      sync.RWMutex
	content map[string]string
	results map[string]*compiler.FileResult
	options compiler.Options
}

func NewZlHandler(opts compiler.Options) *ZlHandler {
	return &ZlHandler{
		content: make(map[string]string),
		results: make(map[string]*compiler.FileResult),
		options: opts,
	}
}

// Initialize advertises full-text sync, completion and semantic tokens
func (h *ZlHandler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("initialize")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			CompletionProvider: &protocol.CompletionOptions{
				ResolveProvider: ptrBool(false),
			},
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true),
			},
		},
	}, nil
}

func (h *ZlHandler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("initialized")
	return nil
}

func (h *ZlHandler) Shutdown(ctx *glsp.Context) error {
	log.Info("shutdown")
	return nil
}

func (h *ZlHandler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	log.Debugf("trace set to %s", params.Value)
	return nil
}

// TextDocumentDidOpen compiles the opened document and publishes its diagnostics
func (h *ZlHandler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Debugf("opened %s", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}
	diagnostics := h.update(path, params.TextDocument.Text)
	sendDiagnosticNotification(ctx, params.TextDocument.URI, diagnostics)
	return nil
}

// TextDocumentDidChange recompiles with the latest full text
func (h *ZlHandler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	log.Debugf("changed %s", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}

	text, ok := latestText(params.ContentChanges)
	if !ok {
		return nil
	}
	diagnostics := h.update(path, text)
	sendDiagnosticNotification(ctx, params.TextDocument.URI, diagnostics)
	return nil
}

// TextDocumentDidClose forgets the document
func (h *ZlHandler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Debugf("closed %s", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.content, path)
	delete(h.results, path)
	return nil
}

// TextDocumentCompletion offers the tagged variables and rule names of the
// last analysis.
func (h *ZlHandler) TextDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	h.mu.RLock()
	result := h.results[path]
	h.mu.RUnlock()

	items := []protocol.CompletionItem{}
	if result != nil {
		items = completionItems(result)
	}
	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}, nil
}

// TextDocumentSemanticTokensFull highlights tags and pipe parameters
func (h *ZlHandler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	h.mu.RLock()
	source, ok := h.content[path]
	h.mu.RUnlock()
	if !ok {
		return &protocol.SemanticTokens{Data: []uint32{}}, nil
	}

	return &protocol.SemanticTokens{Data: encodeSemanticTokens(collectSemanticTokens(source))}, nil
}

// Document returns the last text seen for path.
func (h *ZlHandler) Document(path string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	text, ok := h.content[path]
	return text, ok
}

func (h *ZlHandler) update(path, text string) []protocol.Diagnostic {
	result := compiler.Compile(text, h.options)

	h.mu.Lock()
	h.content[path] = text
	if prev, ok := h.results[path]; ok && result.Tags == nil {
		// a lex error leaves no analysis; keep the last one for completion
		result.Tags, result.Rules = prev.Tags, prev.Rules
	}
	h.results[path] = result
	h.mu.Unlock()

	log.Debugf("%s: %d diagnostic(s)", path, len(result.Diagnostics))
	return ConvertDiagnostics(result.Diagnostics)
}

func completionItems(result *compiler.FileResult) []protocol.CompletionItem {
	var items []protocol.CompletionItem

	if result.Tags != nil {
		for _, name := range result.Tags.Names() {
			typ, _ := result.Tags.Lookup(name)
			items = append(items, protocol.CompletionItem{
				Label:  name,
				Kind:   ptrCompletionKind(protocol.CompletionItemKindVariable),
				Detail: ptrString(typ),
			})
		}
	}

	seen := make(map[string]bool)
	rules := append([]*semantic.Rule(nil), result.Rules...)
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].Name < rules[j].Name })
	for _, rule := range rules {
		if seen[rule.Name] {
			continue
		}
		seen[rule.Name] = true

		params := make([]string, len(rule.Params))
		for i, p := range rule.Params {
			params[i] = p.Name + "|" + p.Type
		}
		items = append(items, protocol.CompletionItem{
			Label:  rule.Name,
			Kind:   ptrCompletionKind(protocol.CompletionItemKindFunction),
			Detail: ptrString("(" + strings.Join(params, ", ") + ")"),
		})
	}
	return items
}

// latestText returns the text of the last change. Sync is full-text, so
// every change carries the whole document.
func latestText(changes []any) (string, bool) {
	for i := len(changes) - 1; i >= 0; i-- {
		switch change := changes[i].(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			return change.Text, true
		case protocol.TextDocumentContentChangeEvent:
			return change.Text, true
		}
	}
	return "", false
}

// Convert URI to platform-local file path
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	// /C:/... on Windows
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

func sendDiagnosticNotification(ctx *glsp.Context, uri protocol.URI, diagnostics []protocol.Diagnostic) {
	if ctx == nil || ctx.Notify == nil {
		return
	}
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrString(s string) *string {
	return &s
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}

func ptrCompletionKind(k protocol.CompletionItemKind) *protocol.CompletionItemKind {
	return &k
}
