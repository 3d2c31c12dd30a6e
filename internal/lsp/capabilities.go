package lsp

// DefaultServerCapabilities returns the capability set this server
// advertises at initialize time.
func DefaultServerCapabilities() ServerCapabilities {
	return ServerCapabilities{
		TextDocumentSync: TextDocumentSyncOptions{
			OpenClose: true,
			Change:    TextDocumentSyncKindIncremental,
		},
		HoverProvider:             true,
		DefinitionProvider:        true,
		ImplementationProvider:    true,
		ReferencesProvider:        true,
		DocumentHighlightProvider: true,
	}
}
