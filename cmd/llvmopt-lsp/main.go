// SPDX-License-Identifier: Apache-2.0
package main

import (
	"llvmopt/internal/lsp"
	"log"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

const lsName = "llvmopt"

var (
	version = "0.1.0"
	handler protocol.Handler
)

func main() {
	// 1 = debug level, nil = stderr
	commonlog.Configure(1, nil)

	irHandler := lsp.NewIRHandler()

	handler = protocol.Handler{
		Initialize:                     irHandler.Initialize,
		Initialized:                    irHandler.Initialized,
		Shutdown:                       irHandler.Shutdown,
		SetTrace:                       irHandler.SetTrace,
		TextDocumentDidOpen:            irHandler.TextDocumentDidOpen,
		TextDocumentDidClose:           irHandler.TextDocumentDidClose,
		TextDocumentDidChange:          irHandler.TextDocumentDidChange,
		TextDocumentHover:              irHandler.TextDocumentHover,
		TextDocumentSemanticTokensFull: irHandler.TextDocumentSemanticTokensFull,
	}

	// debug=false keeps glsp's own message dumps off
	s := server.NewServer(&handler, lsName, false)

	log.Printf("Starting llvmopt LSP server %s...", version)

	if err := s.RunStdio(); err != nil {
		log.Println("Error starting llvmopt LSP server:", err)
		os.Exit(1)
	}
}
