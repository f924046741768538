// Package lsp 实现 mel 语言服务器：文档同步、语法诊断、文档符号和格式化
package lsp

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/segmentio/encoding/json"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/tangzhangming/mel/internal/formatter"
)

// codeServerNotInitialized 在 initialize 之前收到请求时返回的错误码
const codeServerNotInitialized jsonrpc2.Code = -32002

// Options 服务器选项
type Options struct {
	Version      string // 在 initialize 响应中报告的版本
	MaxDocuments int    // 同时打开的文档上限，<= 0 表示不限制

	// Format 格式化的基础选项，nil 时使用默认值；客户端请求中的缩进设置优先
	Format *formatter.Options
}

// Server LSP 服务器
type Server struct {
	opts   Options
	logger *zap.Logger

	// 文档管理
	documents *DocumentStore

	// 连接
	conn   jsonrpc2.Conn
	client protocol.Client

	// 服务器状态
	initialized atomic.Bool
	shutdown    atomic.Bool
	exit        chan struct{}
	exitOnce    sync.Once
	rootURI     uri.URI
}

// NewServer 创建 LSP 服务器
func NewServer(opts Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		opts:      opts,
		logger:    logger,
		documents: NewDocumentStore(opts.MaxDocuments),
		exit:      make(chan struct{}),
	}
}

// Documents 返回文档存储
func (s *Server) Documents() *DocumentStore {
	return s.documents
}

// Run 在标准输入输出上运行服务器，直到客户端断开、收到 exit 或 ctx 取消
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, stdio{})
}

// Serve 在给定连接上运行服务器
func (s *Server) Serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
	s.conn = conn
	s.client = protocol.ClientDispatcher(conn, s.logger.Named("client"))

	s.logger.Info("mel language server started", zap.String("version", s.opts.Version))
	conn.Go(ctx, s.handle)

	var err error
	select {
	case <-ctx.Done():
		err = multierr.Append(ctx.Err(), conn.Close())
	case <-s.exit:
		err = conn.Close()
		<-conn.Done()
	case <-conn.Done():
		if cerr := conn.Err(); cerr != nil && !stderrors.Is(cerr, io.EOF) {
			err = cerr
		}
		s.logger.Info("client disconnected")
	}

	s.logger.Info("mel language server stopped", zap.Error(err))
	return err
}

// ExitCode 返回进程退出码：先 shutdown 再 exit 为 0，否则为 1
func (s *Server) ExitCode() int {
	if s.shutdown.Load() {
		return 0
	}
	return 1
}

// handle 处理收到的消息
func (s *Server) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	method := req.Method()
	s.logger.Debug("handling", zap.String("method", method))

	switch {
	case method == protocol.MethodExit:
		s.exitOnce.Do(func() { close(s.exit) })
		return reply(ctx, nil, nil)
	case method == protocol.MethodInitialize:
		return s.handleInitialize(ctx, reply, req)
	case !s.initialized.Load():
		return reply(ctx, nil, rpcError(codeServerNotInitialized, "server not initialized"))
	case s.shutdown.Load():
		return reply(ctx, nil, rpcError(jsonrpc2.InvalidRequest, "server is shutting down"))
	}

	switch method {
	case protocol.MethodInitialized:
		s.logger.Info("client initialized", zap.String("root", string(s.rootURI)))
		return reply(ctx, nil, nil)

	case protocol.MethodShutdown:
		s.shutdown.Store(true)
		return reply(ctx, nil, nil)

	case protocol.MethodTextDocumentDidOpen:
		var params protocol.DidOpenTextDocumentParams
		if err := unmarshalParams(req, &params); err != nil {
			return reply(ctx, nil, err)
		}
		return reply(ctx, nil, s.didOpen(ctx, &params))

	case protocol.MethodTextDocumentDidChange:
		var params protocol.DidChangeTextDocumentParams
		if err := unmarshalParams(req, &params); err != nil {
			return reply(ctx, nil, err)
		}
		return reply(ctx, nil, s.didChange(ctx, &params))

	case protocol.MethodTextDocumentDidClose:
		var params protocol.DidCloseTextDocumentParams
		if err := unmarshalParams(req, &params); err != nil {
			return reply(ctx, nil, err)
		}
		return reply(ctx, nil, s.didClose(ctx, &params))

	case protocol.MethodTextDocumentDocumentSymbol:
		var params protocol.DocumentSymbolParams
		if err := unmarshalParams(req, &params); err != nil {
			return reply(ctx, nil, err)
		}
		return reply(ctx, s.documentSymbol(&params), nil)

	case protocol.MethodTextDocumentFormatting:
		var params protocol.DocumentFormattingParams
		if err := unmarshalParams(req, &params); err != nil {
			return reply(ctx, nil, err)
		}
		return reply(ctx, s.formatting(&params), nil)
	}

	if _, isCall := req.(*jsonrpc2.Call); !isCall {
		// 未处理的通知（如 $/cancelRequest）直接忽略
		return reply(ctx, nil, nil)
	}
	s.logger.Debug("method not found", zap.String("method", method))
	return reply(ctx, nil, rpcError(jsonrpc2.MethodNotFound, "method not found: %s", method))
}

func unmarshalParams(req jsonrpc2.Request, v interface{}) error {
	if err := json.Unmarshal(req.Params(), v); err != nil {
		return rpcError(jsonrpc2.InvalidParams, "invalid params for %s: %v", req.Method(), err)
	}
	return nil
}

func rpcError(code jsonrpc2.Code, format string, args ...interface{}) error {
	return &jsonrpc2.Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ============================================================================
// 生命周期
// ============================================================================

func (s *Server) handleInitialize(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	if s.initialized.Load() {
		return reply(ctx, nil, rpcError(jsonrpc2.InvalidRequest, "server already initialized"))
	}

	var params protocol.InitializeParams
	if err := unmarshalParams(req, &params); err != nil {
		return reply(ctx, nil, err)
	}
	s.rootURI = uri.URI(params.RootURI)
	s.initialized.Store(true)

	s.logger.Info("initialize", zap.String("root", string(s.rootURI)))

	return reply(ctx, &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
			},
			DocumentSymbolProvider:     true,
			DocumentFormattingProvider: true,
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    "mel",
			Version: s.opts.Version,
		},
	}, nil)
}

// ============================================================================
// 文档同步
// ============================================================================

func (s *Server) didOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	item := params.TextDocument
	doc, evicted := s.documents.Open(uri.URI(item.URI), item.Version, item.Text)
	s.logger.Debug("opened", zap.String("uri", string(doc.URI)), zap.Int32("version", doc.Version))

	var err error
	for _, u := range evicted {
		s.logger.Info("evicted document", zap.String("uri", string(u)))
		err = multierr.Append(err, s.publish(ctx, u, []protocol.Diagnostic{}))
	}
	return multierr.Append(err, s.publish(ctx, doc.URI, getDiagnostics(doc)))
}

func (s *Server) didChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	u := uri.URI(params.TextDocument.URI)

	// 全量同步：最后一次变更就是完整内容
	text := params.ContentChanges[len(params.ContentChanges)-1].Text
	doc, reparsed := s.documents.Update(u, params.TextDocument.Version, text)
	if doc == nil {
		s.logger.Warn("change for unopened document", zap.String("uri", string(u)))
		return nil
	}
	if !reparsed {
		s.logger.Debug("content unchanged, skipping parse", zap.String("uri", string(u)))
		return nil
	}
	return s.publish(ctx, doc.URI, getDiagnostics(doc))
}

func (s *Server) didClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	u := uri.URI(params.TextDocument.URI)
	if !s.documents.Close(u) {
		return nil
	}
	s.logger.Debug("closed", zap.String("uri", string(u)))
	return s.publish(ctx, u, []protocol.Diagnostic{})
}

func (s *Server) publish(ctx context.Context, u uri.URI, diagnostics []protocol.Diagnostic) error {
	return s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentURI(u),
		Diagnostics: diagnostics,
	})
}

// ============================================================================
// 文档符号
// ============================================================================

func (s *Server) documentSymbol(params *protocol.DocumentSymbolParams) []protocol.DocumentSymbol {
	doc := s.documents.Get(uri.URI(params.TextDocument.URI))
	if doc == nil {
		return []protocol.DocumentSymbol{}
	}
	return getDocumentSymbols(doc)
}

// ============================================================================
// 标准输入输出
// ============================================================================

// stdio 把 stdin/stdout 组合为一个连接
type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdio) Close() error {
	return multierr.Combine(os.Stdin.Close(), os.Stdout.Close())
}
