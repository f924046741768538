package lsp

import (
	"container/list"
	"strings"
	"sync"

	"go.lsp.dev/uri"
	"go.uber.org/atomic"
	"golang.org/x/crypto/blake2b"

	"github.com/tangzhangming/mel/internal/ast"
	"github.com/tangzhangming/mel/internal/parser"
)

// Document 表示一个打开的文档及其解析结果
type Document struct {
	URI     uri.URI
	Version int32
	Text    string

	// 缓存的解析结果：Program 和 Err 恰有一个非空
	Program *ast.StmtList
	Err     error

	digest [blake2b.Size256]byte
	lines  []string
}

func newDocument(u uri.URI, version int32, text string) *Document {
	doc := &Document{
		URI:     u,
		Version: version,
		Text:    text,
		digest:  blake2b.Sum256([]byte(text)),
		lines:   splitLines(text),
	}
	doc.Program, doc.Err = parser.ParseFile(text, documentFilename(u))
	return doc
}

// Line 返回第 n 行（从 1 开始）的内容，越界时返回空串
func (d *Document) Line(n int) string {
	if n < 1 || n > len(d.lines) {
		return ""
	}
	return d.lines[n-1]
}

// documentFilename 返回错误信息中使用的文件名；非 file 协议的 URI 原样返回
func documentFilename(u uri.URI) string {
	if strings.HasPrefix(string(u), uri.FileScheme+"://") {
		return u.Filename()
	}
	return string(u)
}

// ============================================================================
// 文档存储
// ============================================================================

// DocumentStore 打开文档的集合
//
// 最多保留 max 个文档，超出时淘汰最久未访问的文档。内容摘要不变的
// 更新只刷新版本号，不重新解析。所有方法可并发调用。
type DocumentStore struct {
	mu    sync.Mutex
	max   int
	docs  map[uri.URI]*list.Element
	order *list.List // 最近访问的在前

	parses atomic.Int64
}

// NewDocumentStore 创建文档存储，max <= 0 表示不限制数量
func NewDocumentStore(max int) *DocumentStore {
	return &DocumentStore{
		max:   max,
		docs:  make(map[uri.URI]*list.Element),
		order: list.New(),
	}
}

// Open 打开（或重新打开）文档并解析，返回被淘汰的文档 URI
func (s *DocumentStore) Open(u uri.URI, version int32, text string) (*Document, []uri.URI) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.docs[u]; ok {
		doc := s.replace(el, version, text)
		return doc, nil
	}

	doc := s.parse(u, version, text)
	s.docs[u] = s.order.PushFront(doc)

	var evicted []uri.URI
	for s.max > 0 && s.order.Len() > s.max {
		oldest := s.order.Back()
		old := s.order.Remove(oldest).(*Document)
		delete(s.docs, old.URI)
		evicted = append(evicted, old.URI)
	}
	return doc, evicted
}

// Update 用完整内容替换已打开的文档
//
// 文档未打开时返回 nil。reparsed 表示内容发生变化并重新解析过。
func (s *DocumentStore) Update(u uri.URI, version int32, text string) (doc *Document, reparsed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.docs[u]
	if !ok {
		return nil, false
	}
	before := el.Value.(*Document)
	doc = s.replace(el, version, text)
	return doc, doc != before
}

func (s *DocumentStore) replace(el *list.Element, version int32, text string) *Document {
	s.order.MoveToFront(el)
	old := el.Value.(*Document)

	if blake2b.Sum256([]byte(text)) == old.digest {
		old.Version = version
		return old
	}

	doc := s.parse(old.URI, version, text)
	el.Value = doc
	return doc
}

func (s *DocumentStore) parse(u uri.URI, version int32, text string) *Document {
	s.parses.Inc()
	return newDocument(u, version, text)
}

// Close 关闭文档，返回文档之前是否处于打开状态
func (s *DocumentStore) Close(u uri.URI) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.docs[u]
	if !ok {
		return false
	}
	s.order.Remove(el)
	delete(s.docs, u)
	return true
}

// Get 获取文档，不存在时返回 nil
func (s *DocumentStore) Get(u uri.URI) *Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.docs[u]
	if !ok {
		return nil
	}
	s.order.MoveToFront(el)
	return el.Value.(*Document)
}

// Len 返回打开的文档数量
func (s *DocumentStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

// Parses 返回累计解析次数
func (s *DocumentStore) Parses() int64 {
	return s.parses.Load()
}
