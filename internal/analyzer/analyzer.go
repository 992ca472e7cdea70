package analyzer

import (
	"strings"

	"github.com/sqlstudio/sqlcore/internal/ast"
	"github.com/sqlstudio/sqlcore/internal/parser"
	"github.com/sqlstudio/sqlcore/internal/pass"
	"github.com/sqlstudio/sqlcore/internal/rope"
	"github.com/sqlstudio/sqlcore/internal/scanner"
)

// ErrTooManyNameParts is never returned by this package: the parser
// already reports qualified names with more than three parts, and the
// analyzer reads at most three parts of a name without checking for more.
type ErrTooManyNameParts struct{ Location rope.Location }

func (e ErrTooManyNameParts) Error() string { return "qualified name has more than three parts" }

// scopeInfo is the per-node resolution state: the table references
// introduced in this subtree, plus column references still unresolved
// ("pending") that bubble upward looking for an enclosing FROM.
type scopeInfo struct {
	tableRefs   []int
	pendingCols []int
}

// builder drives the resolution pass. It implements pass.Pass so the
// morsel-wise driver in internal/pass exercises it, even though the
// algorithm itself needs the whole node range to be available for
// attribute lookups (ast.AttributeIndex + parent links), not just the
// morsel in hand.
type builder struct {
	contextID uint32
	parsed    *parser.ParsedScript
	nodes     []ast.Node
	scanned   *scanner.ScannedScript

	attrIdx    *ast.AttributeIndex
	childrenOf map[uint32][]uint32

	result *AnalyzedScript

	scopes map[uint32]scopeInfo

	byRelation map[string][]candidate
	byFullKey  map[string]candidate

	external map[uint32]*AnalyzedScript
}

type candidate struct {
	target TableRefTarget
}

// Options configures Analyze: the script's default database/schema,
// applied when a qualified table reference omits those parts.
type Options struct {
	ContextID uint32
	Database  string
	Schema    string
}

// New constructs an analyzer for one script. Call RegisterExternalTables
// for each external script that should participate in resolution, then
// Analyze.
func New(opts Options) *builder {
	return &builder{
		contextID:  opts.ContextID,
		attrIdx:    ast.NewAttributeIndex(),
		scopes:     make(map[uint32]scopeInfo),
		byRelation: make(map[string][]candidate),
		byFullKey:  make(map[string]candidate),
		external:   make(map[uint32]*AnalyzedScript),
		result: &AnalyzedScript{
			Database: opts.Database,
			Schema:   opts.Schema,
		},
	}
}

// RegisterExternalTables imports another script's table declarations into
// the lookup used during resolution. Must be called before Analyze to
// take effect, since resolution of table references happens inline as
// each is encountered. Registering the same context id twice is a no-op.
func (b *builder) RegisterExternalTables(other *AnalyzedScript) {
	if _, done := b.external[other.ContextID]; done {
		return
	}
	b.external[other.ContextID] = other
	for i, decl := range other.Tables {
		b.addCandidate(decl.Name, candidate{target: TableRefTarget{
			Local:    false,
			External: ContextObjectID{ContextID: other.ContextID, Index: uint32(i)},
		}})
	}
}

func (b *builder) addCandidate(name QualifiedName, c candidate) {
	b.byFullKey[name.Key()] = c
	b.byRelation[name.RelationKey()] = append(b.byRelation[name.RelationKey()], c)
}

// ErrNotParsed is returned by Analyze when handed a nil parsed script or
// one without its scanned input. A parsed script with no statements is
// analyzed normally.
var ErrNotParsed = errNotParsed{}

type errNotParsed struct{}

func (errNotParsed) Error() string { return "ANALYZER_INPUT_NOT_PARSED" }

// Analyze runs the name-resolution pass over parsed and returns the
// resulting AnalyzedScript.
func (b *builder) Analyze(parsed *parser.ParsedScript) (*AnalyzedScript, error) {
	if parsed == nil || parsed.Scanned == nil {
		return nil, ErrNotParsed
	}
	b.parsed = parsed
	b.nodes = parsed.Nodes
	b.scanned = parsed.Scanned
	b.result.ContextID = b.contextID
	b.childrenOf = buildChildrenOf(b.nodes)

	pass.Run(len(b.nodes), b)

	return b.result, nil
}

func buildChildrenOf(nodes []ast.Node) map[uint32][]uint32 {
	out := make(map[uint32][]uint32, len(nodes))
	for i, n := range nodes {
		if n.Parent == ast.NullIndex {
			continue
		}
		out[n.Parent] = append(out[n.Parent], uint32(i))
	}
	return out
}

func (b *builder) Prepare() {}

func (b *builder) Visit(morsel []int, begin int) {
	for _, idx := range morsel {
		b.visitNode(uint32(idx))
	}
}

func (b *builder) Finish() {
	// Any column reference that never found an enclosing FROM within its
	// own statement remains unresolved: a null target, not an error, so a
	// consumer can distinguish "still typing" from "definitely wrong".
	b.deriveJoinEdges()
}

// deriveJoinEdges builds join-edge metadata from every JOIN node's
// resolved left/right table refs, once the full script has been walked
// and every table ref is known.
func (b *builder) deriveJoinEdges() {
	for idx, n := range b.nodes {
		if n.Type != ast.NodeTypeObjectSQLJoin {
			continue
		}
		g := b.attrIdx.Load(b.childrenOf[uint32(idx)], b.attrOf)
		leftNode := b.attrIdx.Get(ast.AttrSQLJoinLeft)
		rightNode := b.attrIdx.Get(ast.AttrSQLJoinRight)
		condNode := b.attrIdx.Get(ast.AttrSQLJoinCondition)
		g.Release()
		leftRef := b.tableRefIndexForNode(leftNode)
		rightRef := b.tableRefIndexForNode(rightNode)
		if leftRef < 0 || rightRef < 0 {
			continue
		}
		b.result.JoinEdges = append(b.result.JoinEdges, JoinEdge{Left: leftRef, Right: rightRef, ConditionID: condNode})
	}
}

func (b *builder) attrOf(idx uint32) ast.AttributeKey { return b.nodes[idx].Attribute }

func (b *builder) mergeChildren(idx uint32) scopeInfo {
	var out scopeInfo
	for _, c := range b.childrenOf[idx] {
		cs := b.scopes[c]
		out.tableRefs = append(out.tableRefs, cs.tableRefs...)
		out.pendingCols = append(out.pendingCols, cs.pendingCols...)
	}
	return out
}

func (b *builder) visitNode(idx uint32) {
	n := b.nodes[idx]
	switch n.Type {
	case ast.NodeTypeObjectSQLCreateTable:
		b.visitCreateTable(idx)
		b.scopes[idx] = scopeInfo{}
	case ast.NodeTypeObjectSQLTableRef:
		b.scopes[idx] = b.visitTableRef(idx)
	case ast.NodeTypeObjectSQLColumnRef:
		b.scopes[idx] = b.visitColumnRef(idx)
	case ast.NodeTypeObjectSQLSelect:
		b.scopes[idx] = b.visitSelect(idx)
	default:
		b.scopes[idx] = b.mergeChildren(idx)
	}
}

func (b *builder) visitSelect(idx uint32) scopeInfo {
	merged := b.mergeChildren(idx)
	var stillPending []int
	for _, colIdx := range merged.pendingCols {
		if !b.resolveColumn(colIdx, merged.tableRefs) {
			stillPending = append(stillPending, colIdx)
		}
	}
	return scopeInfo{pendingCols: stillPending}
}

func (b *builder) tableRefIndexForNode(nodeIdx uint32) int {
	if nodeIdx == ast.NullIndex {
		return -1
	}
	for i, tr := range b.result.TableRefs {
		if tr.NodeID == nodeIdx {
			return i
		}
	}
	// A JOIN's left operand may itself be a nested JOIN; walk down its
	// right-hand table ref in that case.
	if b.nodes[nodeIdx].Type == ast.NodeTypeObjectSQLJoin {
		g := b.attrIdx.Load(b.childrenOf[nodeIdx], b.attrOf)
		rightNode := b.attrIdx.Get(ast.AttrSQLJoinRight)
		g.Release()
		return b.tableRefIndexForNode(rightNode)
	}
	return -1
}

func (b *builder) visitCreateTable(idx uint32) {
	g := b.attrIdx.Load(b.childrenOf[idx], b.attrOf)
	nameNode := b.attrIdx.Get(ast.AttrSQLCreateTableName)
	colsNode := b.attrIdx.Get(ast.AttrSQLCreateTableColumns)
	g.Release()

	name := b.extractQualifiedName(nameNode)
	var cols []ColumnDeclaration
	if colsNode != ast.NullIndex {
		for i, colIdx := range b.childrenOf[colsNode] {
			cg := b.attrIdx.Load(b.childrenOf[colIdx], b.attrOf)
			colNameNode := b.attrIdx.Get(ast.AttrSQLColumnDefName)
			cg.Release()
			cols = append(cols, ColumnDeclaration{Name: b.text(colNameNode), Index: i})
		}
	}

	doc, _ := parseDocstring(b.precedingComments(b.nodes[idx].Location.Offset))

	declIdx := len(b.result.Tables)
	decl := TableDeclaration{
		Name:    name,
		Columns: cols,
		NodeID:  idx,
		ID:      ContextObjectID{ContextID: b.contextID, Index: uint32(declIdx)},
		Doc:     doc,
	}
	b.result.Tables = append(b.result.Tables, decl)
	b.addCandidate(name, candidate{target: TableRefTarget{Local: true, LocalIndex: declIdx}})
}

// precedingComments returns the text of every line/block comment that sits
// immediately above statementOffset with nothing but whitespace between
// them (the docstring run parseDocstring consumes).
func (b *builder) precedingComments(statementOffset int) []string {
	var run []rope.Location
	for _, c := range b.scanned.Comments {
		if c.Offset+c.Length <= statementOffset {
			run = append(run, c)
		}
	}
	var contiguous []rope.Location
	for i := len(run) - 1; i >= 0; i-- {
		c := run[i]
		gapEnd := statementOffset
		if len(contiguous) > 0 {
			gapEnd = contiguous[0].Offset
		}
		gap := b.scanned.Text[c.Offset+c.Length : gapEnd]
		if strings.TrimSpace(gap) != "" {
			break
		}
		contiguous = append([]rope.Location{c}, contiguous...)
	}
	out := make([]string, len(contiguous))
	for i, c := range contiguous {
		out[i] = b.scanned.Text[c.Offset : c.Offset+c.Length]
	}
	return out
}

func (b *builder) visitTableRef(idx uint32) scopeInfo {
	g := b.attrIdx.Load(b.childrenOf[idx], b.attrOf)
	nameNode := b.attrIdx.Get(ast.AttrSQLTableRefName)
	aliasNode := b.attrIdx.Get(ast.AttrSQLTableRefAlias)
	g.Release()

	ref := TableReference{NodeID: idx}
	if b.nodes[idx].Value == 1 {
		ref.IsSubquery = true
	} else {
		ref.Name = b.extractQualifiedName(nameNode)
	}
	if aliasNode != ast.NullIndex {
		ref.Alias = b.text(aliasNode)
	}
	if !ref.IsSubquery {
		ref.Target = b.resolveTable(ref.Name)
	}

	refIdx := len(b.result.TableRefs)
	b.result.TableRefs = append(b.result.TableRefs, ref)
	return scopeInfo{tableRefs: []int{refIdx}}
}

func (b *builder) resolveTable(name QualifiedName) *TableRefTarget {
	if name.Catalog == "" && name.Schema == "" {
		cands := b.byRelation[name.RelationKey()]
		if len(cands) == 1 {
			t := cands[0].target
			return &t
		}
		return nil
	}
	applied := name
	if applied.Schema == "" {
		applied.Schema = b.result.Schema
	}
	if applied.Catalog == "" {
		applied.Catalog = b.result.Database
	}
	if c, ok := b.byFullKey[applied.Key()]; ok {
		t := c.target
		return &t
	}
	if c, ok := b.byFullKey[name.Key()]; ok {
		t := c.target
		return &t
	}
	return nil
}

func (b *builder) visitColumnRef(idx uint32) scopeInfo {
	g := b.attrIdx.Load(b.childrenOf[idx], b.attrOf)
	pathNode := b.attrIdx.Get(ast.AttrSQLColumnRefPath)
	g.Release()

	alias, column := b.extractColumnPath(pathNode)
	ref := ColumnReference{NodeID: idx, TableAlias: alias, ColumnName: column}
	refIdx := len(b.result.ColumnRefs)
	b.result.ColumnRefs = append(b.result.ColumnRefs, ref)
	return scopeInfo{pendingCols: []int{refIdx}}
}

// resolveColumn attempts to bind a column reference against the table refs
// visible in its enclosing scope: an alias-exact match wins, then a
// unique declaring table; multiple declaring tables are an ambiguity
// error.
func (b *builder) resolveColumn(colIdx int, visibleTableRefs []int) bool {
	col := &b.result.ColumnRefs[colIdx]
	if col.TableAlias != "" {
		for _, ti := range visibleTableRefs {
			tr := b.result.TableRefs[ti]
			if foldKey(tr.Alias) == foldKey(col.TableAlias) ||
				(tr.Alias == "" && foldKey(tr.Name.Relation) == foldKey(col.TableAlias)) {
				col.Target = &ColumnRefTarget{TableRef: ti}
				return true
			}
		}
		return false
	}
	var matches []int
	for _, ti := range visibleTableRefs {
		if b.tableDeclares(b.result.TableRefs[ti], col.ColumnName) {
			matches = append(matches, ti)
		}
	}
	switch len(matches) {
	case 1:
		col.Target = &ColumnRefTarget{TableRef: matches[0]}
		return true
	case 0:
		// A lone derived table carries no column list to check against;
		// bind the reference to it rather than leaving it dangling. An
		// unresolved plain table reference stays unbound (null target).
		if len(visibleTableRefs) == 1 && b.result.TableRefs[visibleTableRefs[0]].IsSubquery {
			col.Target = &ColumnRefTarget{TableRef: visibleTableRefs[0]}
			return true
		}
		return false
	default:
		col.Ambiguous = true
		b.result.Errors = append(b.result.Errors, scanner.PositionedError{
			Location: b.nodes[col.NodeID].Location,
			Message:  "ambiguous column reference: " + col.ColumnName,
		})
		return false
	}
}

func (b *builder) tableDeclares(tr TableReference, column string) bool {
	if tr.Target == nil {
		return false
	}
	if tr.Target.Local {
		decl, ok := b.result.TableByID(tr.Target.LocalIndex)
		return ok && decl.HasColumn(column)
	}
	ext, ok := b.external[tr.Target.External.ContextID]
	if !ok {
		return false
	}
	decl, ok := ext.TableByID(int(tr.Target.External.Index))
	return ok && decl.HasColumn(column)
}

func (b *builder) extractQualifiedName(nameNode uint32) QualifiedName {
	if nameNode == ast.NullIndex {
		return QualifiedName{}
	}
	g := b.attrIdx.Load(b.childrenOf[nameNode], b.attrOf)
	catN := b.attrIdx.Get(ast.AttrCatalog)
	schN := b.attrIdx.Get(ast.AttrSchema)
	relN := b.attrIdx.Get(ast.AttrRelation)
	g.Release()
	return QualifiedName{Catalog: b.text(catN), Schema: b.text(schN), Relation: b.text(relN)}
}

// extractColumnPath reads a column reference's path node: RELATION alone
// is a bare column name, SCHEMA+RELATION is alias.column (the qualified
// name grammar's generic slots reused for column paths).
func (b *builder) extractColumnPath(pathNode uint32) (alias, column string) {
	if pathNode == ast.NullIndex {
		return "", ""
	}
	g := b.attrIdx.Load(b.childrenOf[pathNode], b.attrOf)
	schN := b.attrIdx.Get(ast.AttrSchema)
	relN := b.attrIdx.Get(ast.AttrRelation)
	g.Release()
	if schN != ast.NullIndex {
		alias = b.text(schN)
	}
	column = b.text(relN)
	return alias, column
}

func (b *builder) text(idx uint32) string {
	if idx == ast.NullIndex {
		return ""
	}
	loc := b.nodes[idx].Location
	raw := b.scanned.Text[loc.Offset : loc.Offset+loc.Length]
	if b.nodes[idx].Type == ast.NodeTypeName {
		return unquoteName(raw)
	}
	return raw
}

func unquoteName(raw string) string {
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		inner := raw[1 : len(raw)-1]
		inner = strings.ReplaceAll(inner, `""`, `"`)
		return strings.ReplaceAll(inner, `\"`, `"`)
	}
	return raw
}
