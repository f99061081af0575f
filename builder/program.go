package builder

import (
	"context"
	"errors"
	"fmt"
	"go/token"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/exp/slices"
	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/multi"
	"gonum.org/v1/gonum/graph/topo"
)

// Program is the set of packages named on the command line together with
// their SSA form.
type Program struct {
	FileSet *token.FileSet

	// Ordered lists the SSA packages so that imported packages precede the
	// packages importing them.
	Ordered []*ssa.Package

	options      Options
	packageNodes map[*packages.Package]*packageNode
}

type packageNode struct {
	pkg *packages.Package
	ssa *ssa.Package
	id  int64
}

func (p *packageNode) ID() int64 {
	return p.id
}

func NewProgram(options Options) *Program {
	return &Program{
		FileSet:      token.NewFileSet(),
		options:      options,
		packageNodes: map[*packages.Package]*packageNode{},
	}
}

func (p *Program) makeNode(pkg *packages.Package) *packageNode {
	// Look up an existing node for this package.
	if node, ok := p.packageNodes[pkg]; ok {
		return node
	}

	node := &packageNode{
		pkg: pkg,
		id:  int64(xxhash.Sum64String(pkg.PkgPath)),
	}
	p.packageNodes[pkg] = node
	return node
}

// Load parses and type checks the packages and builds their SSA form.
func (p *Program) Load(ctx context.Context) error {
	if len(p.options.Packages) == 0 {
		return ErrNoPackages
	}

	// Create the parser configuration.
	parserConfig := packages.Config{
		Mode:    packages.NeedName | packages.NeedFiles | packages.NeedImports | packages.NeedDeps | packages.NeedTypes | packages.NeedSyntax | packages.NeedTypesInfo | packages.NeedTypesSizes,
		Context: ctx,
		Dir:     p.options.Dir,
		Env:     append(p.options.Environment.List(), p.options.environ()...),
		Fset:    p.FileSet,
	}

	pkgs, err := packages.Load(&parserConfig, p.options.Packages...)
	if err != nil {
		return err
	}

	// Collect every reported problem before giving up.
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, pkgErr := range pkg.Errors {
			err = errors.Join(err, fmt.Errorf("%w: %s", ErrParserError, pkgErr))
		}
	})
	if err != nil {
		return err
	}

	_, ssaPkgs := ssautil.Packages(pkgs, ssa.SanityCheckFunctions|ssa.BareInits)
	for i, pkg := range pkgs {
		if ssaPkgs[i] == nil {
			return fmt.Errorf("%w: no SSA form for %s", ErrParserError, pkg.PkgPath)
		}
		ssaPkgs[i].Build()
		p.makeNode(pkg).ssa = ssaPkgs[i]
	}

	return p.computePackageOrder(pkgs)
}

func (p *Program) computePackageOrder(pkgs []*packages.Package) error {
	// Create a directed graph that will be used to sort the packages
	// topologically in order of dependency.
	g := multi.NewDirectedGraph()
	for _, pkg := range pkgs {
		pkgNode := p.makeNode(pkg)
		if g.Node(pkgNode.ID()) == nil {
			g.AddNode(pkgNode)
		}

		// Only the packages being built take part in the order.
		for _, imported := range pkg.Imports {
			importedNode, ok := p.packageNodes[imported]
			if !ok || importedNode.ssa == nil {
				continue
			}
			g.SetLine(g.NewLine(importedNode, pkgNode))
		}
	}

	sorted, err := topo.SortStabilized(g, func(nodes []graph.Node) {
		slices.SortFunc(nodes, func(a, b graph.Node) bool {
			return a.(*packageNode).pkg.PkgPath < b.(*packageNode).pkg.PkgPath
		})
	})
	if err != nil {
		return err
	}

	p.Ordered = make([]*ssa.Package, len(sorted))
	for i, node := range sorted {
		p.Ordered[i] = node.(*packageNode).ssa
	}
	return nil
}
