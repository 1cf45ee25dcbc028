package main

import (
	"fmt"
	"strings"

	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"

	"github.com/jinnovation/jinja"
	"github.com/jinnovation/jinja/ast"
)

var flagASTOutput string

var astCmd = &cobra.Command{
	Use:   "ast [template]",
	Short: "Parse a template and print its syntax tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		source, _, err := readSource(args)
		if err != nil {
			return err
		}
		tmpl, err := jinja.Parse(source)
		if err != nil {
			return err
		}
		root := nodeToTree(tmpl.Program())
		if flagASTOutput == "json" {
			out, err := prettyjson.Marshal(root)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		}
		printTree(cmd, root, 0)
		return nil
	},
}

func init() {
	astCmd.Flags().StringVarP(&flagASTOutput, "output", "o", "text", "Output format (text or json)")
}

// treeNode is the display form of one AST node.
type treeNode struct {
	Type     string      `json:"type"`
	Value    interface{} `json:"value,omitempty"`
	Children []*treeNode `json:"children,omitempty"`
}

func printTree(cmd *cobra.Command, n *treeNode, depth int) {
	label := n.Type
	if n.Value != nil {
		label = fmt.Sprintf("%s %v", n.Type, n.Value)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", strings.Repeat("  ", depth), label)
	for _, child := range n.Children {
		printTree(cmd, child, depth+1)
	}
}

func nodeToTree(node ast.Node) *treeNode {
	if node == nil {
		return nil
	}
	children := func(nodes ...ast.Node) []*treeNode {
		var out []*treeNode
		for _, n := range nodes {
			if n != nil {
				out = append(out, nodeToTree(n))
			}
		}
		return out
	}
	body := func(out []*treeNode, nodes []ast.Node) []*treeNode {
		for _, n := range nodes {
			out = append(out, nodeToTree(n))
		}
		return out
	}

	switch n := node.(type) {
	case *ast.Program:
		return &treeNode{Type: "Program", Children: body(nil, n.Stmts)}
	case *ast.String:
		return &treeNode{Type: "String", Value: n.Value}
	case *ast.Number:
		return &treeNode{Type: "Number", Value: n.Literal}
	case *ast.Bool:
		return &treeNode{Type: "Bool", Value: n.Value}
	case *ast.Ident:
		return &treeNode{Type: "Ident", Value: n.Name}
	case *ast.List:
		t := &treeNode{Type: "List"}
		for _, item := range n.Items {
			t.Children = append(t.Children, nodeToTree(item))
		}
		return t
	case *ast.Map:
		t := &treeNode{Type: "Map"}
		for _, item := range n.Items {
			t.Children = append(t.Children, nodeToTree(item.Key), nodeToTree(item.Value))
		}
		return t
	case *ast.Prefix:
		return &treeNode{Type: "Prefix", Value: n.Op, Children: children(n.X)}
	case *ast.Infix:
		return &treeNode{Type: "Infix", Value: n.Op, Children: children(n.X, n.Y)}
	case *ast.Member:
		kind := "attribute"
		if n.Computed {
			kind = "index"
		}
		return &treeNode{Type: "Member", Value: kind, Children: children(n.X, n.Prop)}
	case *ast.Call:
		t := &treeNode{Type: "Call", Children: children(n.Fun)}
		for _, arg := range n.Args {
			t.Children = append(t.Children, nodeToTree(arg))
		}
		return t
	case *ast.KeywordArg:
		return &treeNode{Type: "KeywordArg", Value: n.Key.Name, Children: children(n.Value)}
	case *ast.Slice:
		return &treeNode{Type: "Slice", Children: children(n.Start, n.Stop, n.Step)}
	case *ast.Filter:
		return &treeNode{Type: "Filter", Children: children(n.X, n.Name)}
	case *ast.Test:
		return &treeNode{Type: "Test", Value: n.Negate, Children: children(n.X, n.Name)}
	case *ast.If:
		t := &treeNode{Type: "If", Children: children(n.Cond)}
		t.Children = body(t.Children, n.Body)
		t.Children = body(t.Children, n.Else)
		return t
	case *ast.For:
		t := &treeNode{Type: "For", Value: n.Var.Name, Children: children(n.Iter)}
		t.Children = body(t.Children, n.Body)
		return t
	case *ast.Set:
		return &treeNode{Type: "Set", Children: children(n.Target, n.Value)}
	}
	return &treeNode{Type: fmt.Sprintf("%T", node)}
}
