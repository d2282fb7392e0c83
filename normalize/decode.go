package normalize

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/bytedance/sonic/ast"
	"github.com/tbxark/medassist/action"
	"github.com/tbxark/medassist/types"
)

var ErrNotObject = errors.New("provider result is not a JSON object")

// Decode reads a JSON object of unknown shape, keeping member order.
func Decode(kind action.Kind, raw []byte) (action.RawResult, error) {
	root, err := sonic.Get(raw)
	if err != nil {
		return action.RawResult{}, fmt.Errorf("failed to parse provider result: %w", err)
	}
	if err := root.LoadAll(); err != nil {
		return action.RawResult{}, fmt.Errorf("failed to parse provider result: %w", err)
	}
	if root.Type() != ast.V_OBJECT {
		return action.RawResult{}, ErrNotObject
	}
	fields, err := objectFields(&root)
	if err != nil {
		return action.RawResult{}, err
	}
	return action.RawResult{Action: kind, Fields: fields}, nil
}

func objectFields(node *ast.Node) ([]types.Field, error) {
	fields := []types.Field{}
	var walkErr error
	err := node.ForEach(func(path ast.Sequence, child *ast.Node) bool {
		if path.Key == nil {
			return true
		}
		v, err := nodeValue(child)
		if err != nil {
			walkErr = fmt.Errorf("field %q: %w", *path.Key, err)
			return false
		}
		fields = append(fields, types.Field{Name: *path.Key, Value: v})
		return true
	})
	if err != nil {
		return nil, err
	}
	return fields, walkErr
}

func nodeValue(node *ast.Node) (any, error) {
	switch node.Type() {
	case ast.V_NULL:
		return nil, nil
	case ast.V_STRING:
		return node.String()
	case ast.V_OBJECT:
		return objectFields(node)
	case ast.V_ARRAY:
		var items []any
		allText := true
		var walkErr error
		err := node.ForEach(func(_ ast.Sequence, child *ast.Node) bool {
			v, err := nodeValue(child)
			if err != nil {
				walkErr = err
				return false
			}
			if _, ok := v.(string); !ok {
				allText = false
			}
			items = append(items, v)
			return true
		})
		if err != nil {
			return nil, err
		}
		if walkErr != nil {
			return nil, walkErr
		}
		if allText {
			texts := make([]string, len(items))
			for i, item := range items {
				texts[i] = item.(string)
			}
			return texts, nil
		}
		return items, nil
	default:
		return node.Raw()
	}
}
